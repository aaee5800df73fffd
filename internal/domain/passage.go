package domain

// Passage is one retrieved unit from the document store. It is produced
// by the retrieval backend per query and read-only to the router.
type Passage struct {
	content    string
	score      float64
	pageNumber int
	citation   int
	excerpt    string
	thumbnail  string
}

// NewPassage creates a retrieved passage. thumbnail is opaque base64 image data.
func NewPassage(
	content string, score float64, pageNumber, citation int,
	excerpt, thumbnail string,
) Passage {
	return Passage{
		content: content, score: score,
		pageNumber: pageNumber, citation: citation,
		excerpt: excerpt, thumbnail: thumbnail,
	}
}

// Content returns the passage text.
func (p *Passage) Content() string { return p.content }

// Score returns the retrieval relevance score. Scores are passed through
// as emitted by the retriever; no normalization happens here.
func (p *Passage) Score() float64 { return p.score }

// PageNumber returns the source page number.
func (p *Passage) PageNumber() int { return p.pageNumber }

// Citation returns the inline citation index.
func (p *Passage) Citation() int { return p.citation }

// Excerpt returns the short display excerpt.
func (p *Passage) Excerpt() string { return p.excerpt }

// Thumbnail returns the base64-encoded page thumbnail.
func (p *Passage) Thumbnail() string { return p.thumbnail }
