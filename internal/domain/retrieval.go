package domain

// ChatTurn is one prior conversation turn passed to the retrieval
// backend for query rewriting.
type ChatTurn struct {
	Role    string
	Content string
}

// RetrievalResult is a retrieval outcome: the backend's draft answer
// plus the passages it was grounded on, best match first.
type RetrievalResult struct {
	Answer   string
	Passages []Passage
}
