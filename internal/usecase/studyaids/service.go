// Package studyaids generates study material from document text: mind
// map structure, flash cards, and quizzes.
package studyaids

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
)

// maxSourceChars bounds the document text sent to the model.
const maxSourceChars = 20000

// maxCards bounds flash card and quiz generation per request.
const maxCards = 15

// Service generates study aids via JSON-mode LLM extraction.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a study-aids service.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// MindMap is an extracted document structure graph.
type MindMap struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one mind map vertex. Level 0 is the root, 1 a key point, 2 a
// subtopic.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Level       int    `json:"level"`
}

// Edge connects a mind map node to its parent.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FlashCard is one question/answer study card.
type FlashCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

const mindMapPrompt = `Analyze the document text to identify its core structure. Return ONLY a JSON object with this schema:
{
  "document_title": "string",
  "key_points": [
    {
      "title": "string",
      "description": "string",
      "subtopics": ["string"]
    }
  ]
}

Rules:
- "key_points" should be 5-8 main topics
- "subtopics" should be 2-4 crucial details per point
- Keep titles concise (max 60 characters)

Text: %s`

// mindMapStructure is the model's extraction schema.
type mindMapStructure struct {
	DocumentTitle string `json:"document_title"`
	KeyPoints     []struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Subtopics   []string `json:"subtopics"`
	} `json:"key_points"`
}

// MindMap extracts the document's key-point structure and builds the
// node/edge graph.
func (s *Service) MindMap(ctx context.Context, text string) (MindMap, error) {
	text, err := prepareSource(text)
	if err != nil {
		return MindMap{}, err
	}

	out, err := s.gen.Generate(ctx, fmt.Sprintf(mindMapPrompt, text), domain.GenerateOptions{
		Temperature: 0.1,
		MaxTokens:   2048,
		JSONMode:    true,
	})
	if err != nil {
		return MindMap{}, fmt.Errorf("extract structure: %w", err)
	}

	var structure mindMapStructure
	if err := json.Unmarshal([]byte(out), &structure); err != nil {
		return MindMap{}, fmt.Errorf("malformed structure JSON: %w", domain.ErrGenerationFailed)
	}
	if len(structure.KeyPoints) == 0 {
		return MindMap{}, fmt.Errorf("no key points extracted: %w", domain.ErrGenerationFailed)
	}

	return buildGraph(structure), nil
}

// buildGraph lays the extracted structure out as root -> key points ->
// subtopics.
func buildGraph(structure mindMapStructure) MindMap {
	title := strings.TrimSpace(structure.DocumentTitle)
	if title == "" {
		title = "Document"
	}

	m := MindMap{
		Title: title,
		Nodes: []Node{{ID: "root", Label: title, Level: 0}},
	}

	for i, kp := range structure.KeyPoints {
		kpTitle := strings.TrimSpace(kp.Title)
		if kpTitle == "" {
			continue
		}
		kpID := fmt.Sprintf("kp_%d", i)
		m.Nodes = append(m.Nodes, Node{
			ID: kpID, Label: kpTitle, Description: kp.Description, Level: 1,
		})
		m.Edges = append(m.Edges, Edge{From: "root", To: kpID})

		for j, sub := range kp.Subtopics {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			subID := fmt.Sprintf("kp_%d_sub_%d", i, j)
			m.Nodes = append(m.Nodes, Node{ID: subID, Label: sub, Level: 2})
			m.Edges = append(m.Edges, Edge{From: kpID, To: subID})
		}
	}

	return m
}

const flashCardsPrompt = `Create exactly %d study flash cards from the document text. Return ONLY a JSON object with this schema:
{
  "cards": [
    {"question": "string", "answer": "string"}
  ]
}

Rules:
- Questions must be answerable from the text alone
- Keep answers short and factual

Text: %s`

// FlashCards generates n question/answer cards from document text.
func (s *Service) FlashCards(ctx context.Context, text string, n int) ([]FlashCard, error) {
	if n < 1 || n > maxCards {
		return nil, fmt.Errorf("card count must be between 1 and %d, got %d: %w",
			maxCards, n, domain.ErrInvalidInput)
	}
	text, err := prepareSource(text)
	if err != nil {
		return nil, err
	}

	out, err := s.gen.Generate(ctx, fmt.Sprintf(flashCardsPrompt, n, text), domain.GenerateOptions{
		Temperature: 0.3,
		MaxTokens:   2048,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate flash cards: %w", err)
	}

	var parsed struct {
		Cards []FlashCard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("malformed flash cards JSON: %w", domain.ErrGenerationFailed)
	}
	if len(parsed.Cards) == 0 {
		return nil, fmt.Errorf("no cards generated: %w", domain.ErrGenerationFailed)
	}
	if len(parsed.Cards) > n {
		parsed.Cards = parsed.Cards[:n]
	}
	return parsed.Cards, nil
}

const quizPrompt = `Create a quiz of exactly %d multiple-choice questions from the document text, in language %q. Return ONLY a JSON object with this schema:
{
  "questions": [
    {"question": "string", "options": ["string", "string", "string", "string"], "answer_index": 0}
  ]
}

Rules:
- Exactly 4 options per question
- "answer_index" is the zero-based index of the correct option
- Distractors must be plausible but wrong

Text: %s`

// Quiz generates n multiple-choice questions in the given language
// ("en" or "ar").
func (s *Service) Quiz(ctx context.Context, text string, n int, lang string) ([]QuizQuestion, error) {
	if n < 1 || n > maxCards {
		return nil, fmt.Errorf("question count must be between 1 and %d, got %d: %w",
			maxCards, n, domain.ErrInvalidInput)
	}
	if lang != "en" && lang != "ar" {
		return nil, fmt.Errorf("quiz language must be en or ar, got %q: %w", lang, domain.ErrInvalidInput)
	}
	text, err := prepareSource(text)
	if err != nil {
		return nil, err
	}

	out, err := s.gen.Generate(ctx, fmt.Sprintf(quizPrompt, n, lang, text), domain.GenerateOptions{
		Temperature: 0.3,
		MaxTokens:   2048,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	var parsed struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("malformed quiz JSON: %w", domain.ErrGenerationFailed)
	}
	for _, q := range parsed.Questions {
		if len(q.Options) != 4 || q.AnswerIndex < 0 || q.AnswerIndex > 3 {
			return nil, fmt.Errorf("invalid quiz question shape: %w", domain.ErrGenerationFailed)
		}
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("no questions generated: %w", domain.ErrGenerationFailed)
	}
	if len(parsed.Questions) > n {
		parsed.Questions = parsed.Questions[:n]
	}
	return parsed.Questions, nil
}

func prepareSource(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty source text: %w", domain.ErrInvalidInput)
	}
	if len(text) > maxSourceChars {
		text = text[:maxSourceChars]
	}
	return text, nil
}
