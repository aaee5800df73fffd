// Package history persists per-session chat history as an append-only list.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	domhist "github.com/askora-cloud/askora/internal/domain/history"
)

// store is the consumer interface for history operations (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	LLen(ctx context.Context, key string) (int64, error)
}

// messageDTO is the storage representation of a chat message.
type messageDTO struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Modality  string `json:"modality,omitempty"`
	Language  string `json:"language,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Repo stores chat history messages, bounded to maxTurns per session.
type Repo struct {
	store     store
	keyPrefix string
	maxTurns  int
}

// New creates a history repository.
func New(s store, keyPrefix string, maxTurns int) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, maxTurns: maxTurns}
}

func (r *Repo) key(sessionID string) string {
	return r.keyPrefix + "history:" + sessionID
}

// Append adds messages to the end of a session's history and trims the
// list to the configured bound, dropping the oldest entries first.
func (r *Repo) Append(ctx context.Context, sessionID string, msgs ...domhist.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([][]byte, len(msgs))
	for i := range msgs {
		data, err := json.Marshal(toDTO(&msgs[i]))
		if err != nil {
			return fmt.Errorf("marshal history message: %w", err)
		}
		values[i] = data
	}

	key := r.key(sessionID)
	if err := r.store.RPush(ctx, key, values...); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if r.maxTurns > 0 {
		if err := r.store.LTrim(ctx, key, int64(-r.maxTurns), -1); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit most recent messages, oldest first.
func (r *Repo) Recent(ctx context.Context, sessionID string, limit int) ([]domhist.Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.store.LRange(ctx, r.key(sessionID), int64(-limit), -1)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return decodeRows(rows)
}

// All returns the full stored history for a session, oldest first.
func (r *Repo) All(ctx context.Context, sessionID string) ([]domhist.Message, error) {
	rows, err := r.store.LRange(ctx, r.key(sessionID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return decodeRows(rows)
}

// Len returns the number of stored messages for a session.
func (r *Repo) Len(ctx context.Context, sessionID string) (int64, error) {
	n, err := r.store.LLen(ctx, r.key(sessionID))
	if err != nil {
		return 0, fmt.Errorf("history length: %w", err)
	}
	return n, nil
}

func decodeRows(rows [][]byte) ([]domhist.Message, error) {
	msgs := make([]domhist.Message, 0, len(rows))
	for _, row := range rows {
		var dto messageDTO
		if err := json.Unmarshal(row, &dto); err != nil {
			return nil, fmt.Errorf("decode history message: %w", err)
		}
		msgs = append(msgs, fromDTO(&dto))
	}
	return msgs, nil
}

func toDTO(m *domhist.Message) messageDTO {
	return messageDTO{
		ID:        m.ID(),
		Role:      string(m.Role()),
		Content:   m.Content(),
		Modality:  m.Modality(),
		Language:  m.Language(),
		CreatedAt: m.CreatedAt(),
	}
}

func fromDTO(dto *messageDTO) domhist.Message {
	return domhist.NewMessage(
		dto.ID, domhist.Role(dto.Role), dto.Content,
		dto.Modality, dto.Language, dto.CreatedAt,
	)
}
