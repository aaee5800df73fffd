// Package history holds the chat history message type.
package history

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks a user question.
	RoleUser Role = "user"
	// RoleAssistant marks a generated answer.
	RoleAssistant Role = "assistant"
)

// Message is one turn in a session's chat history. History is append-only;
// messages are never mutated after creation.
type Message struct {
	id        string
	role      Role
	content   string
	modality  string
	language  string
	createdAt int64 // unix millis
}

// NewMessage creates a chat message.
func NewMessage(id string, role Role, content, modality, language string, createdAt int64) Message {
	return Message{
		id: id, role: role, content: content,
		modality: modality, language: language, createdAt: createdAt,
	}
}

// ID returns the message identifier.
func (m *Message) ID() string { return m.id }

// Role returns the message author role.
func (m *Message) Role() Role { return m.role }

// Content returns the message text.
func (m *Message) Content() string { return m.content }

// Modality returns the delivery style the answer was rendered in.
func (m *Message) Modality() string { return m.modality }

// Language returns the detected message language code.
func (m *Message) Language() string { return m.language }

// CreatedAt returns the creation time in unix millis.
func (m *Message) CreatedAt() int64 { return m.createdAt }
