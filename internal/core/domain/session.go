package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a chat turn.
type Role string

const (
	// RoleUser marks a question typed by the user.
	RoleUser Role = "user"

	// RoleAssistant marks a generated answer.
	RoleAssistant Role = "assistant"
)

// Turn is one exchange half in a chat session.
type Turn struct {
	// Role is who spoke.
	Role Role

	// Content is the question or answer text.
	Content string

	// Sources are the passages an assistant turn was grounded on.
	Sources []Passage

	// At is when the turn was recorded.
	At time.Time
}

// Session is an explicit chat session: turns accumulate until cleared,
// and the transcript can be exported. It replaces implicit UI state so the
// answer service can include recent turns in the prompt.
type Session struct {
	// ID identifies the session in exports.
	ID string

	// StartedAt is when the session was created or last cleared.
	StartedAt time.Time

	// Turns holds the transcript in order.
	Turns []Turn
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// Append records a turn.
func (s *Session) Append(role Role, content string, sources []Passage) {
	s.Turns = append(s.Turns, Turn{
		Role:    role,
		Content: content,
		Sources: sources,
		At:      time.Now().UTC(),
	})
}

// Clear drops the transcript and restarts the session clock.
// The session keeps its ID.
func (s *Session) Clear() {
	s.Turns = nil
	s.StartedAt = time.Now().UTC()
}

// Recent returns up to n of the latest turns, oldest first.
func (s *Session) Recent(n int) []Turn {
	if n <= 0 || len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// ExportMarkdown renders the transcript as a Markdown document.
func (s *Session) ExportMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Chat session %s\n\n", s.ID)
	fmt.Fprintf(&b, "Started: %s\n", s.StartedAt.Format(time.RFC3339))
	for _, t := range s.Turns {
		switch t.Role {
		case RoleUser:
			fmt.Fprintf(&b, "\n## You\n\n%s\n", t.Content)
		case RoleAssistant:
			fmt.Fprintf(&b, "\n## Advisor\n\n%s\n", t.Content)
			if len(t.Sources) > 0 {
				b.WriteString("\nSources:\n")
				for _, src := range t.Sources {
					fmt.Fprintf(&b, "- [%s](%s)\n", src.Title, src.URL)
				}
			}
		}
	}
	return b.String()
}
