package reprise

import "github.com/google/uuid"

// Item is a quiz item. Content lives in the collaborator's store; the
// engine reads only the identity and topic tag.
type Item struct {
	ID         uuid.UUID `json:"id"`
	Topic      string    `json:"topic"`
	ContentRef string    `json:"content_ref,omitempty"`
}
