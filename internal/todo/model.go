package todo

import (
	"github.com/google/uuid"
)

// Todo is the domain model for a single list entry.
// CompletedAt is epoch milliseconds and is non-nil exactly when Completed
// is true. OwnerID is set at creation and never changes.
type Todo struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	CompletedAt *int64    `json:"completed_at"`
	OwnerID     uuid.UUID `json:"owner_id"`
}
