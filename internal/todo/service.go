package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrTextRequired = errors.New("text is required")

// TodoRepository defines the persistence operations the service needs.
// Implemented by Repository.
type TodoRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, text string) (*Todo, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Todo, error)
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error)
	Update(ctx context.Context, t *Todo) (*Todo, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error)
}

// UpdateParams carries the mutable fields of a todo. Nil means "leave
// unchanged"; everything else in the request body is ignored.
type UpdateParams struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// Service holds the todo business rules: text validation and the
// completed/completed_at coupling.
type Service struct {
	repo TodoRepository
}

func NewService(repo TodoRepository) *Service {
	return &Service{repo: repo}
}

// Create validates the text and inserts a todo owned by the requester
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, text string) (*Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	t, err := s.repo.Create(ctx, ownerID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return t, nil
}

// List returns the requester's todos, and only theirs
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Todo, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get returns a single todo if the requester owns it
func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

// Update applies the given patch. Setting completed to true records the
// completion time in epoch milliseconds; setting it to false clears it,
// keeping completed_at non-null exactly when completed is true.
func (s *Service) Update(ctx context.Context, id, ownerID uuid.UUID, params UpdateParams) (*Todo, error) {
	existing, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if params.Text != nil {
		text := strings.TrimSpace(*params.Text)
		if text == "" {
			return nil, ErrTextRequired
		}
		existing.Text = text
	}

	if params.Completed != nil {
		if *params.Completed {
			now := time.Now().UnixMilli()
			existing.Completed = true
			existing.CompletedAt = &now
		} else {
			existing.Completed = false
			existing.CompletedAt = nil
		}
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a todo if the requester owns it and returns the deleted
// document
func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error) {
	return s.repo.Delete(ctx, id, ownerID)
}
