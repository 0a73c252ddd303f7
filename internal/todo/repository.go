package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskloop/todo-api/internal/database"
)

var ErrNotFound = errors.New("todo not found")

// Repository handles todo persistence. Every by-id operation is scoped by
// (id, owner_id) jointly: a todo owned by someone else behaves exactly
// like a missing one.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new todo for the owner
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, text string) (*Todo, error) {
	dbTodo := &database.Todo{
		Text:    text,
		OwnerID: ownerID,
	}

	_, err := r.db.NewInsert().
		Model(dbTodo).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// ListByOwner returns all todos owned by the user
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Todo, error) {
	var dbTodos []database.Todo
	err := r.db.NewSelect().
		Model(&dbTodos).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos := make([]Todo, 0, len(dbTodos))
	for i := range dbTodos {
		todos = append(todos, *mapDBTodoToModel(&dbTodos[i]))
	}

	return todos, nil
}

// GetByID retrieves a todo by id, scoped to the owner
func (r *Repository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error) {
	dbTodo := new(database.Todo)
	err := r.db.NewSelect().
		Model(dbTodo).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// Update writes text/completed/completed_at for a todo, scoped to the owner
func (r *Repository) Update(ctx context.Context, t *Todo) (*Todo, error) {
	dbTodo := &database.Todo{
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		UpdatedAt:   time.Now(),
	}

	err := r.db.NewUpdate().
		Model(dbTodo).
		Column("text", "completed", "completed_at", "updated_at").
		Where("id = ?", t.ID).
		Where("owner_id = ?", t.OwnerID).
		Returning("*").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// Delete removes a todo scoped to the owner and returns the deleted document
func (r *Repository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error) {
	dbTodo := new(database.Todo)
	err := r.db.NewDelete().
		Model(dbTodo).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Returning("*").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// mapDBTodoToModel converts database model to domain model
func mapDBTodoToModel(dbt *database.Todo) *Todo {
	return &Todo{
		ID:          dbt.ID,
		Text:        dbt.Text,
		Completed:   dbt.Completed,
		CompletedAt: dbt.CompletedAt,
		OwnerID:     dbt.OwnerID,
	}
}
