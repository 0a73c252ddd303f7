package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the database model for the users table.
// Session tokens are not stored here; they live in the Redis session registry.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:now()"`
}

// Todo is the database model for the todos table.
// CompletedAt is epoch milliseconds; NULL whenever Completed is false.
type Todo struct {
	bun.BaseModel `bun:"table:todos,alias:t"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Text        string    `bun:"text,notnull"`
	Completed   bool      `bun:"completed,notnull,default:false"`
	CompletedAt *int64    `bun:"completed_at"`
	OwnerID     uuid.UUID `bun:"owner_id,notnull,type:uuid"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:now()"`
}
