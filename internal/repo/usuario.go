package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Usuario es la cuenta que opera el consultorio (login del sistema).
type Usuario struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Confirmado   bool
	CreatedAt    time.Time
}

func UsuarioByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*Usuario, error) {
	var u Usuario
	err := pool.QueryRow(ctx, `
		SELECT id, email, password_hash, confirmado, created_at
		FROM usuarios WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Confirmado, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func CreateUsuario(ctx context.Context, pool *pgxpool.Pool, email, passwordHash string, confirmado bool) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO usuarios (email, password_hash, confirmado)
		VALUES (lower($1), $2, $3) RETURNING id
	`, email, passwordHash, confirmado).Scan(&id)
	return id, err
}
