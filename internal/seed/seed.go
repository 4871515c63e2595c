package seed

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/auth"
)

// Run crea la cuenta inicial del consultorio si la tabla de usuarios está
// vacía. Idempotente: con usuarios existentes no hace nada.
func Run(ctx context.Context, db *gorm.DB) error {
	var n int
	if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM usuarios").Scan(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "consultorio@quiro.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "CambiarYa123!"
		log.Printf("seed: ADMIN_PASSWORD no definido, usuario %s creado con contraseña por defecto", email)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`
		INSERT INTO usuarios (id, email, password_hash, confirmado)
		VALUES (?, lower(?), ?, TRUE)
	`, uuid.New(), email, hash).Error
}
