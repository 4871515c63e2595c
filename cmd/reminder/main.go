// reminder manda por email los recordatorios de los turnos de mañana. Se
// corre una vez por día desde cron.
package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/email"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/reminder"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL es obligatoria")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sender := &email.Config{
		Host:     cfg.SMTPHost,
		Port:     email.PortFromString(cfg.SMTPPort),
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		FromName: cfg.SMTPFromName,
		FromAddr: cfg.SMTPFromEmail,
	}

	manana := dates.StartOfDay(dates.Today()).AddDate(0, 0, 1)
	sent, skipped := reminder.SendRecordatorios(ctx, pool, manana, sender, repo.TurnosParaRecordatorio)
	log.Printf("[reminder] listo: enviados=%d salteados=%d fecha=%s", sent, skipped, manana.Format("2006-01-02"))
}
