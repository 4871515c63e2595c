package reminder

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

// Sender envía un recordatorio a un destinatario.
type Sender interface {
	SendRecordatorio(to, nombre, fecha, hora string) error
}

// Lister devuelve los turnos a recordar de una fecha. En producción se usa
// el repo; en tests, un mock.
type Lister func(ctx context.Context, pool *pgxpool.Pool, fecha time.Time) ([]repo.TurnoConPaciente, error)

// SendRecordatorios manda un mail por turno programado de la fecha (mañana,
// en la práctica) cuyo paciente tenga e-mail. Las fallas por destinatario se
// loguean y no frenan al resto. Con lister nil usa el repo.
func SendRecordatorios(ctx context.Context, pool *pgxpool.Pool, fecha time.Time, sender Sender, lister Lister) (sent, skipped int) {
	if lister == nil {
		lister = repo.TurnosParaRecordatorio
	}
	rows, err := lister(ctx, pool, fecha)
	if err != nil {
		log.Printf("[reminder] consulta de turnos: %v", err)
		return 0, 0
	}
	if sender == nil {
		log.Printf("[reminder] SMTP no configurado, habría %d recordatorios", len(rows))
		return 0, len(rows)
	}
	fechaStr := fecha.Format("02/01/2006")
	for _, t := range rows {
		if t.PacienteEmail == nil || *t.PacienteEmail == "" {
			skipped++
			continue
		}
		hora := checks.NormalizeHora(t.Hora)
		nombre := t.PacienteNombre + " " + t.PacienteApellido
		if err := sender.SendRecordatorio(*t.PacienteEmail, nombre, fechaStr, hora); err != nil {
			log.Printf("[reminder] falla turno=%s destino=%s: %v", t.ID, *t.PacienteEmail, err)
			skipped++
			continue
		}
		sent++
	}
	return sent, skipped
}
