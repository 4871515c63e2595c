package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

type fakeSender struct {
	sent []string
	fail map[string]bool
}

func (f *fakeSender) SendRecordatorio(to, nombre, fecha, hora string) error {
	if f.fail[to] {
		return errors.New("smtp: rechazado")
	}
	f.sent = append(f.sent, to+"|"+nombre+"|"+fecha+"|"+hora)
	return nil
}

func strPtr(s string) *string { return &s }

func fixedLister(rows []repo.TurnoConPaciente, err error) Lister {
	return func(context.Context, *pgxpool.Pool, time.Time) ([]repo.TurnoConPaciente, error) {
		return rows, err
	}
}

func TestSendRecordatorios(t *testing.T) {
	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	rows := []repo.TurnoConPaciente{
		{Turno: repo.Turno{Hora: "09:30:00"}, PacienteNombre: "Juan", PacienteApellido: "Pérez", PacienteEmail: strPtr("juan@mail.com")},
		{Turno: repo.Turno{Hora: "10:00:00"}, PacienteNombre: "María", PacienteApellido: "González", PacienteEmail: strPtr("maria@mail.com")},
		{Turno: repo.Turno{Hora: "10:30:00"}, PacienteNombre: "Sin", PacienteApellido: "Mail", PacienteEmail: nil},
	}
	s := &fakeSender{fail: map[string]bool{"maria@mail.com": true}}
	sent, skipped := SendRecordatorios(context.Background(), nil, fecha, s, fixedLister(rows, nil))
	if sent != 1 || skipped != 2 {
		t.Fatalf("sent=%d skipped=%d", sent, skipped)
	}
	want := "juan@mail.com|Juan Pérez|10/03/2026|09:30"
	if len(s.sent) != 1 || s.sent[0] != want {
		t.Fatalf("enviado %v, want %q", s.sent, want)
	}
}

func TestSendRecordatoriosSinSender(t *testing.T) {
	rows := []repo.TurnoConPaciente{{PacienteEmail: strPtr("a@b.com")}}
	sent, skipped := SendRecordatorios(context.Background(), nil, time.Now(), nil, fixedLister(rows, nil))
	if sent != 0 || skipped != 1 {
		t.Fatalf("sent=%d skipped=%d", sent, skipped)
	}
}

func TestSendRecordatoriosErrorDeConsulta(t *testing.T) {
	sent, skipped := SendRecordatorios(context.Background(), nil, time.Now(), &fakeSender{}, fixedLister(nil, errors.New("db caída")))
	if sent != 0 || skipped != 0 {
		t.Fatalf("sent=%d skipped=%d", sent, skipped)
	}
}
