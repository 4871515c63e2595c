package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/testutil"
)

// Test de integración contra una base real; se saltea sin DATABASE_URL.
func TestPacienteYTurnoCRUD(t *testing.T) {
	testutil.MustMigrate(t)
	pool := testutil.OpenPool(t)
	ctx := context.Background()

	tel := "+543364535352"
	ficha := "it-" + time.Now().Format("150405.000")
	id, err := repo.CreatePaciente(ctx, pool, repo.NuevoPaciente{
		Nombre: "Integración", Apellido: "Prueba", Telefono: &tel, NumeroFicha: &ficha,
	})
	if err != nil {
		t.Fatalf("CreatePaciente: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM turnos WHERE paciente_id = $1`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	})

	p, err := repo.PacienteByID(ctx, pool, id)
	if err != nil || p.Apellido != "Prueba" {
		t.Fatalf("PacienteByID: %v %+v", err, p)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatal("timestamps sin setear")
	}

	// La ficha es única: un segundo alta con la misma tiene que chocar.
	if _, err := repo.CreatePaciente(ctx, pool, repo.NuevoPaciente{
		Nombre: "Otro", Apellido: "Paciente", NumeroFicha: &ficha,
	}); err == nil {
		t.Fatal("ficha repetida debía fallar por índice único")
	}

	fecha := time.Date(2030, 6, 10, 0, 0, 0, 0, time.Local)
	turnoID, err := repo.CreateTurno(ctx, pool, repo.NuevoTurno{
		PacienteID: id, Fecha: fecha, Hora: "10:00",
	})
	if err != nil {
		t.Fatalf("CreateTurno: %v", err)
	}

	// Slot ocupado, por chequeo y por índice.
	ocupado, err := repo.SlotOcupado(ctx, pool, fecha, "10:00")
	if err != nil || !ocupado {
		t.Fatalf("SlotOcupado = %v, %v", ocupado, err)
	}
	if _, err := repo.CreateTurno(ctx, pool, repo.NuevoTurno{
		PacienteID: id, Fecha: fecha, Hora: "10:00",
	}); err == nil {
		t.Fatal("slot repetido debía fallar por índice único")
	}

	// Con un turno programado el paciente no se borra.
	if err := repo.DeletePaciente(ctx, pool, id); !errors.Is(err, repo.ErrTurnosProgramados) {
		t.Fatalf("DeletePaciente = %v, esperaba ErrTurnosProgramados", err)
	}

	estado := repo.EstadoCancelado
	if err := repo.UpdateTurno(ctx, pool, turnoID, nil, nil, &estado, nil, nil); err != nil {
		t.Fatalf("UpdateTurno: %v", err)
	}
	tu, err := repo.TurnoByID(ctx, pool, turnoID)
	if err != nil || tu.Estado != repo.EstadoCancelado {
		t.Fatalf("TurnoByID: %v %+v", err, tu)
	}

	if err := repo.DeletePaciente(ctx, pool, id); err != nil {
		t.Fatalf("DeletePaciente tras cancelar: %v", err)
	}
	if _, err := repo.PacienteByID(ctx, pool, id); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("el paciente borrado no debía existir: %v", err)
	}
}
