package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

// ImportPacientes corre la importación de pacientes desde un CSV legado.
// Con apply en false solo arma el plan y lo informa; nada se escribe.
func ImportPacientes(ctx context.Context, pool *pgxpool.Pool, path string, apply bool) (Resumen, error) {
	var res Resumen

	arch, err := Leer(path)
	if err != nil {
		return res, fmt.Errorf("leer %s: %w", path, err)
	}
	log.Printf("[importer] %s: %d filas, delimitador %q", path, len(arch.Rows), arch.Delimiter)

	now := time.Now()
	var filas []*PacienteLegacy
	for i, fields := range arch.Rows {
		p, err := ParsePacienteRow(MapRow(arch.Headers, fields), now)
		if err != nil {
			log.Printf("[importer] fila %d omitida: %v", i+1, err)
			res.Omitidos++
			continue
		}
		filas = append(filas, p)
	}

	existentes, err := repo.ListPacientes(ctx, pool)
	if err != nil {
		return res, fmt.Errorf("listar pacientes: %w", err)
	}
	acciones := NewReconciler(existentes).Plan(filas)
	for _, a := range acciones {
		if a.FichaConflicto {
			res.Conflictos++
			log.Printf("[importer] ficha en conflicto, se suelta: %s %s", a.Datos.Apellido, a.Datos.Nombre)
		}
	}

	if !apply {
		for _, a := range acciones {
			switch a.Tipo {
			case AccionInsertar:
				res.Insertados++
			case AccionActualizar:
				res.Actualizados++
			}
		}
		return res, nil
	}

	ok, failed := RunLotes(ctx, len(acciones), func(i int) error {
		a := acciones[i]
		switch a.Tipo {
		case AccionInsertar:
			_, err := repo.CreatePaciente(ctx, pool, a.Datos)
			if err == nil {
				res.Insertados++
			}
			return err
		case AccionActualizar:
			err := repo.UpdatePaciente(ctx, pool, a.ID, a.Datos)
			if err == nil {
				res.Actualizados++
			}
			return err
		}
		return nil
	})
	res.Errores = failed
	log.Printf("[importer] pacientes: %d ok, %d con error", ok, failed)
	return res, nil
}

// ImportTurnos corre la importación de turnos. Cada fila se resuelve a un
// paciente ya cargado por (nombre, apellido); las que no matchean se omiten
// y se cuentan. Con apply en false no se escribe nada.
func ImportTurnos(ctx context.Context, pool *pgxpool.Pool, path string, apply bool) (Resumen, error) {
	var res Resumen

	arch, err := Leer(path)
	if err != nil {
		return res, fmt.Errorf("leer %s: %w", path, err)
	}
	log.Printf("[importer] %s: %d filas, delimitador %q", path, len(arch.Rows), arch.Delimiter)

	existentes, err := repo.ListPacientes(ctx, pool)
	if err != nil {
		return res, fmt.Errorf("listar pacientes: %w", err)
	}
	rc := NewReconciler(existentes)

	var turnos []TurnoImportable
	for i, fields := range arch.Rows {
		t, err := ParseTurnoRow(MapRow(arch.Headers, fields))
		if err != nil {
			log.Printf("[importer] fila %d omitida: %v", i+1, err)
			res.Omitidos++
			continue
		}
		m := rc.Match(&PacienteLegacy{Nombre: t.Nombre, Apellido: t.Apellido})
		if m == nil {
			log.Printf("[importer] fila %d sin paciente cargado: %s, %s", i+1, t.Apellido, t.Nombre)
			res.Omitidos++
			continue
		}
		turnos = append(turnos, TurnoImportable{PacienteID: m.ID, TurnoLegacy: *t})
	}
	antes := len(turnos)
	turnos = DedupeTurnos(turnos)
	res.Omitidos += antes - len(turnos)

	if !apply {
		res.Insertados = len(turnos)
		return res, nil
	}

	ok, failed := RunLotes(ctx, len(turnos), func(i int) error {
		t := turnos[i]
		fecha, err := dates.ParseISO(t.Fecha)
		if err != nil {
			return err
		}
		pago := t.Pago
		notas := t.Notas
		_, err = repo.CreateTurno(ctx, pool, repo.NuevoTurno{
			PacienteID: t.PacienteID,
			Fecha:      fecha,
			Hora:       t.Hora,
			Estado:     t.Estado,
			Pago:       opcional(pago),
			Notas:      opcional(notas),
		})
		if err == nil {
			res.Insertados++
		}
		return err
	})
	res.Errores = failed
	log.Printf("[importer] turnos: %d ok, %d con error", ok, failed)
	return res, nil
}
