package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Estados de un turno. Las transiciones salen de "programado" y son de ida:
// no se des-cancela ni se des-completa.
const (
	EstadoProgramado = "programado"
	EstadoCompletado = "completado"
	EstadoCancelado  = "cancelado"
)

// Estados de pago (opcional).
const (
	PagoPagado = "pagado"
	PagoImpago = "impago"
)

// Turno es la fila de la tabla turnos. Hora es TIME y llega como texto
// ("09:30:00"); para mostrar se normaliza a HH:MM.
type Turno struct {
	ID         uuid.UUID
	PacienteID uuid.UUID
	Fecha      time.Time
	Hora       string
	Estado     string
	Pago       *string
	Notas      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TurnoConPaciente agrega los datos del paciente que necesitan la agenda y
// la planilla diaria.
type TurnoConPaciente struct {
	Turno
	PacienteNombre   string
	PacienteApellido string
	PacienteTelefono *string
	PacienteEmail    *string
	PacienteFicha    *string
}

const turnoCols = `t.id, t.paciente_id, t.fecha, t.hora::text, t.estado, t.pago, t.notas, t.created_at, t.updated_at`

func scanTurno(row pgx.Row) (*Turno, error) {
	var t Turno
	err := row.Scan(&t.ID, &t.PacienteID, &t.Fecha, &t.Hora, &t.Estado, &t.Pago, &t.Notas, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func TurnoByID(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) (*Turno, error) {
	return scanTurno(pool.QueryRow(ctx, `SELECT `+turnoCols+` FROM turnos t WHERE t.id = $1`, id))
}

// TurnosEntre devuelve los turnos del rango [desde, hasta] con los datos del
// paciente, ordenados por fecha y hora.
func TurnosEntre(ctx context.Context, pool *pgxpool.Pool, desde, hasta time.Time) ([]TurnoConPaciente, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+turnoCols+`, p.nombre, p.apellido, p.telefono, p.email, p.numero_ficha
		FROM turnos t JOIN pacientes p ON p.id = t.paciente_id
		WHERE t.fecha BETWEEN $1 AND $2
		ORDER BY t.fecha, t.hora
	`, desde, hasta)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTurnosConPaciente(rows)
}

// TurnosDelDia devuelve los turnos no cancelados de una fecha, ordenados por
// hora: es la fuente de la planilla diaria en PDF.
func TurnosDelDia(ctx context.Context, pool *pgxpool.Pool, fecha time.Time) ([]TurnoConPaciente, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+turnoCols+`, p.nombre, p.apellido, p.telefono, p.email, p.numero_ficha
		FROM turnos t JOIN pacientes p ON p.id = t.paciente_id
		WHERE t.fecha = $1 AND t.estado <> $2
		ORDER BY t.hora
	`, fecha, EstadoCancelado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTurnosConPaciente(rows)
}

// TurnosParaRecordatorio devuelve los turnos programados de la fecha cuyos
// pacientes tienen e-mail cargado.
func TurnosParaRecordatorio(ctx context.Context, pool *pgxpool.Pool, fecha time.Time) ([]TurnoConPaciente, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+turnoCols+`, p.nombre, p.apellido, p.telefono, p.email, p.numero_ficha
		FROM turnos t JOIN pacientes p ON p.id = t.paciente_id
		WHERE t.fecha = $1 AND t.estado = $2 AND p.email IS NOT NULL AND p.email <> ''
		ORDER BY t.hora
	`, fecha, EstadoProgramado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTurnosConPaciente(rows)
}

func collectTurnosConPaciente(rows pgx.Rows) ([]TurnoConPaciente, error) {
	var list []TurnoConPaciente
	for rows.Next() {
		var t TurnoConPaciente
		if err := rows.Scan(&t.ID, &t.PacienteID, &t.Fecha, &t.Hora, &t.Estado,
			&t.Pago, &t.Notas, &t.CreatedAt, &t.UpdatedAt,
			&t.PacienteNombre, &t.PacienteApellido, &t.PacienteTelefono,
			&t.PacienteEmail, &t.PacienteFicha); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SlotOcupado informa si ya hay un turno (de cualquier paciente) en esa
// fecha y hora. El índice único de (fecha, hora) es la red de seguridad;
// este chequeo consultivo permite responder con un mensaje claro.
func SlotOcupado(ctx context.Context, pool *pgxpool.Pool, fecha time.Time, hora string) (bool, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM turnos WHERE fecha = $1 AND hora = $2::time`, fecha, hora).Scan(&n)
	return n > 0, err
}

type NuevoTurno struct {
	PacienteID uuid.UUID
	Fecha      time.Time
	Hora       string
	Estado     string
	Pago       *string
	Notas      *string
}

func CreateTurno(ctx context.Context, pool *pgxpool.Pool, n NuevoTurno) (uuid.UUID, error) {
	if n.Estado == "" {
		n.Estado = EstadoProgramado
	}
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO turnos (paciente_id, fecha, hora, estado, pago, notas)
		VALUES ($1, $2, $3::time, $4, $5, $6)
		RETURNING id
	`, n.PacienteID, n.Fecha, n.Hora, n.Estado, n.Pago, n.Notas).Scan(&id)
	return id, err
}

// UpdateTurno cambia fecha/hora/estado/pago/notas (los punteros nil se
// dejan como están) y refresca updated_at.
func UpdateTurno(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, fecha *time.Time, hora, estado, pago, notas *string) error {
	tag, err := pool.Exec(ctx, `
		UPDATE turnos SET
			fecha = COALESCE($1, fecha),
			hora = COALESCE($2::time, hora),
			estado = COALESCE($3, estado),
			pago = COALESCE($4, pago),
			notas = COALESCE($5, notas),
			updated_at = now()
		WHERE id = $6
	`, fecha, hora, estado, pago, notas, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteTurno borra un turno. Solo lo usan los scripts de limpieza; en la
// operación normal los turnos se cancelan, no se borran.
func DeleteTurno(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) error {
	tag, err := pool.Exec(ctx, `DELETE FROM turnos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountTurnosProgramados cuenta los turnos en estado "programado" del
// paciente: con alguno pendiente el paciente no se puede borrar.
func CountTurnosProgramados(ctx context.Context, pool *pgxpool.Pool, pacienteID uuid.UUID) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM turnos WHERE paciente_id = $1 AND estado = $2
	`, pacienteID, EstadoProgramado).Scan(&n)
	return n, err
}

// PacienteExiste resuelve la referencia antes de crear un turno.
func PacienteExiste(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) (bool, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM pacientes WHERE id = $1`, id).Scan(&n)
	return n > 0, err
}
