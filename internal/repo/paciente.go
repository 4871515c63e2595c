package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Paciente es la fila de la tabla pacientes. Los campos médicos son un
// esquema cerrado: cada campo conocido está declarado, no hay bolsa abierta.
type Paciente struct {
	ID              uuid.UUID
	Nombre          string
	Apellido        string
	Telefono        *string
	Email           *string
	FechaNacimiento *string // yyyy-MM-dd; DATE llega como texto
	NumeroFicha     *string
	Notas           *string
	Diagnostico     *string
	Tratamiento     *string
	Alergias        *string
	Medicamentos    *string
	Antecedentes    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const pacienteCols = `
	id, nombre, apellido, telefono, email, fecha_nacimiento::text,
	numero_ficha, notas, diagnostico, tratamiento, alergias, medicamentos,
	antecedentes, created_at, updated_at
`

func scanPaciente(row pgx.Row) (*Paciente, error) {
	var p Paciente
	err := row.Scan(&p.ID, &p.Nombre, &p.Apellido, &p.Telefono, &p.Email,
		&p.FechaNacimiento, &p.NumeroFicha, &p.Notas, &p.Diagnostico,
		&p.Tratamiento, &p.Alergias, &p.Medicamentos, &p.Antecedentes,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPacientes devuelve todos los pacientes ordenados por apellido y nombre.
func ListPacientes(ctx context.Context, pool *pgxpool.Pool) ([]Paciente, error) {
	rows, err := pool.Query(ctx, `SELECT `+pacienteCols+` FROM pacientes ORDER BY apellido, nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Paciente
	for rows.Next() {
		p, err := scanPaciente(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func PacienteByID(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) (*Paciente, error) {
	return scanPaciente(pool.QueryRow(ctx, `SELECT `+pacienteCols+` FROM pacientes WHERE id = $1`, id))
}

// PacienteByNombre busca por (nombre, apellido) sin distinguir mayúsculas:
// la misma clave que usan el detector de duplicados y la reconciliación.
func PacienteByNombre(ctx context.Context, pool *pgxpool.Pool, nombre, apellido string) (*Paciente, error) {
	return scanPaciente(pool.QueryRow(ctx, `
		SELECT `+pacienteCols+` FROM pacientes
		WHERE lower(trim(nombre)) = lower(trim($1)) AND lower(trim(apellido)) = lower(trim($2))
		LIMIT 1
	`, nombre, apellido))
}

// PacientePorFicha devuelve el paciente dueño de una ficha no vacía, o
// pgx.ErrNoRows si nadie la tiene.
func PacientePorFicha(ctx context.Context, pool *pgxpool.Pool, ficha string) (*Paciente, error) {
	if ficha == "" || ficha == "0" {
		return nil, pgx.ErrNoRows
	}
	return scanPaciente(pool.QueryRow(ctx, `SELECT `+pacienteCols+` FROM pacientes WHERE numero_ficha = $1`, ficha))
}

// NuevoPaciente son los campos aceptados al crear o actualizar.
type NuevoPaciente struct {
	Nombre          string
	Apellido        string
	Telefono        *string
	Email           *string
	FechaNacimiento *string
	NumeroFicha     *string
	Notas           *string
	Diagnostico     *string
	Tratamiento     *string
	Alergias        *string
	Medicamentos    *string
	Antecedentes    *string
}

func CreatePaciente(ctx context.Context, pool *pgxpool.Pool, n NuevoPaciente) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO pacientes (nombre, apellido, telefono, email, fecha_nacimiento,
			numero_ficha, notas, diagnostico, tratamiento, alergias, medicamentos, antecedentes)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, n.Nombre, n.Apellido, n.Telefono, n.Email, n.FechaNacimiento,
		n.NumeroFicha, n.Notas, n.Diagnostico, n.Tratamiento, n.Alergias,
		n.Medicamentos, n.Antecedentes).Scan(&id)
	return id, err
}

// UpdatePaciente pisa todos los campos editables y refresca updated_at.
// created_at nunca se toca.
func UpdatePaciente(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, n NuevoPaciente) error {
	tag, err := pool.Exec(ctx, `
		UPDATE pacientes SET nombre = $1, apellido = $2, telefono = $3, email = $4,
			fecha_nacimiento = $5::date, numero_ficha = $6, notas = $7,
			diagnostico = $8, tratamiento = $9, alergias = $10,
			medicamentos = $11, antecedentes = $12, updated_at = now()
		WHERE id = $13
	`, n.Nombre, n.Apellido, n.Telefono, n.Email, n.FechaNacimiento,
		n.NumeroFicha, n.Notas, n.Diagnostico, n.Tratamiento, n.Alergias,
		n.Medicamentos, n.Antecedentes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ErrTurnosProgramados bloquea la baja de un paciente con turnos pendientes.
var ErrTurnosProgramados = errors.New("el paciente tiene turnos programados")

// DeletePaciente borra el paciente solo si no tiene turnos en estado
// "programado". La regla se chequea acá además de en el handler para que los
// scripts de limpieza no la puedan saltear.
func DeletePaciente(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) error {
	n, err := CountTurnosProgramados(ctx, pool, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrTurnosProgramados
	}
	tag, err := pool.Exec(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func CountPacientes(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM pacientes`).Scan(&n)
	return n, err
}
