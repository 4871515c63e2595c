// Package ficha asigna el número de ficha (historia clínica en papel) de
// cada paciente. Es un secuencial con sentido humano, no una clave del
// sistema: tolera huecos y valores no numéricos sin fallar.
package ficha

import (
	"context"
	"log"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Next calcula la próxima ficha a partir de las existentes: toma el máximo
// de las que parsean como entero positivo ("0" y vacío se ignoran) y devuelve
// max+1 como string. Sin fichas numéricas devuelve "1".
func Next(existing []string) string {
	max := 0
	for _, s := range existing {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// NextNumber consulta las fichas no vacías y devuelve la siguiente. Si la
// consulta falla devuelve "1": el valor es orientativo y el error no debe
// frenar el alta del paciente (el índice único del store sigue protegiendo).
func NextNumber(ctx context.Context, pool *pgxpool.Pool) string {
	rows, err := pool.Query(ctx, `
		SELECT numero_ficha FROM pacientes
		WHERE numero_ficha IS NOT NULL AND numero_ficha <> ''
	`)
	if err != nil {
		log.Printf("[ficha] consulta de fichas falló, arranco en 1: %v", err)
		return "1"
	}
	defer rows.Close()
	var fichas []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			log.Printf("[ficha] scan falló, arranco en 1: %v", err)
			return "1"
		}
		fichas = append(fichas, f)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[ficha] lectura de fichas falló, arranco en 1: %v", err)
		return "1"
	}
	return Next(fichas)
}
