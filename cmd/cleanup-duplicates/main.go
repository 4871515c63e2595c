// cleanup-duplicates revisa pacientes duplicados por nombre y por ficha.
// Siempre imprime primero el informe; solo con -apply borra los duplicados
// que se pueden borrar sin riesgo (los que no tienen ningún turno).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

func main() {
	apply := flag.Bool("apply", false, "borrar de verdad (sin esto es un simulacro)")
	flag.Parse()

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

	list, err := repo.ListPacientes(ctx, pool)
	if err != nil {
		log.Fatalf("listar pacientes: %v", err)
	}
	cp := make([]checks.Paciente, len(list))
	for i, p := range list {
		ficha := ""
		if p.NumeroFicha != nil {
			ficha = *p.NumeroFicha
		}
		cp[i] = checks.Paciente{ID: p.ID.String(), Nombre: p.Nombre, Apellido: p.Apellido, Ficha: ficha}
	}

	porNombre := checks.FindDuplicatePacientes(cp)
	porFicha := checks.FindDuplicateFichas(cp)

	fmt.Printf("pacientes: %d\nduplicados por nombre: %d\nduplicados por ficha: %d\n",
		len(list), len(porNombre), len(porFicha))
	for _, par := range porNombre {
		a, b := list[par[0]], list[par[1]]
		fmt.Printf("  nombre repetido: %s, %s  (%s / %s)\n", a.Apellido, a.Nombre, a.ID, b.ID)
	}
	for _, par := range porFicha {
		a, b := list[par[0]], list[par[1]]
		fmt.Printf("  ficha repetida %q: %s, %s / %s, %s\n", cp[par[0]].Ficha, a.Apellido, a.Nombre, b.Apellido, b.Nombre)
	}

	if len(porNombre) == 0 {
		fmt.Println("nada para limpiar")
		return
	}
	if !*apply {
		fmt.Println("modo simulacro: nada se borra (usá -apply para aplicar)")
		return
	}

	// Del par se conserva el registro más viejo; el más nuevo se borra solo
	// si no tiene ningún turno. Las fichas repetidas se informan y se
	// resuelven a mano: acá no se reasignan fichas.
	borrados, salteados := 0, 0
	yaBorrado := make(map[int]bool)
	for _, par := range porNombre {
		i, j := par[0], par[1]
		if yaBorrado[i] || yaBorrado[j] {
			continue
		}
		mantener, borrar := i, j
		if list[j].CreatedAt.Before(list[i].CreatedAt) {
			mantener, borrar = j, i
		}
		victima := list[borrar]
		var turnos int
		err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM turnos WHERE paciente_id = $1`, victima.ID).Scan(&turnos)
		if err != nil {
			log.Printf("contar turnos de %s: %v", victima.ID, err)
			salteados++
			continue
		}
		if turnos > 0 {
			fmt.Printf("  se saltea %s, %s (%s): tiene %d turnos\n", victima.Apellido, victima.Nombre, victima.ID, turnos)
			salteados++
			continue
		}
		if err := repo.DeletePaciente(ctx, pool, victima.ID); err != nil {
			log.Printf("borrar %s: %v", victima.ID, err)
			salteados++
			continue
		}
		yaBorrado[borrar] = true
		borrados++
		fmt.Printf("  borrado %s, %s (%s); queda %s\n", victima.Apellido, victima.Nombre, victima.ID, list[mantener].ID)
	}
	fmt.Printf("borrados=%d salteados=%d\n", borrados, salteados)
	if salteados > 0 {
		os.Exit(1)
	}
}
