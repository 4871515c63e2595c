// diagnose chequea el entorno de la aplicación: variables, conexión a la
// base, migraciones aplicadas y consistencia básica de los datos. Cada sonda
// de red corre con un timeout propio de 10 segundos.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

const probeTimeout = 10 * time.Second

var fallas int

func ok(nombre string) { fmt.Printf("  [ok]    %s\n", nombre) }

func fail(nombre string, err error) {
	fmt.Printf("  [FALLA] %s: %v\n", nombre, err)
	fallas++
}

func warn(nombre, detalle string) { fmt.Printf("  [aviso] %s: %s\n", nombre, detalle) }

func main() {
	cfg := config.Load()
	fmt.Println("diagnóstico del consultorio")

	fmt.Println("entorno:")
	if cfg.DatabaseURL == "" {
		fail("DATABASE_URL", fmt.Errorf("no definida"))
	} else {
		ok("DATABASE_URL definida")
	}
	if string(cfg.JWTSecret) == "default-secret-min-32-chars-required!!" {
		warn("JWT_SECRET", "usando el secreto por defecto; definilo en producción")
	} else {
		ok("JWT_SECRET definido")
	}

	if cfg.DatabaseURL == "" {
		os.Exit(1)
	}

	fmt.Println("base de datos:")
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fail("conexión", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		fail("ping", err)
		os.Exit(1)
	}
	ok("conexión y ping")

	for _, tabla := range []string{"usuarios", "pacientes", "turnos", "schema_migrations"} {
		probeCtx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		var n int
		err := pool.QueryRow(probeCtx, `SELECT COUNT(*) FROM `+tabla).Scan(&n)
		cancel()
		if err != nil {
			fail("tabla "+tabla, err)
			continue
		}
		ok(fmt.Sprintf("tabla %s (%d filas)", tabla, n))
	}

	fmt.Println("consistencia:")
	probeCtx, cancelDatos := context.WithTimeout(context.Background(), probeTimeout)
	defer cancelDatos()
	list, err := repo.ListPacientes(probeCtx, pool)
	if err != nil {
		fail("listar pacientes", err)
		os.Exit(1)
	}
	cp := make([]checks.Paciente, len(list))
	for i, p := range list {
		ficha := ""
		if p.NumeroFicha != nil {
			ficha = *p.NumeroFicha
		}
		cp[i] = checks.Paciente{ID: p.ID.String(), Nombre: p.Nombre, Apellido: p.Apellido, Ficha: ficha}
	}
	if pares := checks.FindDuplicatePacientes(cp); len(pares) > 0 {
		warn("duplicados por nombre", fmt.Sprintf("%d pares (corré cleanup-duplicates)", len(pares)))
	} else {
		ok("sin duplicados por nombre")
	}
	if pares := checks.FindDuplicateFichas(cp); len(pares) > 0 {
		warn("fichas repetidas", fmt.Sprintf("%d pares", len(pares)))
	} else {
		ok("sin fichas repetidas")
	}

	var huerfanos int
	err = pool.QueryRow(probeCtx, `
		SELECT COUNT(*) FROM turnos t
		LEFT JOIN pacientes p ON p.id = t.paciente_id
		WHERE p.id IS NULL
	`).Scan(&huerfanos)
	switch {
	case err != nil:
		fail("turnos huérfanos", err)
	case huerfanos > 0:
		warn("turnos huérfanos", fmt.Sprintf("%d turnos sin paciente", huerfanos))
	default:
		ok("sin turnos huérfanos")
	}

	if fallas > 0 {
		fmt.Printf("diagnóstico con %d fallas\n", fallas)
		os.Exit(1)
	}
	fmt.Println("todo en orden")
}
