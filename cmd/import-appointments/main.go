// import-appointments carga los turnos históricos desde el CSV del sistema
// viejo. Requiere los pacientes ya importados: las filas sin paciente se
// omiten y se cuentan. Por defecto es un simulacro; -apply escribe.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/importer"
)

func main() {
	file := flag.String("file", "", "ruta del CSV; si falta se busca en IMPORT_DIRS")
	apply := flag.Bool("apply", false, "escribir de verdad (sin esto es un simulacro)")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL es obligatoria")
	}
	ctx := context.Background()

	path := *file
	if path == "" {
		var err error
		path, err = importer.LocateCSV(cfg.ImportDirs, []string{"turno", "agenda", "cita"})
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	fmt.Printf("archivo: %s\n", path)
	if !*apply {
		fmt.Println("modo simulacro: nada se escribe (usá -apply para aplicar)")
	}

	res, err := importer.ImportTurnos(ctx, pool, path, *apply)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	fmt.Println("resultado:", res)
	if res.Errores > 0 {
		os.Exit(1)
	}
}
