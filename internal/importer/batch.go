package importer

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Los lotes se escriben en orden y con una pausa entre medio para no saturar
// la base. Una fila que falla se loguea con su índice y se sigue: no hay
// rollback de lotes anteriores, el operador decide si re-corre.
const (
	BatchSize  = 50
	BatchPause = 300 * time.Millisecond
)

// Resumen son los contadores finales de una corrida de import.
type Resumen struct {
	Insertados   int
	Actualizados int
	Omitidos     int
	Errores      int
	Conflictos   int // fichas soltadas por pertenecer a otro paciente
}

func (r Resumen) String() string {
	return fmt.Sprintf("insertados=%d actualizados=%d omitidos=%d errores=%d fichas_en_conflicto=%d",
		r.Insertados, r.Actualizados, r.Omitidos, r.Errores, r.Conflictos)
}

// RunLotes ejecuta fn por fila, en lotes secuenciales de BatchSize con pausa
// entre lotes. Devuelve cuántas filas anduvieron y cuántas fallaron.
func RunLotes(ctx context.Context, total int, fn func(i int) error) (ok, failed int) {
	for lo := 0; lo < total; lo += BatchSize {
		hi := lo + BatchSize
		if hi > total {
			hi = total
		}
		for i := lo; i < hi; i++ {
			if err := fn(i); err != nil {
				log.Printf("[importer] lote %d fila %d: %v", lo/BatchSize, i, err)
				failed++
				continue
			}
			ok++
		}
		if hi < total {
			select {
			case <-ctx.Done():
				log.Printf("[importer] corte en lote %d: %v", lo/BatchSize, ctx.Err())
				return ok, failed
			case <-time.After(BatchPause):
			}
		}
	}
	return ok, failed
}
