// Package importer trae los datos del sistema viejo: archivos CSV exportados
// a mano, con encabezados cambiantes, codificación Latin-1 o UTF-8 y
// separador ; o ,. El flujo es ubicar el archivo, decodificarlo, mapear
// columnas, reconciliar contra la base y escribir en lotes.
package importer

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrSinArchivo indica que no se encontró ningún CSV candidato. El import es
// una herramienta de operador: ante esto se corta con mensaje claro, no se
// sigue con datos a medias.
var ErrSinArchivo = errors.New("no se encontró ningún archivo CSV para importar")

// LocateCSV busca en los directorios candidatos un CSV cuyo nombre contenga
// alguna de las palabras clave. Con un único candidato lo usa; con varios
// elige el primero en orden determinístico y avisa por log; con ninguno
// devuelve ErrSinArchivo.
func LocateCSV(dirs []string, keywords []string) (string, error) {
	var candidatos []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		var enDir []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := strings.ToLower(e.Name())
			if !strings.HasSuffix(name, ".csv") {
				continue
			}
			for _, k := range keywords {
				if strings.Contains(name, strings.ToLower(k)) {
					enDir = append(enDir, filepath.Join(dir, e.Name()))
					break
				}
			}
		}
		sort.Strings(enDir)
		candidatos = append(candidatos, enDir...)
	}
	switch len(candidatos) {
	case 0:
		return "", fmt.Errorf("%w (directorios: %s)", ErrSinArchivo, strings.Join(dirs, ", "))
	case 1:
		return candidatos[0], nil
	default:
		log.Printf("[importer] %d archivos candidatos, uso el primero: %s", len(candidatos), candidatos[0])
		return candidatos[0], nil
	}
}
