package importer

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Archivo es un CSV legado ya decodificado y parseado.
type Archivo struct {
	Headers   []string
	Rows      [][]string
	Delimiter rune
}

// ErrSinDatos indica un archivo sin filas de datos tras el encabezado.
var ErrSinDatos = errors.New("el archivo no tiene filas de datos")

// decodeBytes pasa los bytes crudos a string. Si ya son UTF-8 válido se usan
// tal cual; si no, se asume Latin-1, que era la codificación por defecto de
// los exports viejos.
func decodeBytes(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// DetectDelimiter mira las primeras dos líneas con contenido y prefiere ;
// si aparece, si no ,. Los exports legados usan ; casi siempre.
func DetectDelimiter(lines []string) rune {
	vistas := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if strings.ContainsRune(l, ';') {
			return ';'
		}
		vistas++
		if vistas == 2 {
			break
		}
	}
	return ','
}

// Parse arma el Archivo a partir del texto completo. Si la primera línea no
// tiene ningún delimitador se la trata como título decorativo y se saltea.
func Parse(text string) (*Archivo, error) {
	text = strings.TrimPrefix(text, "\uFEFF")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start < len(lines) {
		first := lines[start]
		if !strings.ContainsRune(first, ';') && !strings.ContainsRune(first, ',') {
			start++
		}
	}
	lines = lines[start:]
	if len(lines) == 0 {
		return nil, ErrSinDatos
	}

	delim := DetectDelimiter(lines)
	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrSinDatos
	}
	return &Archivo{Headers: records[0], Rows: records[1:], Delimiter: delim}, nil
}

// Leer abre, decodifica y parsea un CSV legado.
func Leer(path string) (*Archivo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(decodeBytes(b))
}
