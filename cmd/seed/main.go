// seed genera un script SQL para poblar el catálogo de artículos a partir de
// un CSV exportado del inventario físico (separador ';', codificación
// ISO-8859-1, el formato que entrega la herramienta de exportación del almacén).
//
// Columnas esperadas: sku;nombre;unidad;precio_unitario;punto_reorden
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/010_seed_items.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	sku          string
	name         string
	unit         string
	unitPrice    decimal.Decimal
	reorderLevel int64
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 5
	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var rows []catalogRow
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "sku") {
			continue // cabecera
		}
		sku := strings.ToUpper(strings.TrimSpace(rec[0]))
		name := strings.TrimSpace(rec[1])
		if sku == "" || name == "" {
			continue
		}
		unit := strings.TrimSpace(rec[2])
		if unit == "" {
			unit = "und"
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: precio inválido %q\n", i+1, rec[3])
			os.Exit(1)
		}
		reorder, err := strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: punto de reorden inválido %q\n", i+1, rec[4])
			os.Exit(1)
		}
		rows = append(rows, catalogRow{sku: sku, name: name, unit: unit, unitPrice: price, reorderLevel: reorder})
	}

	// Ruta del script de salida (relativa al módulo)
	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "010_seed_items.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de artículos del almacén central\n")
	out.WriteString("-- Generado desde el CSV de inventario físico\n\n")
	for _, row := range rows {
		fmt.Fprintf(out, "INSERT INTO items (id, sku, name, unit, unit_price, reorder_level)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), '%s', '%s', '%s', %s, %d)\n",
			escapeSQL(row.sku), escapeSQL(row.name), escapeSQL(row.unit),
			row.unitPrice.StringFixed(2), row.reorderLevel)
		out.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, unit = EXCLUDED.unit, unit_price = EXCLUDED.unit_price, reorder_level = EXCLUDED.reorder_level;\n")
	}

	fmt.Printf("Generado %s: %d artículos\n", outPath, len(rows))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
