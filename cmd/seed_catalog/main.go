// seed_catalog importa productos desde un CSV al catálogo configurado (CATALOG_FILE).
// Acepta archivos en UTF-8 o en Windows-1251, habitual en exportaciones de hojas de cálculo
// con categorías en cirílico.
//
// Uso: go run ./cmd/seed_catalog [ruta/productos.csv] [utf-8|windows-1251]
// Columnas (con cabecera): name;price;description;categories   (categorías separadas por "|")
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/application/usecase"
	"github.com/jhoicas/catalog-api/internal/domain/entity"
	"github.com/jhoicas/catalog-api/internal/infrastructure/filestore"
	"github.com/jhoicas/catalog-api/pkg/config"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

var errHeader = errors.New("cabecera esperada: name;price;description;categories")

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	charset := "utf-8"
	if len(os.Args) > 2 {
		charset = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	reqs, err := parseCSV(f, charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	uc := usecase.NewCatalogUseCase(filestore.Open(cfg.Catalog.File, log), log)
	created, err := importAll(context.Background(), uc, reqs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Importados %d productos en %s\n", created, cfg.Catalog.File)
}

// decoderFor envuelve r para leer el charset indicado como UTF-8.
func decoderFor(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1251", "cp1251":
		return transform.NewReader(r, charmap.Windows1251.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
}

// parseCSV convierte cada fila en una petición de alta.
func parseCSV(r io.Reader, charset string) ([]dto.CreateProductRequest, error) {
	in, err := decoderFor(r, charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(in)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	if len(header) != 4 || !strings.EqualFold(strings.TrimPrefix(header[0], "\ufeff"), "name") {
		return nil, errHeader
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q no es un número", line, rec[1])
		}
		name, desc := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[2])
		out = append(out, dto.CreateProductRequest{
			Name:        &name,
			Price:       &price,
			Description: &desc,
			Categories:  entity.NormalizeCategories(strings.Split(rec[3], "|")),
		})
	}
	return out, nil
}

func importAll(ctx context.Context, uc *usecase.CatalogUseCase, reqs []dto.CreateProductRequest) (int, error) {
	for i, req := range reqs {
		if _, err := uc.Create(ctx, req); err != nil {
			return i, fmt.Errorf("producto %d (%s): %w", i+1, *req.Name, err)
		}
	}
	return len(reqs), nil
}
