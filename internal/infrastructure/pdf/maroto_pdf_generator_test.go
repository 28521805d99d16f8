package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-api/internal/application/dto"
)

func TestGeneratePriceList_DevuelvePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	items := []dto.ProductResponse{
		{ID: "1", Name: "Phone", Price: decimal.NewFromInt(500), Description: "x", Categories: []string{"Smartphones"}},
		{ID: "2", Name: "Cable", Price: decimal.RequireFromString("9.90"), Categories: []string{}},
	}

	out, err := g.GeneratePriceList(context.Background(), "Lista de precios", "", items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe empezar con la cabecera PDF")
}

func TestGeneratePriceList_CatalogoVacio(t *testing.T) {
	out, err := NewMarotoPDFGenerator().GeneratePriceList(context.Background(), "Lista de precios", "Laptops", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0.00":       "0.00",
		"500.00":     "500.00",
		"25000.00":   "25 000.00",
		"1000000.50": "1 000 000.50",
		"-1500.50":   "-1 500.50",
		"123":        "123",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), "entrada %q", in)
	}
}
