package aggregating

import (
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMaterializeLines(t *testing.T) {
	orderDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	book := NewPriceBook([]domain.PricePoint{
		{ProductCode: "PROD-A", UnitPrice: 10.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ProductCode: "PROD-A", UnitPrice: 20.0, EffectiveDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ProductCode: "PROD-B", UnitPrice: 5.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	})

	labeler := func(productCode string) (string, string) {
		switch productCode {
		case "PROD-A":
			return "Produto A", "un"
		case "PROD-B":
			return "Produto B", "cx"
		}
		return UnknownLabel, ""
	}

	order := &domain.Order{
		Number:    "VND001",
		OrderDate: orderDate,
		Lines: []domain.OrderLine{
			{ProductCode: "PROD-B", Quantity: 3},
			{ProductCode: "PROD-A", Quantity: 2},
			{ProductCode: "PROD-X", Quantity: 1},
			{ProductCode: "PROD-A", Quantity: 0},
			{ProductCode: "PROD-B", Quantity: -2},
		},
	}

	lines := MaterializeLines(order, book, labeler)

	assert.Len(t, lines, 5)

	// A ordem das linhas deve ser exatamente a ordem do registro
	assert.Equal(t, "PROD-B", lines[0].ProductCode)
	assert.Equal(t, "PROD-A", lines[1].ProductCode)
	assert.Equal(t, "PROD-X", lines[2].ProductCode)

	// Preço resolvido na data da venda (antes da vigência de junho)
	assert.Equal(t, 10.0, lines[1].UnitPrice)
	assert.Equal(t, 20.0, lines[1].Subtotal)

	assert.Equal(t, 5.0, lines[0].UnitPrice)
	assert.Equal(t, 15.0, lines[0].Subtotal)
	assert.Equal(t, "Produto B", lines[0].Description)
	assert.Equal(t, "cx", lines[0].Unit)

	// Produto desconhecido recebe o rótulo de fallback e preço zero
	assert.Equal(t, UnknownLabel, lines[2].Description)
	assert.Equal(t, 0.0, lines[2].UnitPrice)
	assert.Equal(t, 0.0, lines[2].Subtotal)

	// Quantidade zero e negativa são repassadas sem correção
	assert.Equal(t, 0, lines[3].Quantity)
	assert.Equal(t, 0.0, lines[3].Subtotal)
	assert.Equal(t, -2, lines[4].Quantity)
	assert.Equal(t, -10.0, lines[4].Subtotal)
}

func TestMaterializeLines_SemLabeler(t *testing.T) {
	order := &domain.Order{
		OrderDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Lines: []domain.OrderLine{
			{ProductCode: "PROD-A", Quantity: 1},
		},
	}

	lines := MaterializeLines(order, NewPriceBook(nil), nil)

	assert.Len(t, lines, 1)
	assert.Equal(t, UnknownLabel, lines[0].Description)
}

func TestMaterializeLines_VendaSemLinhas(t *testing.T) {
	order := &domain.Order{
		OrderDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}

	lines := MaterializeLines(order, NewPriceBook(nil), nil)

	assert.NotNil(t, lines)
	assert.Len(t, lines, 0)
}
