package aggregating

import (
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPriceBook_ResolveUnitPrice(t *testing.T) {
	points := []domain.PricePoint{
		{ProductCode: "PROD-A", UnitPrice: 10.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ProductCode: "PROD-A", UnitPrice: 12.5, EffectiveDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ProductCode: "PROD-A", UnitPrice: 15.0, EffectiveDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ProductCode: "PROD-B", UnitPrice: 99.9, EffectiveDate: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
	}

	book := NewPriceBook(points)

	tests := []struct {
		name        string
		productCode string
		asOf        time.Time
		expected    float64
	}{
		{
			name:        "Data entre duas vigências resolve o preço anterior",
			productCode: "PROD-A",
			asOf:        time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
			expected:    12.5,
		},
		{
			name:        "Data exatamente na vigência resolve o preço novo",
			productCode: "PROD-A",
			asOf:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			expected:    15.0,
		},
		{
			name:        "Data posterior à última vigência resolve o preço mais recente",
			productCode: "PROD-A",
			asOf:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected:    15.0,
		},
		{
			name:        "Data anterior à primeira vigência resolve zero",
			productCode: "PROD-A",
			asOf:        time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			expected:    0,
		},
		{
			name:        "Produto sem histórico de preço resolve zero",
			productCode: "PROD-X",
			asOf:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			expected:    0,
		},
		{
			name:        "Outro produto não interfere na resolução",
			productCode: "PROD-B",
			asOf:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			expected:    99.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := book.ResolveUnitPrice(tt.productCode, tt.asOf)
			assert.Equal(t, tt.expected, result)

			// Segunda chamada deve vir do memo com o mesmo resultado
			again := book.ResolveUnitPrice(tt.productCode, tt.asOf)
			assert.Equal(t, tt.expected, again)
		})
	}
}

func TestPriceBook_PontosForaDeOrdem(t *testing.T) {
	// Os pontos chegam fora de ordem cronológica; a indexação deve ordenar
	points := []domain.PricePoint{
		{ProductCode: "PROD-A", UnitPrice: 15.0, EffectiveDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ProductCode: "PROD-A", UnitPrice: 10.0, EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	book := NewPriceBook(points)

	assert.Equal(t, 10.0, book.ResolveUnitPrice("PROD-A", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 15.0, book.ResolveUnitPrice("PROD-A", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
}
