package aggregating

import (
	"github.com/salesdesk/backoffice-api/internal/domain"
)

// ProductLabeler devolve a descrição e unidade de exibição de um produto.
// Produto desconhecido recebe o rótulo de fallback.
type ProductLabeler func(productCode string) (description, unit string)

// UnknownLabel é o rótulo usado quando um cliente, funcionário ou produto
// referenciado não pode ser resolvido para um nome de exibição. A venda é
// mantida na saída; a degradação é absorvida por linha.
const UnknownLabel = "Unknown"

// MaterializeLines resolve o preço de cada linha da venda na data da venda
// e calcula o subtotal. A ordem das linhas é preservada exatamente como
// recuperada; quantidades não positivas são repassadas sem correção e
// produzem subtotal menor ou igual a zero.
func MaterializeLines(order *domain.Order, resolver PriceResolver, labeler ProductLabeler) []domain.PricedLine {
	lines := make([]domain.PricedLine, 0, len(order.Lines))

	for _, line := range order.Lines {
		unitPrice := resolver.ResolveUnitPrice(line.ProductCode, order.OrderDate)

		description, unit := UnknownLabel, ""
		if labeler != nil {
			description, unit = labeler(line.ProductCode)
		}

		lines = append(lines, domain.PricedLine{
			ProductCode: line.ProductCode,
			Description: description,
			Unit:        unit,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    float64(line.Quantity) * unitPrice,
		})
	}

	return lines
}
