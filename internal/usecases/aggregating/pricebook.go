// Package aggregating implementa o núcleo de agregação de vendas: resolução
// de preço histórico, materialização de linhas, derivação de status e os
// rollups por produto e por funcionário. Todas as funções são puras em
// relação ao armazenamento; cada execução reconstrói as visões a partir
// das linhas brutas, sem efeito colateral.
package aggregating

import (
	"sort"
	"sync"
	"time"

	"github.com/salesdesk/backoffice-api/internal/domain"
)

// PriceResolver resolve o preço unitário de um produto vigente em uma data.
type PriceResolver interface {
	ResolveUnitPrice(productCode string, asOf time.Time) float64
}

type priceKey struct {
	productCode string
	day         string
}

// PriceBook é um PriceResolver em memória, carregado em lote com todos os
// PricePoints necessários para uma execução. As consultas são memoizadas
// por (produto, dia); o cache vive apenas durante a execução.
type PriceBook struct {
	pointsByProduct map[string][]domain.PricePoint

	mu   sync.RWMutex
	memo map[priceKey]float64
}

// NewPriceBook indexa os PricePoints por produto, ordenados por data de
// vigência crescente. Pontos com a mesma data de vigência não são
// validados: prevalece o último na ordem de carga.
func NewPriceBook(points []domain.PricePoint) *PriceBook {
	byProduct := make(map[string][]domain.PricePoint)
	for _, point := range points {
		byProduct[point.ProductCode] = append(byProduct[point.ProductCode], point)
	}

	for code := range byProduct {
		sort.SliceStable(byProduct[code], func(i, j int) bool {
			return byProduct[code][i].EffectiveDate.Before(byProduct[code][j].EffectiveDate)
		})
	}

	return &PriceBook{
		pointsByProduct: byProduct,
		memo:            make(map[priceKey]float64),
	}
}

// ResolveUnitPrice retorna o preço com a maior data de vigência que não
// seja posterior a asOf. Produto sem preço vigente resolve para 0; não é
// erro, para que vendas de produtos ainda sem preço agreguem mesmo assim.
func (b *PriceBook) ResolveUnitPrice(productCode string, asOf time.Time) float64 {
	key := priceKey{productCode: productCode, day: asOf.Format(time.DateOnly)}

	b.mu.RLock()
	if price, ok := b.memo[key]; ok {
		b.mu.RUnlock()
		return price
	}
	b.mu.RUnlock()

	price := b.resolve(productCode, asOf)

	b.mu.Lock()
	b.memo[key] = price
	b.mu.Unlock()

	return price
}

func (b *PriceBook) resolve(productCode string, asOf time.Time) float64 {
	points := b.pointsByProduct[productCode]

	price := 0.0
	for _, point := range points {
		if point.EffectiveDate.After(asOf) {
			break
		}
		price = point.UnitPrice
	}

	return price
}
