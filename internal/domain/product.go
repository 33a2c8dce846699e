// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "time"

// Product representa um produto do catálogo. O código é a identidade
// imutável; descrição e unidade refletem o último snapshot cadastrado.
type Product struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PricePoint é um registro histórico de preço, vigente a partir de
// EffectiveDate até ser substituído por um registro mais recente.
// Registros são imutáveis depois de criados.
type PricePoint struct {
	ProductCode   string    `json:"product_code"`
	UnitPrice     float64   `json:"unit_price"`
	EffectiveDate time.Time `json:"effective_date"`
}
