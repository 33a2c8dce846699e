package managing

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

type ProductManager interface {
	CreateProduct(product *domain.Product) (*domain.Product, error)
	UpdateProduct(product *domain.Product) error
	GetProduct(code string) (*domain.Product, error)
	ListProducts() ([]*domain.Product, error)
	DeleteProduct(code string) error
	AddPrice(productCode string, unitPrice float64, effectiveDate time.Time) error
	ListPrices(productCode string) ([]domain.PricePoint, error)
}

type ProductService struct {
	productRepo repository.ProductRepository
	priceRepo   repository.PricePointRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	priceRepo repository.PricePointRepository,
) ProductManager {
	return &ProductService{
		productRepo: productRepo,
		priceRepo:   priceRepo,
	}
}

func (s *ProductService) CreateProduct(product *domain.Product) (*domain.Product, error) {
	if product == nil || product.Code == "" || product.Description == "" {
		return nil, fmt.Errorf("código e descrição do produto são obrigatórios")
	}

	created, err := s.productRepo.Create(product)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *ProductService) UpdateProduct(product *domain.Product) error {
	if product == nil || product.Code == "" {
		return fmt.Errorf("o código do produto é obrigatório")
	}

	existing, err := s.productRepo.GetByCode(product.Code)
	if err != nil {
		return errors.Wrap(err, "erro ao buscar produto")
	}
	if existing == nil {
		return fmt.Errorf("produto %s não encontrado", product.Code)
	}

	return s.productRepo.Update(product)
}

func (s *ProductService) GetProduct(code string) (*domain.Product, error) {
	product, err := s.productRepo.GetByCode(code)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar produto")
	}
	if product == nil {
		return nil, fmt.Errorf("produto %s não encontrado", code)
	}

	return product, nil
}

func (s *ProductService) ListProducts() ([]*domain.Product, error) {
	return s.productRepo.List()
}

func (s *ProductService) DeleteProduct(code string) error {
	existing, err := s.productRepo.GetByCode(code)
	if err != nil {
		return errors.Wrap(err, "erro ao buscar produto")
	}
	if existing == nil {
		return fmt.Errorf("produto %s não encontrado", code)
	}

	return s.productRepo.Delete(code)
}

// AddPrice registra um novo preço vigente a partir da data informada. O
// histórico nunca é editado retroativamente; as vendas antigas continuam
// resolvendo o preço vigente na data delas.
func (s *ProductService) AddPrice(productCode string, unitPrice float64, effectiveDate time.Time) error {
	if unitPrice < 0 {
		return fmt.Errorf("o preço não pode ser negativo")
	}

	product, err := s.productRepo.GetByCode(productCode)
	if err != nil {
		return errors.Wrap(err, "erro ao buscar produto")
	}
	if product == nil {
		return fmt.Errorf("produto %s não encontrado", productCode)
	}

	return s.priceRepo.Add(&domain.PricePoint{
		ProductCode:   productCode,
		UnitPrice:     unitPrice,
		EffectiveDate: effectiveDate,
	})
}

func (s *ProductService) ListPrices(productCode string) ([]domain.PricePoint, error) {
	return s.priceRepo.ListByProduct(productCode)
}
