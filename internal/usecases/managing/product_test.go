package managing

import (
	"testing"
	"time"

	"github.com/salesdesk/backoffice-api/infrastructure/repository/mocks"
	"github.com/salesdesk/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestProductService_AddPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := mocks.NewMockProductRepository(ctrl)
	priceRepo := mocks.NewMockPricePointRepository(ctrl)

	service := &ProductService{
		productRepo: productRepo,
		priceRepo:   priceRepo,
	}

	effectiveDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Registra novo preço para produto existente", func(t *testing.T) {
		productRepo.EXPECT().GetByCode("PROD-A").Return(&domain.Product{Code: "PROD-A"}, nil)
		priceRepo.EXPECT().
			Add(&domain.PricePoint{
				ProductCode:   "PROD-A",
				UnitPrice:     25.9,
				EffectiveDate: effectiveDate,
			}).
			Return(nil)

		err := service.AddPrice("PROD-A", 25.9, effectiveDate)

		assert.NoError(t, err)
	})

	t.Run("Produto inexistente retorna erro", func(t *testing.T) {
		productRepo.EXPECT().GetByCode("PROD-X").Return(nil, nil)

		err := service.AddPrice("PROD-X", 25.9, effectiveDate)

		assert.Error(t, err)
	})

	t.Run("Preço negativo é rejeitado sem consultar o repositório", func(t *testing.T) {
		err := service.AddPrice("PROD-A", -1.0, effectiveDate)

		assert.Error(t, err)
	})
}

func TestProductService_CreateProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := mocks.NewMockProductRepository(ctrl)
	priceRepo := mocks.NewMockPricePointRepository(ctrl)

	service := &ProductService{
		productRepo: productRepo,
		priceRepo:   priceRepo,
	}

	t.Run("Cria produto com código e descrição", func(t *testing.T) {
		product := &domain.Product{Code: "PROD-A", Description: "Produto A", Unit: "un"}

		productRepo.EXPECT().Create(product).Return(product, nil)

		created, err := service.CreateProduct(product)

		assert.NoError(t, err)
		assert.Equal(t, product, created)
	})

	t.Run("Produto sem código ou descrição é rejeitado", func(t *testing.T) {
		created, err := service.CreateProduct(&domain.Product{Code: "PROD-A"})

		assert.Error(t, err)
		assert.Nil(t, created)
	})
}
