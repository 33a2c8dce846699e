package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

const (
	paymentsTable = "payments pay"
)

type PaymentRepository interface {
	SaveOrUpdate(payment *domain.Payment) error
	GetByOrderID(orderID int64) (*domain.Payment, error)
	GetByOrderIDs(orderIDs []int64) (map[int64]*domain.Payment, error)
}

type paymentRepository struct {
	conn *postgres.Connection
}

func NewPaymentRepository(conn *postgres.Connection) PaymentRepository {
	return &paymentRepository{
		conn: conn,
	}
}

// SaveOrUpdate grava o pagamento da venda. Cada venda tem no máximo um
// registro de pagamento; registrar de novo sobrescreve valor e data.
func (r *paymentRepository) SaveOrUpdate(payment *domain.Payment) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("payments").
		Columns("order_id", "amount", "payment_date").
		Values(
			payment.OrderID,
			payment.Amount,
			payment.PaymentDate.Format(time.DateOnly),
		).
		Suffix(`
			ON CONFLICT (order_id) DO UPDATE SET
				amount = EXCLUDED.amount,
				payment_date = EXCLUDED.payment_date
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao registrar pagamento: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetByOrderID(orderID int64) (*domain.Payment, error) {
	query, args, err := squirrel.
		Select("pay.order_id", "pay.amount", "pay.payment_date").
		From(paymentsTable).
		Where(squirrel.Eq{"pay.order_id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	payment := &domain.Payment{}
	err = r.conn.QueryRow(query, args...).Scan(
		&payment.OrderID,
		&payment.Amount,
		&payment.PaymentDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear pagamento: %w", err)
	}

	return payment, nil
}

// GetByOrderIDs busca os pagamentos de todas as vendas do conjunto em uma
// única consulta, indexados por venda. Venda sem pagamento não aparece no
// mapa; é assim que a agregação deriva o status "pending".
func (r *paymentRepository) GetByOrderIDs(orderIDs []int64) (map[int64]*domain.Payment, error) {
	payments := make(map[int64]*domain.Payment)
	if len(orderIDs) == 0 {
		return payments, nil
	}

	query, args, err := squirrel.
		Select("pay.order_id", "pay.amount", "pay.payment_date").
		From(paymentsTable).
		Where(squirrel.Eq{"pay.order_id": orderIDs}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		payment := &domain.Payment{}
		err := rows.Scan(&payment.OrderID, &payment.Amount, &payment.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear pagamento: %w", err)
		}
		payments[payment.OrderID] = payment
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return payments, nil
}
