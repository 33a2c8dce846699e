package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/internal/domain"
)

const (
	ordersTable     = "orders o"
	orderLinesTable = "order_lines ol"
)

type OrderRepository interface {
	Create(order *domain.Order) (*domain.Order, error)
	GetByNumber(number string) (*domain.Order, error)
	ListByDateRange(startDate, endDate time.Time) ([]*domain.Order, error)
	SetCancelled(number string, cancelledAt *time.Time) error
}

type orderRepository struct {
	conn *postgres.Connection
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

// Create insere a venda e suas linhas na mesma transação. As linhas são
// gravadas com a posição de entrada para que a recuperação reproduza a
// ordem original do registro.
func (r *orderRepository) Create(order *domain.Order) (*domain.Order, error) {
	err := r.conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
		query, args, err := squirrel.
			Insert("orders").
			Columns("number", "customer_id", "employee_id", "order_date").
			Values(
				order.Number,
				order.CustomerID,
				order.EmployeeID,
				order.OrderDate.Format(time.DateOnly),
			).
			Suffix("RETURNING id, created_at, updated_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		err = tx.QueryRow(query, args...).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("erro ao inserir venda: %w", err)
		}

		if len(order.Lines) == 0 {
			return nil
		}

		linesBuilder := squirrel.
			Insert("order_lines").
			Columns("order_id", "product_code", "quantity", "position").
			PlaceholderFormat(squirrel.Dollar)

		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
			linesBuilder = linesBuilder.Values(
				order.ID,
				order.Lines[i].ProductCode,
				order.Lines[i].Quantity,
				i,
			)
		}

		linesSQL, linesArgs, err := linesBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		_, err = tx.Exec(linesSQL, linesArgs...)
		if err != nil {
			return fmt.Errorf("erro ao inserir linhas da venda: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) GetByNumber(number string) (*domain.Order, error) {
	query, args, err := squirrel.
		Select("o.id", "o.number", "o.customer_id", "o.employee_id", "o.order_date", "o.cancelled_at", "o.created_at", "o.updated_at").
		From(ordersTable).
		Where(squirrel.Eq{"o.number": number}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	order, err := r.scanOrderRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear venda: %w", err)
	}

	if err := r.loadLines([]*domain.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByDateRange busca as vendas do período, com as linhas carregadas em
// uma única consulta adicional para o conjunto inteiro.
func (r *orderRepository) ListByDateRange(startDate, endDate time.Time) ([]*domain.Order, error) {
	query, args, err := squirrel.
		Select("o.id", "o.number", "o.customer_id", "o.employee_id", "o.order_date", "o.cancelled_at", "o.created_at", "o.updated_at").
		From(ordersTable).
		Where(squirrel.GtOrEq{"o.order_date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"o.order_date": endDate.Format(time.DateOnly)}).
		OrderBy("o.order_date ASC", "o.id ASC").
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

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	if err := r.loadLines(orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// SetCancelled marca ou desmarca o cancelamento da venda. Passar nil
// reabre a venda; o status volta a ser derivado do pagamento.
func (r *orderRepository) SetCancelled(number string, cancelledAt *time.Time) error {
	query, args, err := squirrel.
		Update("orders").
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"number": number}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao atualizar venda: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("venda %s não encontrada", number)
	}

	return nil
}

// loadLines carrega as linhas de todas as vendas do conjunto de uma vez e
// as distribui na ordem de posição gravada.
func (r *orderRepository) loadLines(orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Order, len(orders))
	orderIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		order.Lines = make([]domain.OrderLine, 0)
		byID[order.ID] = order
		orderIDs = append(orderIDs, order.ID)
	}

	query, args, err := squirrel.
		Select("ol.order_id", "ol.product_code", "ol.quantity").
		From(orderLinesTable).
		Where(squirrel.Eq{"ol.order_id": orderIDs}).
		OrderBy("ol.order_id ASC", "ol.position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line := domain.OrderLine{}
		if err := rows.Scan(&line.OrderID, &line.ProductCode, &line.Quantity); err != nil {
			return fmt.Errorf("erro ao escanear linha da venda: %w", err)
		}

		if order, ok := byID[line.OrderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return nil
}

func (r *orderRepository) scanOrder(rows *sql.Rows) (*domain.Order, error) {
	order := &domain.Order{}

	err := rows.Scan(
		&order.ID,
		&order.Number,
		&order.CustomerID,
		&order.EmployeeID,
		&order.OrderDate,
		&order.CancelledAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) scanOrderRow(row *sql.Row) (*domain.Order, error) {
	order := &domain.Order{}

	err := row.Scan(
		&order.ID,
		&order.Number,
		&order.CustomerID,
		&order.EmployeeID,
		&order.OrderDate,
		&order.CancelledAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return order, nil
}
