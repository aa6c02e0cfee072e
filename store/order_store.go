package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rohitk2319/ocr-patient-intake/dto"
)

var ErrOrderNotFound = errors.New("order not found")

// Stored dates are canonical YYYY-MM-DD; anything else is dropped on
// create and ignored on update.
var canonicalDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type OrderStore interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.Order, error)
	GetByID(ctx context.Context, id string) (*dto.Order, error)
	List(ctx context.Context) ([]dto.Order, error)
	Update(ctx context.Context, id string, req dto.UpdateOrderRequest) (*dto.Order, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id                 TEXT PRIMARY KEY,
	patient_first_name TEXT NOT NULL,
	patient_last_name  TEXT NOT NULL,
	dob                TEXT,
	status             TEXT NOT NULL DEFAULT 'new',
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC);
`

// Open opens (and if needed creates) the order database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (OrderStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(ordersSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.Order, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	status := req.Status
	if status == "" {
		status = dto.StatusNew
	}

	var dob *string
	if req.DOB != nil && canonicalDateRegex.MatchString(*req.DOB) {
		dob = req.DOB
	}

	order := dto.Order{
		ID:               uuid.NewString(),
		PatientFirstName: req.PatientFirstName,
		PatientLastName:  req.PatientLastName,
		DOB:              dob,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (id, patient_first_name, patient_last_name, dob, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.PatientFirstName, order.PatientLastName, order.DOB, string(order.Status), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return &order, nil
}

func (s *sqliteStore) GetByID(ctx context.Context, id string) (*dto.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, patient_first_name, patient_last_name, dob, status, created_at, updated_at
		 FROM orders WHERE id = ?`, id)
	return scanOrder(row)
}

func (s *sqliteStore) List(ctx context.Context) ([]dto.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, patient_first_name, patient_last_name, dob, status, created_at, updated_at
		 FROM orders ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []dto.Order{}
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (s *sqliteStore) Update(ctx context.Context, id string, req dto.UpdateOrderRequest) (*dto.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PatientFirstName != nil {
		order.PatientFirstName = *req.PatientFirstName
	}
	if req.PatientLastName != nil {
		order.PatientLastName = *req.PatientLastName
	}
	// A malformed date keeps the stored value rather than failing the
	// whole update.
	if req.DOB != nil && canonicalDateRegex.MatchString(*req.DOB) {
		order.DOB = req.DOB
	}
	if req.Status != nil {
		order.Status = *req.Status
	}
	order.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.ExecContext(ctx,
		`UPDATE orders
		 SET patient_first_name = ?, patient_last_name = ?, dob = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		order.PatientFirstName, order.PatientLastName, order.DOB, string(order.Status), order.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row *sql.Row) (*dto.Order, error) {
	order, err := scanOrderRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func scanOrderRow(row rowScanner) (*dto.Order, error) {
	var order dto.Order
	var status string
	if err := row.Scan(&order.ID, &order.PatientFirstName, &order.PatientLastName,
		&order.DOB, &status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	order.Status = dto.OrderStatus(status)
	return &order, nil
}
