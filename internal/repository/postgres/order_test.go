package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/database"
	apperrors "github.com/khangtong/tkt-phone-shop-sub000/pkg/errors"
)

func newOrderRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewOrderRepository(mock), mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:          "order-001",
		UserID:      "user-001",
		Status:      domain.OrderStatusPending,
		TotalAmount: 0,
		Currency:    "VND",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderRepo(t)
	o := sampleOrder()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.Status, o.TotalAmount, o.Currency, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_Error(t *testing.T) {
	repo, mock := newOrderRepo(t)
	o := sampleOrder()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.Status, o.TotalAmount, o.Currency, o.CreatedAt, o.UpdatedAt).
		WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), o)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert order")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newOrderRepo(t)
	o := sampleOrder()

	mock.ExpectQuery("FROM orders").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "status", "total_amount", "currency", "created_at", "updated_at",
		}).AddRow(o.ID, o.UserID, o.Status, o.TotalAmount, o.Currency, o.CreatedAt, o.UpdatedAt))

	got, err := repo.GetByID(context.Background(), o.ID)
	assert.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Status, got.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectQuery("FROM orders").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Exists(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("order-001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "order-001")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = repo.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}
