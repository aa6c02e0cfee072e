package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitk2319/ocr-patient-intake/dto"
)

func openTestStore(t *testing.T) OrderStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, dto.CreateOrderRequest{
		PatientFirstName: "John",
		PatientLastName:  "Doe",
		DOB:              strPtr("1990-01-15"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, dto.StatusNew, created.Status)
	require.NotNil(t, created.DOB)
	assert.Equal(t, "1990-01-15", *created.DOB)
	assert.NotEmpty(t, created.CreatedAt)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateOrderDropsMalformedDOB(t *testing.T) {
	s := openTestStore(t)

	created, err := s.Create(context.Background(), dto.CreateOrderRequest{
		PatientFirstName: "John",
		PatientLastName:  "Doe",
		DOB:              strPtr("01/15/1990"),
	})
	require.NoError(t, err)
	assert.Nil(t, created.DOB)
}

func TestGetOrderNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetByID(context.Background(), "no-such-id")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, dto.CreateOrderRequest{PatientFirstName: "Alice", PatientLastName: "Smith"})
	require.NoError(t, err)
	second, err := s.Create(ctx, dto.CreateOrderRequest{PatientFirstName: "Bob", PatientLastName: "Jones"})
	require.NoError(t, err)

	orders, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	ids := []string{orders[0].ID, orders[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

func TestUpdateOrderPartial(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, dto.CreateOrderRequest{
		PatientFirstName: "John",
		PatientLastName:  "Doe",
		DOB:              strPtr("1990-01-15"),
	})
	require.NoError(t, err)

	status := dto.StatusProcessing
	updated, err := s.Update(ctx, created.ID, dto.UpdateOrderRequest{
		PatientFirstName: strPtr("Jane"),
		Status:           &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane", updated.PatientFirstName)
	assert.Equal(t, "Doe", updated.PatientLastName)
	assert.Equal(t, dto.StatusProcessing, updated.Status)
	require.NotNil(t, updated.DOB)
	assert.Equal(t, "1990-01-15", *updated.DOB)
}

func TestUpdateOrderKeepsDOBOnMalformedInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, dto.CreateOrderRequest{
		PatientFirstName: "John",
		PatientLastName:  "Doe",
		DOB:              strPtr("1990-01-15"),
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, dto.UpdateOrderRequest{
		DOB: strPtr("not-a-date"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DOB)
	assert.Equal(t, "1990-01-15", *updated.DOB)
}

func TestUpdateOrderNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Update(context.Background(), "no-such-id", dto.UpdateOrderRequest{})

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, dto.CreateOrderRequest{PatientFirstName: "John", PatientLastName: "Doe"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrOrderNotFound)
}
