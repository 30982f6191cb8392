package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestRepositorySave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	items := []LineItem{
		{ProductID: 1, Size: "M", Qty: 2},
		{ProductID: 2, Size: "S", Qty: 1},
	}
	payload, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO cart_slots (slot_key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`)).
		WithArgs(SlotKey, payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySave_EmptyCartWritesEmptyList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_slots`)).
		WithArgs(SlotKey, []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLoad_RoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	stored := []LineItem{
		{ProductID: 1, Size: "M", Qty: 2},
		{ProductID: 2, Size: "S", Qty: 1},
	}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM cart_slots WHERE slot_key = $1`)).
		WithArgs(SlotKey).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	items, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, stored, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLoad_MissingSlotYieldsEmptyCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM cart_slots WHERE slot_key = $1`)).
		WithArgs(SlotKey).
		WillReturnError(sql.ErrNoRows)

	items, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLoad_CorruptPayloadYieldsEmptyCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM cart_slots WHERE slot_key = $1`)).
		WithArgs(SlotKey).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`{broken`)))

	items, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLoad_QueryErrorSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM cart_slots WHERE slot_key = $1`)).
		WithArgs(SlotKey).
		WillReturnError(errors.New("db down"))

	_, err = repo.Load(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
