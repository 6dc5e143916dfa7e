package shipment

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func shipmentRow(s Shipment) []any {
	return []any{
		s.ID, s.TrackingNumber,
		s.Customer.Name, s.Customer.Email, s.Customer.Phone,
		s.Origin.Address, s.Origin.City, s.Origin.State, s.Origin.ZipCode, s.Origin.Country,
		s.Destination.Address, s.Destination.City, s.Destination.State, s.Destination.ZipCode, s.Destination.Country,
		s.Carrier, s.Weight, s.Dimensions.Length, s.Dimensions.Width, s.Dimensions.Height,
		string(s.Status), s.CreatedAt, s.EstimatedDelivery, s.ActualDelivery, s.Description,
	}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// shipmentInsertArgs pins the identifying columns and accepts anything else.
func shipmentInsertArgs(s Shipment) []any {
	args := anyArgs(len(shipmentColumns))
	args[0], args[1] = s.ID, s.TrackingNumber
	return args
}

func milestoneInsertArgs(s Shipment) []any {
	per := len(milestoneInsertColumns)
	args := anyArgs(per * len(s.Milestones))
	for i, m := range s.Milestones {
		args[i*per], args[i*per+1] = s.ID, m.ID
	}
	return args
}

func milestoneRows(ss ...Shipment) *pgxmock.Rows {
	rows := pgxmock.NewRows(milestoneColumns)
	for _, s := range ss {
		for _, m := range s.Milestones {
			rows.AddRow(s.ID, m.ID, m.Title, m.Timestamp, m.Location, m.Description, m.Completed, string(m.Status))
		}
	}
	return rows
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	delivered := newTestShipment("ship-0", "TRK100000", "Customer 1", "Dallas", StatusDelivered)
	pending := newTestShipment("ship-1", "TRK100001", "Customer 2", "Austin", StatusPending)

	mock.ExpectQuery(`SELECT (.+) FROM shipments ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows(shipmentColumns).
			AddRow(shipmentRow(delivered)...).
			AddRow(shipmentRow(pending)...))
	mock.ExpectQuery(`SELECT (.+) FROM shipment_milestones WHERE shipment_id IN \(\$1,\$2\) ORDER BY shipment_id, position`).
		WithArgs("ship-0", "ship-1").
		WillReturnRows(milestoneRows(delivered, pending))

	repo := NewPostgresRepository(mock)
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, delivered, got[0])
	require.Equal(t, pending, got[1])
	require.Nil(t, got[1].ActualDelivery)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryList_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM shipments ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows(shipmentColumns))

	got, err := NewPostgresRepository(mock).List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryList_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM shipments`).WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresRepository(mock).List(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newTestShipment("ship-2", "TRK100002", "Acme", "Houston", StatusDelayed)

	mock.ExpectQuery(`SELECT (.+) FROM shipments WHERE id = \$1`).
		WithArgs("ship-2").
		WillReturnRows(pgxmock.NewRows(shipmentColumns).AddRow(shipmentRow(s)...))
	mock.ExpectQuery(`SELECT (.+) FROM shipment_milestones`).
		WithArgs("ship-2").
		WillReturnRows(milestoneRows(s))

	got, err := NewPostgresRepository(mock).Get(context.Background(), "ship-2")
	require.NoError(t, err)
	require.Equal(t, s, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGet_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM shipments WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresRepository(mock).Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGet_UnknownStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newTestShipment("ship-3", "TRK100003", "Acme", "Houston", StatusPending)
	row := shipmentRow(s)
	row[20] = "lost"

	mock.ExpectQuery(`SELECT (.+) FROM shipments WHERE id = \$1`).
		WithArgs("ship-3").
		WillReturnRows(pgxmock.NewRows(shipmentColumns).AddRow(row...))

	_, err = NewPostgresRepository(mock).Get(context.Background(), "ship-3")
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newTestShipment("ship-4", "TRK100004", "Acme", "Houston", StatusPending)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(`INSERT INTO shipments`).
		WithArgs(shipmentInsertArgs(s)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO shipment_milestones \(shipment_id,id,title,occurred_at,location,description,completed,status,position\)`).
		WithArgs(milestoneInsertArgs(s)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	require.NoError(t, NewPostgresRepository(mock).Create(context.Background(), s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreate_Conflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newTestShipment("ship-4", "TRK100004", "Acme", "Houston", StatusPending)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(`INSERT INTO shipments`).
		WithArgs(shipmentInsertArgs(s)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "shipments_tracking_number_key"})
	mock.ExpectRollback()

	err = NewPostgresRepository(mock).Create(context.Background(), s)
	require.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreate_MilestoneInsertError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newTestShipment("ship-5", "TRK100005", "Acme", "Houston", StatusPending)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(`INSERT INTO shipments`).
		WithArgs(shipmentInsertArgs(s)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO shipment_milestones`).
		WithArgs(milestoneInsertArgs(s)...).
		WillReturnError(errors.New("milestone insert failed"))
	mock.ExpectRollback()

	err = NewPostgresRepository(mock).Create(context.Background(), s)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
