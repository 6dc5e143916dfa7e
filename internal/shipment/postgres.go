package shipment

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PostgresRepository struct {
	pool DBPool
	psql sq.StatementBuilderType
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var shipmentColumns = []string{
	"id", "tracking_number",
	"customer_name", "customer_email", "customer_phone",
	"origin_address", "origin_city", "origin_state", "origin_zip_code", "origin_country",
	"destination_address", "destination_city", "destination_state", "destination_zip_code", "destination_country",
	"carrier", "weight", "length", "width", "height",
	"status", "created_at", "estimated_delivery", "actual_delivery", "description",
}

var milestoneColumns = []string{
	"shipment_id", "id", "title", "occurred_at", "location", "description", "completed", "status",
}

var milestoneInsertColumns = []string{
	"shipment_id", "id", "title", "occurred_at", "location", "description", "completed", "status", "position",
}

func (r *PostgresRepository) List(ctx context.Context) ([]Shipment, error) {
	query, args, err := r.psql.Select(shipmentColumns...).From("shipments").OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select shipments: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select shipments: %w", err)
	}
	defer rows.Close()

	var shipments []Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	rows.Close()

	if len(shipments) == 0 {
		return []Shipment{}, nil
	}

	ids := make([]string, len(shipments))
	for i, s := range shipments {
		ids[i] = s.ID
	}
	byShipment, err := r.loadMilestones(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range shipments {
		shipments[i].Milestones = byShipment[shipments[i].ID]
	}
	return shipments, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Shipment, error) {
	query, args, err := r.psql.Select(shipmentColumns...).From("shipments").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Shipment{}, fmt.Errorf("build select shipment: %w", err)
	}

	s, err := scanShipment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shipment{}, ErrNotFound
		}
		return Shipment{}, fmt.Errorf("select shipment: %w", err)
	}

	byShipment, err := r.loadMilestones(ctx, []string{id})
	if err != nil {
		return Shipment{}, err
	}
	s.Milestones = byShipment[id]
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s Shipment) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query, args, err := r.psql.Insert("shipments").Columns(shipmentColumns...).Values(
		s.ID, s.TrackingNumber,
		s.Customer.Name, s.Customer.Email, s.Customer.Phone,
		s.Origin.Address, s.Origin.City, s.Origin.State, s.Origin.ZipCode, s.Origin.Country,
		s.Destination.Address, s.Destination.City, s.Destination.State, s.Destination.ZipCode, s.Destination.Country,
		s.Carrier, s.Weight, s.Dimensions.Length, s.Dimensions.Width, s.Dimensions.Height,
		string(s.Status), s.CreatedAt, s.EstimatedDelivery, s.ActualDelivery, s.Description,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert shipment: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert shipment: %w", err)
	}

	if len(s.Milestones) > 0 {
		insert := r.psql.Insert("shipment_milestones").Columns(milestoneInsertColumns...)
		for i, m := range s.Milestones {
			insert = insert.Values(s.ID, m.ID, m.Title, m.Timestamp, m.Location, m.Description, m.Completed, string(m.Status), i)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert milestones: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert milestones: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) loadMilestones(ctx context.Context, shipmentIDs []string) (map[string][]Milestone, error) {
	query, args, err := r.psql.Select(milestoneColumns...).
		From("shipment_milestones").
		Where(sq.Eq{"shipment_id": shipmentIDs}).
		OrderBy("shipment_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select milestones: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select milestones: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]Milestone, len(shipmentIDs))
	for rows.Next() {
		var (
			shipmentID string
			m          Milestone
			status     string
		)
		if err := rows.Scan(&shipmentID, &m.ID, &m.Title, &m.Timestamp, &m.Location, &m.Description, &m.Completed, &status); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		if m.Status, err = ParseStatus(status); err != nil {
			return nil, fmt.Errorf("milestone %s/%s: %w", shipmentID, m.ID, err)
		}
		out[shipmentID] = append(out[shipmentID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanShipment(row pgx.Row) (Shipment, error) {
	var (
		s              Shipment
		status         string
		actualDelivery *time.Time
	)
	err := row.Scan(
		&s.ID, &s.TrackingNumber,
		&s.Customer.Name, &s.Customer.Email, &s.Customer.Phone,
		&s.Origin.Address, &s.Origin.City, &s.Origin.State, &s.Origin.ZipCode, &s.Origin.Country,
		&s.Destination.Address, &s.Destination.City, &s.Destination.State, &s.Destination.ZipCode, &s.Destination.Country,
		&s.Carrier, &s.Weight, &s.Dimensions.Length, &s.Dimensions.Width, &s.Dimensions.Height,
		&status, &s.CreatedAt, &s.EstimatedDelivery, &actualDelivery, &s.Description,
	)
	if err != nil {
		return Shipment{}, err
	}
	if s.Status, err = ParseStatus(status); err != nil {
		return Shipment{}, err
	}
	s.ActualDelivery = actualDelivery
	return s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
