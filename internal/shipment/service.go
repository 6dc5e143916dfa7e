package shipment

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/logistics-tracker/internal/logging"
)

const (
	DefaultRecentLimit   = 5
	estimatedTransitTime = 5 * 24 * time.Hour
)

// EventPublisher is implemented by the events package.
type EventPublisher interface {
	PublishShipmentCreated(ctx context.Context, s Shipment) error
}

// Carriers lists the carriers a shipment can be created with.
func Carriers() []string {
	return []string{"FedEx", "UPS", "DHL", "USPS", "Amazon Logistics"}
}

type Detail struct {
	Shipment   Shipment    `json:"shipment"`
	Timeline   []Milestone `json:"timeline"`
	LastUpdate time.Time   `json:"lastUpdate"`
}

type CreateInput struct {
	TrackingNumber string     `json:"trackingNumber"`
	Carrier        string     `json:"carrier"`
	Weight         float64    `json:"weight"`
	Dimensions     Dimensions `json:"dimensions"`
	Description    string     `json:"description"`
	Customer       Customer   `json:"customer"`
	Origin         Address    `json:"origin"`
	Destination    Address    `json:"destination"`
}

// ValidationError lists every field problem of a CreateInput.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidShipment, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidShipment }

type Service struct {
	repo        Repository
	publisher   EventPublisher
	logger      zerolog.Logger
	lookupDelay time.Duration
	now         func() time.Time
	newID       func() string
}

type Option func(*Service)

func WithLookupDelay(d time.Duration) Option {
	return func(s *Service) { s.lookupDelay = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(repo Repository, publisher EventPublisher, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, q Query) ([]Shipment, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	return Filter(all, q.Search, q.Status), nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list shipments: %w", err)
	}
	return Summarize(all), nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Shipment, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Lookup starts an asynchronous lookup; the caller is loading until a value
// arrives on the channel.
func (s *Service) Lookup(ctx context.Context, id string) <-chan LookupResult {
	return ResolveAsync(ctx, s.repo, id, s.lookupDelay)
}

func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	var res LookupResult
	select {
	case <-ctx.Done():
		return Detail{}, ctx.Err()
	case r, ok := <-s.Lookup(ctx, id):
		if !ok {
			return Detail{}, ctx.Err()
		}
		res = r
	}

	if res.Err != nil {
		return Detail{}, fmt.Errorf("get shipment %s: %w", id, res.Err)
	}
	if res.State != LookupFound {
		return Detail{}, ErrNotFound
	}

	last, err := LastUpdate(res.Shipment.Milestones)
	if err != nil {
		s.logger.Error().Err(err).Str(logging.ShipmentID, id).Msg("shipment violates milestone invariant")
		return Detail{}, fmt.Errorf("shipment %s: %w", id, err)
	}

	return Detail{
		Shipment:   res.Shipment,
		Timeline:   SortedDescending(res.Shipment.Milestones),
		LastUpdate: last,
	}, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Shipment, error) {
	if err := in.validate(); err != nil {
		return Shipment{}, err
	}

	now := s.now()
	id := s.newID()
	tracking := strings.TrimSpace(in.TrackingNumber)
	if tracking == "" {
		tracking = trackingNumberFor(id)
	}

	origin := in.Origin
	if origin.Country == "" {
		origin.Country = "USA"
	}
	destination := in.Destination
	if destination.Country == "" {
		destination.Country = "USA"
	}

	sh := Shipment{
		ID:                id,
		TrackingNumber:    tracking,
		Customer:          in.Customer,
		Origin:            origin,
		Destination:       destination,
		Carrier:           in.Carrier,
		Weight:            in.Weight,
		Dimensions:        in.Dimensions,
		Status:            StatusPending,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(estimatedTransitTime),
		Description:       in.Description,
		Milestones: []Milestone{{
			ID:          id + "-0",
			Title:       "Order Placed",
			Timestamp:   now,
			Location:    placeName(origin),
			Description: "Shipment order was placed",
			Completed:   true,
			Status:      StatusPending,
		}},
	}
	if err := sh.Validate(); err != nil {
		return Shipment{}, err
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		if errors.Is(err, ErrConflict) {
			return Shipment{}, err
		}
		return Shipment{}, fmt.Errorf("create shipment: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishShipmentCreated(ctx, sh); err != nil {
			s.logger.Warn().Err(err).Str(logging.ShipmentID, sh.ID).Msg("publish shipment created")
		}
	}

	s.logger.Info().Str(logging.ShipmentID, sh.ID).Str(logging.TrackingNumber, sh.TrackingNumber).Msg("shipment created")
	return sh, nil
}

func (in CreateInput) validate() error {
	fields := map[string]string{}

	if !slices.Contains(Carriers(), in.Carrier) {
		fields["carrier"] = "must be one of " + strings.Join(Carriers(), ", ")
	}
	if in.Weight <= 0 {
		fields["weight"] = "must be positive"
	}
	if in.Dimensions.Length < 0 || in.Dimensions.Width < 0 || in.Dimensions.Height < 0 {
		fields["dimensions"] = "must not be negative"
	}
	if strings.TrimSpace(in.Customer.Name) == "" {
		fields["customer.name"] = "required"
	}
	if in.Customer.Email != "" {
		if _, err := mail.ParseAddress(in.Customer.Email); err != nil {
			fields["customer.email"] = "invalid address"
		}
	}
	if strings.TrimSpace(in.Origin.City) == "" {
		fields["origin.city"] = "required"
	}
	if strings.TrimSpace(in.Destination.City) == "" {
		fields["destination.city"] = "required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func placeName(a Address) string {
	if a.State == "" {
		return a.City
	}
	return a.City + ", " + a.State
}

// trackingNumberFor derives a stable TRK number from the shipment id.
func trackingNumberFor(id string) string {
	compact := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(compact) > 10 {
		compact = compact[:10]
	}
	return "TRK" + compact
}
