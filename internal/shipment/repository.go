package shipment

import (
	"context"
	"errors"
	"sync"
)

var ErrConflict = errors.New("shipment already exists")

// Repository supplies read-only snapshots of the shipment collection.
type Repository interface {
	List(ctx context.Context) ([]Shipment, error)
	Get(ctx context.Context, id string) (Shipment, error)
	Create(ctx context.Context, s Shipment) error
}

// MemoryRepository keeps shipments in insertion order and hands out copies.
type MemoryRepository struct {
	mu        sync.RWMutex
	shipments []Shipment
}

func NewMemoryRepository(seed []Shipment) *MemoryRepository {
	return &MemoryRepository{shipments: cloneAll(seed)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.shipments), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (Shipment, error) {
	if err := ctx.Err(); err != nil {
		return Shipment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, err := FindByID(r.shipments, id)
	if err != nil {
		return Shipment{}, err
	}
	return s.Clone(), nil
}

func (r *MemoryRepository) Create(ctx context.Context, s Shipment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.shipments {
		if existing.ID == s.ID || existing.TrackingNumber == s.TrackingNumber {
			return ErrConflict
		}
	}
	r.shipments = append(r.shipments, s.Clone())
	return nil
}
