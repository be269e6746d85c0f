package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// defaultConflictRetries is how many times a read-modify-write cycle is
	// re-run with fresh state after a version conflict before surfacing
	// ErrConflict.
	defaultConflictRetries = 3
	// defaultCreateAttempts bounds id regeneration on create collisions.
	defaultCreateAttempts = 3
	// defaultReadRetries bounds re-reads after a transient storage failure.
	defaultReadRetries = 1
)

// Patch carries the fields a Modify call may change. A nil field means
// "leave unchanged"; a present Items slice replaces the item list wholesale.
type Patch struct {
	Items    []Item
	Metadata map[string]interface{}
}

// Service implements the four order operations on top of the Store. It holds
// no cross-request state; every invocation works only through the injected
// store.
type Service struct {
	store           *Store
	nowFunc         func() time.Time
	newID           func() string
	conflictRetries int
	createAttempts  int
	readRetries     int
}

// NewService returns a Service with production defaults (uuid order ids,
// wall-clock timestamps).
func NewService(store *Store) *Service {
	return &Service{
		store:           store,
		nowFunc:         time.Now,
		newID:           uuid.NewString,
		conflictRetries: defaultConflictRetries,
		createAttempts:  defaultCreateAttempts,
		readRetries:     defaultReadRetries,
	}
}

// Place validates the input, assigns a fresh order id and persists the order
// with status PLACED and version 1. An id collision (practically never with
// uuids) is retried with a new id a bounded number of times.
func (s *Service) Place(ctx context.Context, customerID string, items []Item, metadata map[string]interface{}) (*Order, error) {
	if customerID == "" {
		return nil, &ValidationError{Field: "customer_id", Reason: "must not be empty"}
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	var lastErr error
	for attempt := 0; attempt < s.createAttempts; attempt++ {
		orderID := s.newID()
		order := Order{
			PK:         OrderPK(orderID),
			SK:         OrderSK(orderID),
			OrderID:    orderID,
			CustomerID: customerID,
			Items:      items,
			Status:     StatusPlaced,
			Version:    1,
			Metadata:   metadata,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		err := s.store.Create(ctx, order)
		if err == nil {
			return &order, nil
		}
		if errors.Is(err, ErrAlreadyExists) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: could not allocate a unique order id after %d attempts: %v",
		ErrInternal, s.createAttempts, lastErr)
}

// Fetch returns the order or ErrNotFound. Pure read, no side effects.
func (s *Service) Fetch(ctx context.Context, orderID string) (*Order, error) {
	var lastErr error
	for attempt := 0; attempt <= s.readRetries; attempt++ {
		o, err := s.store.Get(ctx, orderID)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Modify applies the patch to the current order, re-validates the result and
// writes it back conditioned on the version read at the start of the cycle.
func (s *Service) Modify(ctx context.Context, orderID string, patch Patch) (*Order, error) {
	return s.mutate(ctx, orderID, StatusModified, func(o *Order) error {
		if patch.Items != nil {
			o.Items = patch.Items
		}
		if patch.Metadata != nil {
			o.Metadata = patch.Metadata
		}
		return validateItems(o.Items)
	})
}

// Cancel transitions the order to CANCELLED. The record is never deleted;
// a cancelled order stays readable forever.
func (s *Service) Cancel(ctx context.Context, orderID string) (*Order, error) {
	return s.mutate(ctx, orderID, StatusCancelled, nil)
}

// ListByCustomer returns every order belonging to a customer.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	if customerID == "" {
		return nil, &ValidationError{Field: "customer_id", Reason: "must not be empty"}
	}
	return s.store.QueryByCustomer(ctx, customerID)
}

// mutate is the shared read-check-write loop behind Modify and Cancel: an
// explicit bounded loop that re-reads fresh state on every iteration, never a
// blind retry of stale data. Version conflicts and transient storage failures
// consume retry budget; everything else surfaces immediately.
func (s *Service) mutate(ctx context.Context, orderID string, target Status, apply func(*Order) error) (*Order, error) {
	var lastErr error
	for attempt := 0; attempt <= s.conflictRetries; attempt++ {
		cur, err := s.store.Get(ctx, orderID)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				lastErr = err
				continue
			}
			return nil, err
		}

		if !cur.Status.Valid() {
			return nil, fmt.Errorf("%w: stored status %q is unknown", ErrInternal, cur.Status)
		}
		if !cur.Status.CanTransition(target) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, cur.Status, target)
		}

		next := *cur
		if apply != nil {
			if err := apply(&next); err != nil {
				return nil, err
			}
		}
		next.Status = target
		next.Version = cur.Version + 1
		next.UpdatedAt = s.monotonicNow(cur.UpdatedAt)

		err = s.store.ConditionalUpdate(ctx, cur.Version, next)
		if err == nil {
			return &next, nil
		}
		if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrUnavailable) {
			lastErr = err
			continue
		}
		return nil, err
	}

	if errors.Is(lastErr, ErrUnavailable) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: after %d attempts: %v", ErrConflict, s.conflictRetries+1, lastErr)
}

// monotonicNow returns the current UTC time, clamped so updated_at never
// moves backwards for an order.
func (s *Service) monotonicNow(prev time.Time) time.Time {
	now := s.nowFunc().UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return &ValidationError{Field: "items", Reason: "must contain at least one item"}
	}
	for i, it := range items {
		if it.SKU == "" {
			return &ValidationError{Field: fmt.Sprintf("items[%d].sku", i), Reason: "must not be empty"}
		}
		if it.Quantity < 1 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be a positive integer"}
		}
		if it.Price < 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].price", i), Reason: "must be non-negative"}
		}
	}
	return nil
}
