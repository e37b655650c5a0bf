// Package service provides the implementation of whisky stock business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
	"github.com/abgdnv/whiskystock/internal/store"
	"github.com/abgdnv/whiskystock/pkg/messaging"
	"github.com/abgdnv/whiskystock/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

const (
	directionIncrement = "increment"
	directionDecrement = "decrement"

	outcomeOK       = "ok"
	outcomeExceeded = "exceeded"
)

// WhiskyService defines the methods for managing the whisky stock.
// It abstracts the underlying business logic and data access.
type WhiskyService interface {
	// Register adds a new whisky to the stock.
	// Returns ErrWhiskyAlreadyRegistered if a whisky with the same name exists.
	Register(ctx context.Context, whisky WhiskyCreateDto) (*WhiskyDto, error)

	// FindByName retrieves a single whisky by its name.
	// Returns ErrWhiskyNotFound if no whisky exists with the given name.
	FindByName(ctx context.Context, name string) (*WhiskyDto, error)

	// FindAll returns every registered whisky.
	// Returns an empty slice if no whiskies exist.
	FindAll(ctx context.Context) ([]WhiskyDto, error)

	// DeleteByID removes a whisky by its ID.
	// Returns ErrWhiskyNotFound if no whisky exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Increment adds amount bottles to the stock of a whisky.
	// Returns ErrWhiskyStockExceeded if the result would exceed the max capacity.
	Increment(ctx context.Context, id int64, amount int32) (*WhiskyDto, error)

	// Decrement removes amount bottles from the stock of a whisky.
	// Returns ErrWhiskyStockExceeded if the result would drop below zero.
	Decrement(ctx context.Context, id int64, amount int32) (*WhiskyDto, error)
}

// Service implements WhiskyService.
type Service struct {
	repository         store.WhiskyStore
	publisher          messaging.Publisher
	registeredCounter  metric.Int64Counter
	adjustmentsCounter metric.Int64Counter
}

// NewService creates a new instance of WhiskyService with the provided repository and event publisher.
func NewService(repo store.WhiskyStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("whisky-service")
	registeredCounter, err := meter.Int64Counter("whisky_registered",
		metric.WithDescription("Total number of registered whiskies"))
	if err != nil {
		panic(fmt.Sprintf("failed to create whisky_registered counter: %v", err))
	}
	adjustmentsCounter, err := meter.Int64Counter("whisky_stock_adjustments",
		metric.WithDescription("Total number of stock adjustments by direction and outcome"))
	if err != nil {
		panic(fmt.Sprintf("failed to create whisky_stock_adjustments counter: %v", err))
	}
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		repository:         repo,
		publisher:          publisher,
		registeredCounter:  registeredCounter,
		adjustmentsCounter: adjustmentsCounter,
	}
}

// WhiskyCreateDto represents the data transfer object for registering a new whisky.
type WhiskyCreateDto struct {
	Name     string     `json:"name"     validate:"required,min=1,max=200"`
	Brand    string     `json:"brand"    validate:"required,min=1,max=200"`
	Max      int32      `json:"max"      validate:"required,min=1,max=500"`
	Quantity int32      `json:"quantity" validate:"min=0,max=100,ltefield=Max"`
	Type     WhiskyType `json:"type"     validate:"required,whiskytype"`
}

// WhiskyDto represents the data transfer object for a whisky.
type WhiskyDto struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Brand    string     `json:"brand"`
	Max      int32      `json:"max"`
	Quantity int32      `json:"quantity"`
	Type     WhiskyType `json:"type"`
}

// QuantityDto is the body of a stock adjustment. A missing or null quantity fails validation.
type QuantityDto struct {
	Quantity *int32 `json:"quantity" validate:"required,min=1,max=100"`
}

// Register registers a new whisky and returns it as a WhiskyDto.
func (s *Service) Register(ctx context.Context, dto WhiskyCreateDto) (*WhiskyDto, error) {
	_, err := s.repository.FindByName(ctx, dto.Name)
	if err == nil {
		return nil, fmt.Errorf("whisky with name %s: %w", dto.Name, werrors.ErrWhiskyAlreadyRegistered)
	}
	if !errors.Is(err, werrors.ErrWhiskyNotFound) {
		return nil, fmt.Errorf("failed to check whisky name %s: %w", dto.Name, err)
	}

	saved, err := s.repository.Save(ctx, &store.Whisky{
		Name:     dto.Name,
		Brand:    dto.Brand,
		Type:     string(dto.Type),
		Max:      dto.Max,
		Quantity: dto.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register whisky %s: %w", dto.Name, err)
	}

	s.publish(ctx, events.WhiskyRegisteredEvent{
		Carrier:   traceCarrier(ctx),
		ID:        saved.ID,
		Name:      saved.Name,
		Brand:     saved.Brand,
		Type:      saved.Type,
		Max:       saved.Max,
		Quantity:  saved.Quantity,
		CreatedAt: saved.CreatedAt,
	})
	s.registeredCounter.Add(ctx, 1)

	return toDto(saved), nil
}

// FindByName retrieves a whisky by its name and returns it as a WhiskyDto.
func (s *Service) FindByName(ctx context.Context, name string) (*WhiskyDto, error) {
	whisky, err := s.repository.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch whisky by name %s: %w", name, err)
	}
	return toDto(whisky), nil
}

// FindAll retrieves every whisky in store order.
func (s *Service) FindAll(ctx context.Context) ([]WhiskyDto, error) {
	whiskies, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch whiskies: %w", err)
	}
	dtos := make([]WhiskyDto, len(whiskies))
	for i, item := range whiskies {
		dtos[i] = *toDto(&item)
	}
	return dtos, nil
}

// DeleteByID deletes a whisky by its ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	whisky, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch whisky by ID %d: %w", id, err)
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete whisky by ID %d: %w", id, err)
	}

	s.publish(ctx, events.WhiskyDeletedEvent{
		Carrier:   traceCarrier(ctx),
		ID:        whisky.ID,
		Name:      whisky.Name,
		DeletedAt: time.Now().UTC(),
	})
	return nil
}

func (s *Service) Increment(ctx context.Context, id int64, amount int32) (*WhiskyDto, error) {
	return s.adjust(ctx, id, amount, directionIncrement)
}

func (s *Service) Decrement(ctx context.Context, id int64, amount int32) (*WhiskyDto, error) {
	return s.adjust(ctx, id, amount, directionDecrement)
}

// adjust reads the whisky, checks that the new quantity stays within [0, max] and saves it.
// Nothing is written when the check fails.
func (s *Service) adjust(ctx context.Context, id int64, amount int32, direction string) (*WhiskyDto, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid %s amount %d: %w", direction, amount, werrors.ErrInvalidQuantity)
	}

	whisky, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch whisky by ID %d: %w", id, err)
	}

	delta := amount
	if direction == directionDecrement {
		delta = -amount
	}
	previous := whisky.Quantity
	next := int64(previous) + int64(delta)
	if next < 0 || next > int64(whisky.Max) {
		s.countAdjustment(ctx, direction, outcomeExceeded)
		return nil, fmt.Errorf("%s of whisky %d by %d with quantity %d and max %d: %w",
			direction, id, amount, previous, whisky.Max, werrors.ErrWhiskyStockExceeded)
	}

	whisky.Quantity = int32(next)
	saved, err := s.repository.Save(ctx, whisky)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock of whisky %d: %w", id, err)
	}
	s.countAdjustment(ctx, direction, outcomeOK)

	s.publish(ctx, events.WhiskyStockChangedEvent{
		Carrier:          traceCarrier(ctx),
		ID:               saved.ID,
		Name:             saved.Name,
		Delta:            delta,
		PreviousQuantity: previous,
		Quantity:         saved.Quantity,
		Max:              saved.Max,
		ChangedAt:        saved.UpdatedAt,
	})

	return toDto(saved), nil
}

func (s *Service) countAdjustment(ctx context.Context, direction, outcome string) {
	s.adjustmentsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("outcome", outcome),
	))
}

// publish sends the event. A failure is logged and never fails the operation.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func traceCarrier(ctx context.Context) map[string]string {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// toDto converts a store.Whisky to a WhiskyDto.
func toDto(whisky *store.Whisky) *WhiskyDto {
	return &WhiskyDto{
		ID:       whisky.ID,
		Name:     whisky.Name,
		Brand:    whisky.Brand,
		Max:      whisky.Max,
		Quantity: whisky.Quantity,
		Type:     WhiskyType(whisky.Type),
	}
}
