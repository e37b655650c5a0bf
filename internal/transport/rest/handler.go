// Package rest provides HTTP handlers for whisky stock operations.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
	"github.com/abgdnv/whiskystock/internal/service"
	"github.com/abgdnv/whiskystock/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const basePath = "/api/v1/whiskies"

type Handler struct {
	service  service.WhiskyService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the whisky API with the provided service.
func NewHandler(service service.WhiskyService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: newValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// newValidator returns a validator that knows the "whiskytype" rule.
func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("whiskytype", func(fl validator.FieldLevel) bool {
		return service.WhiskyType(fl.Field().String()).IsValid()
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register whiskytype validation: %v", err))
	}
	return v
}

// RegisterRoutes registers the HTTP routes for the whisky service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(basePath, func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Register)
		r.Get("/{name}", h.FindByName)
		r.Delete("/{id}", h.DeleteByID)
		r.Patch("/{id}/increment", h.Increment)
		r.Patch("/{id}/decrement", h.Decrement)
	})

	r.Get("/healthz", h.HealthCheck)
}

// Register handles the registration of a new whisky.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var createDto service.WhiskyCreateDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &createDto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to register whisky", "whisky", createDto)

	registered, err := h.service.Register(r.Context(), createDto)
	if err != nil {
		if errors.Is(err, werrors.ErrWhiskyAlreadyRegistered) {
			h.logger.WarnContext(r.Context(), "Whisky already registered", "name", createDto.Name)
			web.RespondError(w, h.logger, http.StatusBadRequest,
				fmt.Sprintf("Whisky with name %s already registered in the system.", createDto.Name))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error registering whisky", "name", createDto.Name, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to register whisky")
		return
	}
	h.logger.InfoContext(r.Context(), "Whisky registered successfully", "ID", registered.ID, "name", registered.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, registered)
}

// FindByName retrieves a whisky by its name.
func (h *Handler) FindByName(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	h.logger.DebugContext(r.Context(), "Received request to find whisky by name", "name", name)

	found, err := h.service.FindByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, werrors.ErrWhiskyNotFound) {
			h.logger.WarnContext(r.Context(), "Whisky not found", "name", name)
			web.RespondError(w, h.logger, http.StatusNotFound,
				fmt.Sprintf("Whisky with name %s not found in the system.", name))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving whisky", "name", name, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve whisky with name %s", name))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// FindAll retrieves every registered whisky.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all whiskies")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving whisky list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch whiskies")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved whisky list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// DeleteByID deletes a whisky by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete whisky", "ID", id)

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, werrors.ErrWhiskyNotFound) {
			h.logger.WarnContext(r.Context(), "Whisky not found for deletion", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, notFoundByID(id))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error deleting whisky", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete whisky with ID %d", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Whisky deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Increment adds bottles to the stock of a whisky.
func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "increment", h.service.Increment)
}

// Decrement removes bottles from the stock of a whisky.
func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "decrement", h.service.Decrement)
}

type adjustFunc func(ctx context.Context, id int64, amount int32) (*service.WhiskyDto, error)

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, direction string, fn adjustFunc) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var quantityDto service.QuantityDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &quantityDto) {
		return
	}
	amount := *quantityDto.Quantity
	h.logger.DebugContext(r.Context(), "Received request to adjust whisky stock", "ID", id, "direction", direction, "amount", amount)

	updated, err := fn(r.Context(), id, amount)
	if err != nil {
		switch {
		case errors.Is(err, werrors.ErrWhiskyNotFound):
			h.logger.WarnContext(r.Context(), "Whisky not found for stock adjustment", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, notFoundByID(id))
		case errors.Is(err, werrors.ErrWhiskyStockExceeded):
			h.logger.WarnContext(r.Context(), "Stock adjustment out of range", "ID", id, "direction", direction, "amount", amount)
			web.RespondError(w, h.logger, http.StatusBadRequest, stockExceeded(id, direction, amount))
		case errors.Is(err, werrors.ErrInvalidQuantity):
			h.logger.WarnContext(r.Context(), "Invalid stock adjustment amount", "ID", id, "amount", amount)
			web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid quantity: %d", amount))
		default:
			h.logger.ErrorContext(r.Context(), "Error adjusting whisky stock", "ID", id, "error", err)
			web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s stock of whisky with ID %d", direction, id))
		}
		return
	}
	h.logger.InfoContext(r.Context(), "Whisky stock adjusted successfully", "ID", updated.ID, "direction", direction, "quantity", updated.Quantity)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func notFoundByID(id int64) string {
	return fmt.Sprintf("Whisky with id %d not found in the system.", id)
}

func stockExceeded(id int64, direction string, amount int32) string {
	if direction == "decrement" {
		return fmt.Sprintf("Whisky with %d ID to decrement informed exceeds the available stock: %d", id, amount)
	}
	return fmt.Sprintf("Whisky with %d ID to increment informed exceeds the max stock capacity: %d", id, amount)
}
