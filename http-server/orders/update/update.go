package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/planning"
	"aps-backend/internal/storage"
	"aps-backend/internal/storage/mysql"
)

type OrderUpdater interface {
	GetOrder(ctx context.Context, id int) (*storage.Order, error)
	UpdateOrder(ctx context.Context, o *storage.Order) error
}

// StatusUpdater transitions the order lifecycle. Served by the planning
// service, not raw storage: leaving the scheduled status must also drop the
// order's task from the timeline.
type StatusUpdater interface {
	GetOrder(ctx context.Context, id int) (*storage.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) error
}

type Request struct {
	Product      string `json:"product"`
	Quantity     int    `json:"quantity"`
	DueDate      string `json:"due_date"`
	CustomerTier string `json:"customer_tier"`
}

type Response struct {
	Order *storage.Order `json:"order,omitempty"`
	Error string         `json:"error,omitempty"`
}

// UpdateOrder edits the mutable attributes and recomputes the priority
// score for the new due date / tier / quantity.
func UpdateOrder(log *slog.Logger, updater OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.update.UpdateOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := updater.GetOrder(ctx, id)
		if err != nil {
			if errors.Is(err, mysql.ErrOrderNotFound) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load order", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if verr := applyChanges(order, req, time.Now()); verr != nil {
			log.Error("update validation failed", slog.String("error", verr.Error()))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{Error: verr.Error()})
			return
		}

		if err := updater.UpdateOrder(ctx, order); err != nil {
			log.Error("failed to update order", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Order: order})
	}
}

type StatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order through its lifecycle. Forward steps
// only, except the manual reversions approved->new and ready->approved.
func UpdateOrderStatus(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.update.UpdateOrderStatus"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		var req StatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := updater.GetOrder(ctx, id)
		if err != nil {
			if errors.Is(err, mysql.ErrOrderNotFound) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load order", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if !storage.ValidTransition(order.Status, req.Status) {
			log.Error("invalid status transition",
				slog.String("from", order.Status),
				slog.String("to", req.Status),
			)
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{Error: "invalid transition " + order.Status + " -> " + req.Status})
			return
		}

		if err := updater.UpdateOrderStatus(ctx, id, req.Status); err != nil {
			log.Error("failed to update status", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		order.Status = req.Status
		render.JSON(w, r, Response{Order: order})
	}
}

func applyChanges(order *storage.Order, req Request, now time.Time) error {
	if req.Quantity <= 0 {
		return &planning.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if !storage.KnownTier(req.CustomerTier) {
		return &planning.ValidationError{Field: "customer_tier", Reason: "must be A, B or C"}
	}

	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return &planning.ValidationError{Field: "due_date", Reason: "expected YYYY-MM-DD"}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if due.Before(today) {
		return &planning.ValidationError{Field: "due_date", Reason: "before today"}
	}

	if req.Product != "" {
		order.Product = req.Product
	}
	order.Quantity = req.Quantity
	order.DueDate = due
	order.CustomerTier = req.CustomerTier
	order.Priority = planning.Score(*order, now)

	return nil
}
