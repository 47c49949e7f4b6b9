package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/planning"
	"aps-backend/internal/storage"
)

type OrderSaver interface {
	SaveOrder(ctx context.Context, o *storage.Order) (int, error)
}

type Request struct {
	OrderNum     string `json:"order_num"`
	Product      string `json:"product"`
	Quantity     int    `json:"quantity"`
	DueDate      string `json:"due_date"` // 2006-01-02
	CustomerTier string `json:"customer_tier"`
}

type Response struct {
	ID       int    `json:"id"`
	Priority int    `json:"priority"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// SaveOrder is the intake endpoint: validates, computes the priority score
// and creates the order in status new.
func SaveOrder(log *slog.Logger, saver OrderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.save.SaveOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		order, verr := buildOrder(req, time.Now())
		if verr != nil {
			log.Error("intake validation failed", slog.String("error", verr.Error()))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{Error: verr.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveOrder(ctx, order)
		if err != nil {
			log.Error("failed to save order", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{
			ID:       id,
			Priority: order.Priority,
			Status:   order.Status,
		})
	}
}

func buildOrder(req Request, now time.Time) (*storage.Order, error) {
	if req.OrderNum == "" {
		return nil, &planning.ValidationError{Field: "order_num", Reason: "must not be empty"}
	}
	if req.Quantity <= 0 {
		return nil, &planning.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if !storage.KnownTier(req.CustomerTier) {
		return nil, &planning.ValidationError{Field: "customer_tier", Reason: "must be A, B or C"}
	}

	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, &planning.ValidationError{Field: "due_date", Reason: "expected YYYY-MM-DD"}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if due.Before(today) {
		return nil, &planning.ValidationError{Field: "due_date", Reason: "before today"}
	}

	order := &storage.Order{
		OrderNum:     req.OrderNum,
		Product:      req.Product,
		Quantity:     req.Quantity,
		DueDate:      due,
		CustomerTier: req.CustomerTier,
		Status:       storage.StatusNew,
	}
	order.Priority = planning.Score(*order, now)

	return order, nil
}
