package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"aps-backend/internal/storage/mysql"
)

type StockAdjuster interface {
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error
}

type Request struct {
	Mode     string          `json:"mode"` // "in" or "out"
	Quantity decimal.Decimal `json:"quantity"`
}

// StockOperation books a stock-in or stock-out against a material.
func StockOperation(log *slog.Logger, adjuster StockAdjuster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.materials.update.StockOperation"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		materialID := chi.URLParam(r, "id")

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if !req.Quantity.IsPositive() {
			http.Error(w, "Quantity must be positive", http.StatusBadRequest)
			return
		}

		delta := req.Quantity
		switch req.Mode {
		case "in":
		case "out":
			delta = delta.Neg()
		default:
			http.Error(w, "Mode must be in or out", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := adjuster.AdjustStock(ctx, materialID, delta); err != nil {
			switch {
			case errors.Is(err, mysql.ErrMaterialNotFound):
				http.Error(w, "Material not found", http.StatusNotFound)
			case errors.Is(err, mysql.ErrInsufficientStock):
				http.Error(w, "Insufficient stock", http.StatusConflict)
			default:
				log.Error("stock operation failed", slog.String("error", err.Error()))
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
