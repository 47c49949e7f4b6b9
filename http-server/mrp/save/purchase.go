package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/mrp"
	"aps-backend/internal/planning"
)

type SuggestionAcceptor interface {
	AcceptSuggestion(ctx context.Context, materialID string, shortageDate time.Time) (mrp.Suggestion, error)
}

type Request struct {
	MaterialID string `json:"material_id"`
	Date       string `json:"date"` // shortage date, 2006-01-02
}

type Response struct {
	Suggestion *mrp.Suggestion `json:"suggestion,omitempty"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
}

// AcceptSuggestion books the purchase advice for one shortage: the
// suggested quantity is added to the material's on-order amount.
func AcceptSuggestion(log *slog.Logger, acceptor SuggestionAcceptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.mrp.save.AcceptSuggestion"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		suggestion, err := acceptor.AcceptSuggestion(ctx, req.MaterialID, date)
		if err != nil {
			var verr *planning.ValidationError
			if errors.As(err, &verr) {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Status: "rejected", Error: verr.Error()})
				return
			}
			log.Error("failed to accept suggestion", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{
			Suggestion: &suggestion,
			Status:     "accepted",
		})
	}
}
