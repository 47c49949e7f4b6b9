package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/mrp"
	"aps-backend/internal/storage"
)

type Projector interface {
	RunProjection(ctx context.Context) (mrp.Result, []*storage.Material, error)
}

type Response struct {
	Points    []mrp.ProjectionPoint `json:"points"`
	Shortages []mrp.Shortage        `json:"shortages"`
	Materials []*storage.Material   `json:"materials"`
	Error     string                `json:"error,omitempty"`
}

// RunProjection recomputes the day-by-day material projection from the
// current schedule snapshot. Shortages are first-class output here, not
// failures.
func RunProjection(log *slog.Logger, projector Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.mrp.get.RunProjection"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, materials, err := projector.RunProjection(ctx)
		if err != nil {
			log.Error("projection failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "projection failed"})
			return
		}

		render.JSON(w, r, Response{
			Points:    result.Points,
			Shortages: result.Shortages,
			Materials: materials,
		})
	}
}
