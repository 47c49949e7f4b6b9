package run

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/planning"
)

type BulkScheduler interface {
	BulkSchedule(ctx context.Context) (planning.ScheduleResult, error)
}

type Response struct {
	Assigned   []planning.Assignment `json:"assigned"`
	Infeasible []planning.Infeasible `json:"infeasible"`
	Error      string                `json:"error,omitempty"`
}

// RunScheduler triggers the bulk heuristic pass over all ready orders.
// Infeasible orders come back in the result, they are not errors.
func RunScheduler(log *slog.Logger, scheduler BulkScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.run.RunScheduler"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		result, err := scheduler.BulkSchedule(ctx)
		if err != nil {
			log.Error("bulk scheduling failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "bulk scheduling failed"})
			return
		}

		log.Info("bulk scheduling finished",
			slog.Int("assigned", len(result.Assigned)),
			slog.Int("infeasible", len(result.Infeasible)),
		)

		render.JSON(w, r, Response{
			Assigned:   result.Assigned,
			Infeasible: result.Infeasible,
		})
	}
}
