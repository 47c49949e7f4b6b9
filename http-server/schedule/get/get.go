package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/events"
	"aps-backend/internal/service"
)

type FeedProvider interface {
	Feed(ctx context.Context) (*service.ScheduleFeed, error)
	Events() []events.Event
}

// GetSchedule is the visualization feed: per-line timelines ordered by
// start time plus the pending and scheduled order panels.
func GetSchedule(log *slog.Logger, provider FeedProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.get.GetSchedule"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		feed, err := provider.Feed(ctx)
		if err != nil {
			log.Error("failed to build schedule feed", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, feed)
	}
}

// GetEvents returns the committed-placement event log for pollers.
func GetEvents(log *slog.Logger, provider FeedProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, provider.Events())
	}
}
