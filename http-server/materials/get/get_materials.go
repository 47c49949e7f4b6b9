package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/storage"
)

type MaterialProvider interface {
	GetMaterials(ctx context.Context) ([]*storage.Material, error)
}

func GetMaterials(log *slog.Logger, provider MaterialProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.materials.get.GetMaterials"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		materials, err := provider.GetMaterials(ctx)
		if err != nil {
			log.Error("failed to list materials", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, materials)
	}
}
