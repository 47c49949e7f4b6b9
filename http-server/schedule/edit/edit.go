package edit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aps-backend/internal/planning"
	"aps-backend/internal/storage"
)

type ScheduleEditor interface {
	RequestPlace(ctx context.Context, orderID int, resourceID string, rawStart float64) (storage.Task, error)
	RequestMove(ctx context.Context, taskID, resourceID string, rawStart float64) (storage.Task, error)
	RequestRemove(ctx context.Context, taskID string) error
}

type PlaceRequest struct {
	OrderID  int     `json:"order_id"`
	Resource string  `json:"resource"`
	Start    float64 `json:"start"`
}

type MoveRequest struct {
	TaskID   string  `json:"task_id"`
	Resource string  `json:"resource"`
	Start    float64 `json:"start"`
}

type RemoveRequest struct {
	TaskID string `json:"task_id"`
}

type Response struct {
	Task   *storage.Task `json:"task,omitempty"`
	Status string        `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// RequestPlace drops an unscheduled order onto the grid. The raw start is
// quantized server-side; a collision rejects the whole proposal.
func RequestPlace(log *slog.Logger, editor ScheduleEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.edit.RequestPlace"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req PlaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		task, err := editor.RequestPlace(ctx, req.OrderID, req.Resource, req.Start)
		if err != nil {
			writeEditError(w, r, log, err)
			return
		}

		render.JSON(w, r, Response{Task: &task, Status: "accepted"})
	}
}

func RequestMove(log *slog.Logger, editor ScheduleEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.edit.RequestMove"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req MoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		task, err := editor.RequestMove(ctx, req.TaskID, req.Resource, req.Start)
		if err != nil {
			writeEditError(w, r, log, err)
			return
		}

		render.JSON(w, r, Response{Task: &task, Status: "accepted"})
	}
}

func RequestRemove(log *slog.Logger, editor ScheduleEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.edit.RequestRemove"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req RemoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := editor.RequestRemove(ctx, req.TaskID); err != nil {
			writeEditError(w, r, log, err)
			return
		}

		render.JSON(w, r, Response{Status: "removed"})
	}
}

// writeEditError maps the domain taxonomy: malformed input -> 400,
// overlapping placement -> 409 with the conflict detail, anything else is
// an internal error. Rejections always carry a reason — no silent failures.
func writeEditError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *planning.ValidationError
	var cerr *planning.ConflictError

	switch {
	case errors.As(err, &verr):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, Response{Status: "rejected", Reason: verr.Error()})
	case errors.As(err, &cerr):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, Response{Status: "rejected", Reason: cerr.Error()})
	default:
		log.Error("edit command failed", slog.String("error", err.Error()))
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
