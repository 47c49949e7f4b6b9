package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getmaterials "aps-backend/http-server/materials/get"
	upmaterials "aps-backend/http-server/materials/update"
	getmrp "aps-backend/http-server/mrp/get"
	savemrp "aps-backend/http-server/mrp/save"
	delorders "aps-backend/http-server/orders/delete"
	getorders "aps-backend/http-server/orders/get"
	saveorders "aps-backend/http-server/orders/save"
	uporders "aps-backend/http-server/orders/update"
	editschedule "aps-backend/http-server/schedule/edit"
	getschedule "aps-backend/http-server/schedule/get"
	runschedule "aps-backend/http-server/schedule/run"
	"aps-backend/internal/service"
	"aps-backend/internal/storage/mysql"
)

func routes(log *slog.Logger, storage *mysql.Storage, planning *service.PlanningService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Order intake
	router.Get("/api/orders", getorders.GetOrders(log, storage))
	router.Post("/api/orders", saveorders.SaveOrder(log, storage))
	router.Put("/api/orders/{id}", uporders.UpdateOrder(log, storage))
	// Status transitions and deletes go through the planning service: an
	// order leaving "scheduled" must take its task off the timeline with it.
	router.Post("/api/orders/{id}/status", uporders.UpdateOrderStatus(log, planning))
	router.Delete("/api/orders/{id}", delorders.DeleteOrder(log, planning))

	// Materials / inventory
	router.Get("/api/materials", getmaterials.GetMaterials(log, storage))
	router.Post("/api/materials/{id}/stock", upmaterials.StockOperation(log, storage))

	// Scheduling: bulk pass, visualization feed, interactive commands
	router.Post("/api/schedule/run", runschedule.RunScheduler(log, planning))
	router.Get("/api/schedule", getschedule.GetSchedule(log, planning))
	router.Get("/api/schedule/events", getschedule.GetEvents(log, planning))
	router.Post("/api/schedule/place", editschedule.RequestPlace(log, planning))
	router.Post("/api/schedule/move", editschedule.RequestMove(log, planning))
	router.Post("/api/schedule/remove", editschedule.RequestRemove(log, planning))

	// MRP projection and purchase suggestions
	router.Get("/api/mrp", getmrp.RunProjection(log, planning))
	router.Post("/api/mrp/purchase", savemrp.AcceptSuggestion(log, planning))

	return router
}
