package routes

import (
	"github.com/gorilla/mux"

	"p9e.in/teleops/handlers"
)

// RegisterReportRoutes registers the reporting endpoints
func RegisterReportRoutes(api *mux.Router) {
	reports := api.PathPrefix("/reports").Subrouter()

	reports.HandleFunc("/daily-operational", handlers.GetDailyOperationalReport).Methods("GET")
	reports.HandleFunc("/daily-operational/export", handlers.ExportDailyOperationalReport).Methods("GET")
}
