package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"p9e.in/teleops/handlers"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", handlers.Healthz).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// OPMC directory
	registerCRUDRoutes(api, "/opmcs", crudHandlers{
		getAll: handlers.GetAllOpmcs,
		create: handlers.CreateOpmc,
		getOne: handlers.GetOpmc,
		update: handlers.UpdateOpmc,
		delete: handlers.DeleteOpmc,
	})

	// Service orders
	registerCRUDRoutes(api, "/orders", crudHandlers{
		getAll: handlers.GetAllServiceOrders,
		create: handlers.CreateServiceOrder,
		getOne: handlers.GetServiceOrder,
		update: handlers.UpdateServiceOrder,
		delete: handlers.DeleteServiceOrder,
		batch:  handlers.BatchServiceOrders,
	})

	// Bridge extension sync
	api.HandleFunc("/bridge/sync", handlers.BridgeSync).Methods("POST")

	RegisterReportRoutes(api)

	return r
}

type crudHandlers struct {
	getAll func(http.ResponseWriter, *http.Request)
	create func(http.ResponseWriter, *http.Request)
	getOne func(http.ResponseWriter, *http.Request)
	update func(http.ResponseWriter, *http.Request)
	delete func(http.ResponseWriter, *http.Request)
	batch  func(http.ResponseWriter, *http.Request)
}

// registerCRUDRoutes registers standard CRUD routes for a resource
func registerCRUDRoutes(router *mux.Router, path string, h crudHandlers) {
	router.HandleFunc(path, h.getAll).Methods("GET")
	router.HandleFunc(path, h.create).Methods("POST")
	router.HandleFunc(path+"/{id}", h.getOne).Methods("GET")
	router.HandleFunc(path+"/{id}", h.update).Methods("PUT")
	router.HandleFunc(path+"/{id}", h.delete).Methods("DELETE")
	if h.batch != nil {
		router.HandleFunc(path+"/batch", h.batch).Methods("POST")
	}
}
