package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"p9e.in/teleops/config"
	"p9e.in/teleops/models"
)

// GetAllServiceOrders lists service orders with pagination and the common
// rtom/status/date filters.
func GetAllServiceOrders(w http.ResponseWriter, r *http.Request) {
	params, err := models.ParseListParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var total int64
	countQuery := params.Apply(config.DB.Model(&models.ServiceOrder{})).Offset(-1).Limit(-1)
	if err := countQuery.Count(&total).Error; err != nil {
		http.Error(w, "failed to count orders", http.StatusInternalServerError)
		return
	}

	var orders []models.ServiceOrder
	query := params.Apply(config.DB.Model(&models.ServiceOrder{})).
		Preload("StatusHistory").
		Preload("MaterialUsage").
		Order("service_orders.created_at DESC")
	if err := query.Find(&orders).Error; err != nil {
		http.Error(w, "failed to fetch orders", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data":     orders,
		"page":     params.Page,
		"pageSize": params.PageSize,
		"total":    total,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func CreateServiceOrder(w http.ResponseWriter, r *http.Request) {
	var item models.ServiceOrder
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if item.SltOrderID == "" {
		http.Error(w, "sltOrderId is required", http.StatusBadRequest)
		return
	}

	if err := config.DB.Create(&item).Error; err != nil {
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func GetServiceOrder(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var item models.ServiceOrder
	result := config.DB.
		Preload("StatusHistory").
		Preload("MaterialUsage").
		Where("id = ?", id).
		First(&item)
	if result.Error != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func UpdateServiceOrder(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var item models.ServiceOrder
	result := config.DB.Where("id = ?", id).First(&item)
	if result.Error != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := config.DB.Save(&item).Error; err != nil {
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func DeleteServiceOrder(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	result := config.DB.Where("id = ?", id).Delete(&models.ServiceOrder{})
	if result.Error != nil {
		http.Error(w, "failed to delete record", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchServiceOrders creates several orders in one transaction; all-or-nothing.
func BatchServiceOrders(w http.ResponseWriter, r *http.Request) {
	var items []models.ServiceOrder
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(items) == 0 {
		http.Error(w, "empty batch", http.StatusBadRequest)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		http.Error(w, "failed to create orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"created": len(items), "data": items})
}
