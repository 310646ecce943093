package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"p9e.in/teleops/config"
	"p9e.in/teleops/models"
)

// GetAllOpmcs lists the OPMC directory, optionally filtered by region.
func GetAllOpmcs(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Model(&models.Opmc{})
	if region := r.URL.Query().Get("region"); region != "" {
		query = query.Where("region = ?", region)
	}

	var units []models.Opmc
	if err := query.Order("region, province, rtom").Find(&units).Error; err != nil {
		http.Error(w, "failed to fetch OPMCs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(units)
}

func CreateOpmc(w http.ResponseWriter, r *http.Request) {
	var item models.Opmc
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if item.Rtom == "" {
		http.Error(w, "rtom is required", http.StatusBadRequest)
		return
	}

	if err := config.DB.Create(&item).Error; err != nil {
		http.Error(w, "failed to create OPMC", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func GetOpmc(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var item models.Opmc
	result := config.DB.Where("id = ?", id).First(&item)
	if result.Error != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func UpdateOpmc(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var item models.Opmc
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
		http.Error(w, "failed to update OPMC", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func DeleteOpmc(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	result := config.DB.Where("id = ?", id).Delete(&models.Opmc{})
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
