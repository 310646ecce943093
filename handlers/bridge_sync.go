package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"p9e.in/teleops/config"
	"p9e.in/teleops/models"
)

// BridgeSyncRow is one already-parsed order row pushed by the browser
// extension bridge. Timestamps arrive in whatever format the upstream pages
// render, hence JSONTime.
type BridgeSyncRow struct {
	SltOrderID     string               `json:"sltOrderId"`
	Rtom           string               `json:"rtom"`
	OrderType      string               `json:"orderType"`
	SltsStatus     string               `json:"sltsStatus"`
	ReceivedDate   *models.JSONTime     `json:"receivedDate,omitempty"`
	CompletedDate  *models.JSONTime     `json:"completedDate,omitempty"`
	StatusDate     *models.JSONTime     `json:"statusDate,omitempty"`
	DelayReasons   *models.DelayReasons `json:"delayReasons,omitempty"`
	StbShortage    bool                 `json:"stbShortage"`
	OntShortage    bool                 `json:"ontShortage"`
	MaterialSource string               `json:"materialSource,omitempty"`
	Raw            json.RawMessage      `json:"raw,omitempty"`
}

type bridgeSyncRequest struct {
	Rows []BridgeSyncRow `json:"rows"`
}

type bridgeSyncResult struct {
	Created      int `json:"created"`
	Updated      int `json:"updated"`
	StatusEvents int `json:"statusEvents"`
}

// BridgeSync reconciles scraped order rows into the database. Rows are keyed
// by the upstream order number: unknown orders are created, known ones
// updated, and every observed status transition is appended to the order's
// history. Parsing of the scraped pages happens in the extension, not here.
func BridgeSync(w http.ResponseWriter, r *http.Request) {
	var req bridgeSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Rows) == 0 {
		http.Error(w, "no rows to sync", http.StatusBadRequest)
		return
	}

	var result bridgeSyncResult
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res, err := applyBridgeRows(tx, req.Rows)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		http.Error(w, "failed to sync orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func applyBridgeRows(tx *gorm.DB, rows []BridgeSyncRow) (bridgeSyncResult, error) {
	var result bridgeSyncResult

	// OPMC lookup by rtom; unknown rtoms fail the whole batch.
	var units []models.Opmc
	if err := tx.Find(&units).Error; err != nil {
		return result, err
	}
	unitsByRtom := make(map[string]models.Opmc, len(units))
	for _, u := range units {
		unitsByRtom[u.Rtom] = u
	}

	// Prior statuses, for transition detection.
	orderIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.SltOrderID)
	}
	var existing []models.ServiceOrder
	if err := tx.Select("id", "slt_order_id", "slts_status").
		Where("slt_order_id IN ?", orderIDs).
		Find(&existing).Error; err != nil {
		return result, err
	}
	priorStatus := make(map[string]string, len(existing))
	priorID := make(map[string]uuid.UUID, len(existing))
	for _, o := range existing {
		priorStatus[o.SltOrderID] = o.SltsStatus
		priorID[o.SltOrderID] = o.ID
	}

	for _, row := range rows {
		if row.SltOrderID == "" || row.Rtom == "" {
			return result, gorm.ErrInvalidData
		}
		unit, ok := unitsByRtom[row.Rtom]
		if !ok {
			return result, gorm.ErrRecordNotFound
		}

		order := models.ServiceOrder{
			OpmcID:      unit.ID,
			SltOrderID:  row.SltOrderID,
			OrderType:   row.OrderType,
			SltsStatus:  row.SltsStatus,
			StbShortage: row.StbShortage,
			OntShortage: row.OntShortage,
		}
		if row.ReceivedDate != nil {
			t := row.ReceivedDate.Time()
			order.ReceivedDate = &t
		}
		if row.CompletedDate != nil {
			t := row.CompletedDate.Time()
			order.CompletedDate = &t
		}
		if row.StatusDate != nil {
			t := row.StatusDate.Time()
			order.StatusDate = &t
		}
		if row.DelayReasons != nil {
			order.DelayReasons = *row.DelayReasons
		}
		if row.MaterialSource != "" {
			order.MaterialSource = row.MaterialSource
		}
		if len(row.Raw) > 0 {
			order.RawAttributes = datatypes.JSON(row.Raw)
		}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slt_order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_type", "slts_status", "received_date", "completed_date",
				"status_date", "delay_reasons", "stb_shortage", "ont_shortage",
				"material_source", "raw_attributes", "updated_at",
			}),
		}).Create(&order).Error
		if err != nil {
			return result, err
		}

		prior, existed := priorStatus[row.SltOrderID]
		if existed {
			result.Updated++
			// conflict-update path does not report the row's id back
			order.ID = priorID[row.SltOrderID]
		} else {
			result.Created++
		}

		// Append a history event for the first sighting and for every
		// status transition; repeated pushes of the same status are not
		// re-recorded.
		if !existed || prior != row.SltsStatus {
			statusDate := time.Now()
			if row.StatusDate != nil {
				statusDate = row.StatusDate.Time()
			}
			entry := models.StatusHistoryEntry{
				ServiceOrderID: order.ID,
				Status:         row.SltsStatus,
				StatusDate:     statusDate,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return result, err
			}
			result.StatusEvents++
		}
	}
	return result, nil
}
