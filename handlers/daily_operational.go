package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"p9e.in/teleops/config"
	"p9e.in/teleops/models"
	"p9e.in/teleops/pkg/dailyops"
)

const reportDateLayout = "2006-01-02"

// parseReportDate resolves the optional date query parameter. A missing or
// unparseable value falls back to today rather than erroring.
func parseReportDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	t, err := time.ParseInLocation(reportDateLayout, raw, time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

// GetDailyOperationalReport serves the per-OPMC daily operations summary.
// The report is all-or-nothing: any data-access failure yields an opaque 500
// with no partial rows.
func GetDailyOperationalReport(w http.ResponseWriter, r *http.Request) {
	day := parseReportDate(r.URL.Query().Get("date"))

	rows, err := dailyops.NewService(config.DB).Generate(day)
	if err != nil {
		log.Printf("daily operational report failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to generate report"})
		return
	}

	response := struct {
		ReportData []models.DailyReportRow `json:"reportData"`
		Date       string                  `json:"date"`
	}{
		ReportData: rows,
		Date:       day.Format(reportDateLayout),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
