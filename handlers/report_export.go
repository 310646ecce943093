package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"p9e.in/teleops/config"
	"p9e.in/teleops/models"
	"p9e.in/teleops/pkg/dailyops"
)

var dailyReportColumns = []string{
	"Region", "Province", "RTOM", "Regular Teams", "Teams Worked",
	"In Hand NC", "In Hand RL", "In Hand Data", "In Hand Total",
	"Received NC", "Received RL", "Received Data", "Received Total",
	"Total In Hand",
	"Comp Create", "Comp Recon", "Comp Upgrade", "Comp FNC", "Comp OR", "Comp ML", "Comp FRL", "Comp Data", "Comp Total",
	"DW SLT", "DW Company", "DW Total", "Pole 5.6", "Pole 6.7", "Pole 8.0",
	"Returned NC", "Returned RL", "Returned Data", "Returned Total",
	"Wired NC", "Wired RL", "Wired Data", "Wired Total",
	"ONT Short", "STB Short", "Nokia", "System", "OPMC", "CX Delay", "Same Day", "Pole Pending",
	"Balance NC", "Balance RL", "Balance Data", "Balance Total",
	"STB Shortage", "ONT Shortage",
}

func dailyReportCells(row models.DailyReportRow) []interface{} {
	return []interface{}{
		row.Region, row.Province, row.Rtom, row.RegularTeams, row.TeamsWorked,
		row.InHandMorning.NC, row.InHandMorning.RL, row.InHandMorning.Data, row.InHandMorning.Total,
		row.Received.NC, row.Received.RL, row.Received.Data, row.Received.Total,
		row.TotalInHand,
		row.Completed.Create, row.Completed.Recon, row.Completed.Upgrade, row.Completed.Fnc,
		row.Completed.Or, row.Completed.Ml, row.Completed.Frl, row.Completed.Data, row.Completed.Total,
		row.Material.DwSlt.String(), row.Material.DwCompany.String(), row.Material.Dw.String(),
		row.Material.Pole56.String(), row.Material.Pole67.String(), row.Material.Pole80.String(),
		row.Returned.NC, row.Returned.RL, row.Returned.Data, row.Returned.Total,
		row.WiredOnly.NC, row.WiredOnly.RL, row.WiredOnly.Data, row.WiredOnly.Total,
		row.Delays.OntShortage, row.Delays.StbShortage, row.Delays.Nokia, row.Delays.System,
		row.Delays.Opmc, row.Delays.CxDelay, row.Delays.SameDay, row.Delays.PolePending,
		row.Balance.NC, row.Balance.RL, row.Balance.Data, row.Balance.Total,
		row.Shortages.Stb, row.Shortages.Ont,
	}
}

// ExportDailyOperationalReport serves the daily report as a downloadable
// xlsx sheet (default) or CSV, same rows as the JSON endpoint.
func ExportDailyOperationalReport(w http.ResponseWriter, r *http.Request) {
	day := parseReportDate(r.URL.Query().Get("date"))

	rows, err := dailyops.NewService(config.DB).Generate(day)
	if err != nil {
		log.Printf("daily operational export failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to generate report"})
		return
	}

	dateStr := day.Format(reportDateLayout)
	if r.URL.Query().Get("format") == "csv" {
		csvData, err := dailyReportCSV(rows)
		if err != nil {
			http.Error(w, "Failed to generate CSV file", http.StatusInternalServerError)
			return
		}
		filename := fmt.Sprintf("daily_operational_%s.csv", dateStr)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(csvData)))
		w.WriteHeader(http.StatusOK)
		w.Write(csvData)
		return
	}

	excelFile, err := dailyReportExcel(dateStr, rows)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := excelFile.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("daily_operational_%s.xlsx", dateStr)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// dailyReportExcel lays the report out as a single styled sheet: title,
// generation timestamp, header row, then one row per OPMC.
func dailyReportExcel(dateStr string, rows []models.DailyReportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Daily Operations"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Daily Operational Report — %s", dateStr))
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	for colIdx, header := range dailyReportColumns {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range dailyReportCells(row) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return f, nil
}

// dailyReportCSV renders the same rows as CSV.
func dailyReportCSV(rows []models.DailyReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(dailyReportColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := make([]string, 0, len(dailyReportColumns))
		for _, value := range dailyReportCells(row) {
			record = append(record, fmt.Sprintf("%v", value))
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
