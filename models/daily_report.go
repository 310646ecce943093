package models

import "github.com/shopspring/decimal"

// CategoryCounts buckets order counts by the nc/rl/data category split.
type CategoryCounts struct {
	NC    int `json:"nc"`
	RL    int `json:"rl"`
	Data  int `json:"data"`
	Total int `json:"total"`
}

// CompletedCounts buckets today's INSTALL_CLOSED orders by the finer
// completion split. Fnc, Frl and Data are carried in the schema and in the
// balance formulas even though the current classification never fills them.
type CompletedCounts struct {
	Create  int `json:"create"`
	Recon   int `json:"recon"`
	Upgrade int `json:"upgrade"`
	Fnc     int `json:"fnc"`
	Or      int `json:"or"`
	Ml      int `json:"ml"`
	Frl     int `json:"frl"`
	Data    int `json:"data"`
	Total   int `json:"total"`
}

// MaterialTotals accumulates consumable quantities for the day.
type MaterialTotals struct {
	DwSlt     decimal.Decimal `json:"dwSlt"`
	DwCompany decimal.Decimal `json:"dwCompany"`
	Dw        decimal.Decimal `json:"dw"`
	Pole56    decimal.Decimal `json:"pole56"`
	Pole67    decimal.Decimal `json:"pole67"`
	Pole80    decimal.Decimal `json:"pole80"`
}

// DelayCounts tallies orders per delay reason. Counters are independent,
// one order can contribute to several.
type DelayCounts struct {
	OntShortage int `json:"ontShortage"`
	StbShortage int `json:"stbShortage"`
	Nokia       int `json:"nokia"`
	System      int `json:"system"`
	Opmc        int `json:"opmc"`
	CxDelay     int `json:"cxDelay"`
	SameDay     int `json:"sameDay"`
	PolePending int `json:"polePending"`
}

// ShortageCounts are plain counts of orders flagged short of equipment.
type ShortageCounts struct {
	Stb int `json:"stb"`
	Ont int `json:"ont"`
}

// DailyReportRow is one OPMC's line in the daily operational report.
// Built fresh on every report run, never persisted.
type DailyReportRow struct {
	Region        string          `json:"region"`
	Province      string          `json:"province"`
	Rtom          string          `json:"rtom"`
	RegularTeams  int             `json:"regularTeams"`
	TeamsWorked   int             `json:"teamsWorked"`
	InHandMorning CategoryCounts  `json:"inHandMorning"`
	Received      CategoryCounts  `json:"received"`
	TotalInHand   int             `json:"totalInHand"`
	Completed     CompletedCounts `json:"completed"`
	Material      MaterialTotals  `json:"material"`
	Returned      CategoryCounts  `json:"returned"`
	WiredOnly     CategoryCounts  `json:"wiredOnly"`
	Delays        DelayCounts     `json:"delays"`
	Balance       CategoryCounts  `json:"balance"`
	Shortages     ShortageCounts  `json:"shortages"`
}
