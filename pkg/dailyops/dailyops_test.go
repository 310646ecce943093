package dailyops

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"p9e.in/teleops/models"
)

var testDay = time.Date(2024, 6, 12, 10, 30, 0, 0, time.Local)

func tp(t time.Time) *time.Time { return &t }

func mkUnit(rtom string, orders ...models.ServiceOrder) models.Opmc {
	return models.Opmc{
		Region:        "Region 1 - Metro",
		Province:      "Western",
		Rtom:          rtom,
		RegularTeams:  12,
		ServiceOrders: orders,
	}
}

func historyToday(statuses ...string) []models.StatusHistoryEntry {
	entries := make([]models.StatusHistoryEntry, 0, len(statuses))
	for _, s := range statuses {
		entries = append(entries, models.StatusHistoryEntry{Status: s, StatusDate: testDay})
	}
	return entries
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		orderType string
		expected  Category
	}{
		{"CREATE", CategoryNC},
		{"create", CategoryNC},
		{"CREATE-FTTH", CategoryNC},
		{"AB-CREATE-CD", CategoryNC},
		{"CREATE-OR", CategoryRL},
		{"CREATE-OR-MODIFY", CategoryRL},
		{"MODIFY-LOCATION", CategoryRL},
		{"MODIFY LOCATION", CategoryRL},
		{"modify location", CategoryRL},
		{"DATA-UPGRADE", CategoryData},
		{"RECON", CategoryData},
		{"", CategoryData},
		{"TRANSFER", CategoryData},
	}

	for _, tt := range tests {
		t.Run(tt.orderType, func(t *testing.T) {
			if got := Categorize(tt.orderType); got != tt.expected {
				t.Errorf("Categorize(%q) = %v, expected %v", tt.orderType, got, tt.expected)
			}
		})
	}
}

// Every order type lands in exactly one category: bump adds one to exactly one
// bucket and one to the total, so bucket sums always equal the total.
func TestCategorizePartition(t *testing.T) {
	orderTypes := []string{
		"CREATE", "CREATE-OR", "MODIFY-LOCATION", "MODIFY LOCATION",
		"RECON", "UPGRD-SPEED", "DATA", "", "ANYTHING ELSE",
	}
	var counts models.CategoryCounts
	for _, ot := range orderTypes {
		bump(&counts, Categorize(ot))
	}
	if counts.NC+counts.RL+counts.Data != counts.Total {
		t.Errorf("buckets %d+%d+%d do not sum to total %d",
			counts.NC, counts.RL, counts.Data, counts.Total)
	}
	if counts.Total != len(orderTypes) {
		t.Errorf("total = %d, expected %d", counts.Total, len(orderTypes))
	}
}

func TestDayWindowBounds(t *testing.T) {
	win := DayWindow(testDay)

	tests := []struct {
		name     string
		at       time.Time
		expected bool
	}{
		{"exactly start of day", win.Start, true},
		{"exactly end of day", win.End, true},
		{"nanosecond before start", win.Start.Add(-time.Nanosecond), false},
		{"nanosecond after end", win.End.Add(time.Nanosecond), false},
		{"midday", testDay, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := win.Contains(tt.at); got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.at, got, tt.expected)
			}
		})
	}
}

func TestAggregateUnitReceivedToday(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:    "CREATE",
		ReceivedDate: tp(testDay),
		CreatedAt:    testDay.AddDate(0, 0, -3),
	})
	backlog := models.CategoryCounts{NC: 4, RL: 1, Data: 2, Total: 7}

	row := AggregateUnit(unit, backlog, win)

	if row.Received.NC != 1 || row.Received.Total != 1 {
		t.Errorf("received = %+v, expected nc=1 total=1", row.Received)
	}
	if row.Completed.Total != 0 {
		t.Errorf("completed.total = %d, expected 0", row.Completed.Total)
	}
	if row.Balance.NC != backlog.NC+1 {
		t.Errorf("balance.nc = %d, expected %d", row.Balance.NC, backlog.NC+1)
	}
	if row.TotalInHand != backlog.Total+1 {
		t.Errorf("totalInHand = %d, expected %d", row.TotalInHand, backlog.Total+1)
	}
}

// receivedDate falls back to createdAt when absent.
func TestAggregateUnitReceivedFallsBackToCreatedAt(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType: "CREATE",
		CreatedAt: testDay,
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.Received.NC != 1 || row.Received.Total != 1 {
		t.Errorf("received = %+v, expected nc=1 total=1", row.Received)
	}
}

func TestAggregateUnitReceivedBoundary(t *testing.T) {
	win := DayWindow(testDay)
	tests := []struct {
		name     string
		received time.Time
		expected int
	}{
		{"at start of day", win.Start, 1},
		{"at end of day", win.End, 1},
		{"previous day", win.Start.Add(-time.Nanosecond), 0},
		{"next day", win.End.Add(time.Nanosecond), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := mkUnit("R-AD", models.ServiceOrder{
				OrderType:    "CREATE",
				ReceivedDate: tp(tt.received),
				CreatedAt:    testDay.AddDate(0, 0, -10),
			})
			row := AggregateUnit(unit, models.CategoryCounts{}, win)
			if row.Received.Total != tt.expected {
				t.Errorf("received.total = %d, expected %d", row.Received.Total, tt.expected)
			}
		})
	}
}

func TestAggregateUnitCompletedModifyLocation(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:     "MODIFY-LOCATION",
		CreatedAt:     testDay.AddDate(0, 0, -5),
		StatusHistory: historyToday(models.StatusInstallClosed),
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.Completed.Ml != 1 || row.Completed.Total != 1 {
		t.Errorf("completed = %+v, expected ml=1 total=1", row.Completed)
	}
}

func TestCompletionSubtypes(t *testing.T) {
	tests := []struct {
		orderType string
		check     func(c models.CompletedCounts) bool
		bucket    string
	}{
		{"CREATE", func(c models.CompletedCounts) bool { return c.Create == 1 }, "create"},
		{"CREATE-FTTH", func(c models.CompletedCounts) bool { return c.Create == 1 }, "create"},
		{"RECON", func(c models.CompletedCounts) bool { return c.Recon == 1 }, "recon"},
		{"CREATE-RECON", func(c models.CompletedCounts) bool { return c.Recon == 1 }, "recon"},
		{"UPGRD-SPEED", func(c models.CompletedCounts) bool { return c.Upgrade == 1 }, "upgrade"},
		{"DATA-UPGRADE", func(c models.CompletedCounts) bool { return c.Upgrade == 1 }, "upgrade"},
		{"CREATE-OR", func(c models.CompletedCounts) bool { return c.Or == 1 }, "or"},
		{"MODIFY-LOCATION", func(c models.CompletedCounts) bool { return c.Ml == 1 }, "ml"},
		{"MODIFY LOCATION", func(c models.CompletedCounts) bool { return c.Ml == 1 }, "ml"},
		// no sub-bucket matches, the total still counts the order
		{"TRANSFER", func(c models.CompletedCounts) bool {
			return c.Create+c.Recon+c.Upgrade+c.Or+c.Ml == 0
		}, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.orderType, func(t *testing.T) {
			var c models.CompletedCounts
			addCompletion(&c, tt.orderType)
			if c.Total != 1 {
				t.Errorf("total = %d, expected 1", c.Total)
			}
			if !tt.check(c) {
				t.Errorf("completion of %q did not land in %s bucket: %+v", tt.orderType, tt.bucket, c)
			}
		})
	}
}

// fnc, frl and data have no producing branch; they stay zero no matter what
// completes. The balance formulas still reference them, so this pins the
// current behavior rather than papering over it.
func TestCompletedLegacyBucketsStayZero(t *testing.T) {
	win := DayWindow(testDay)
	orderTypes := []string{"CREATE", "RECON", "UPGRD", "CREATE-OR", "MODIFY-LOCATION", "DATA", "TRANSFER"}

	orders := make([]models.ServiceOrder, 0, len(orderTypes))
	for _, ot := range orderTypes {
		orders = append(orders, models.ServiceOrder{
			OrderType:     ot,
			CreatedAt:     testDay.AddDate(0, 0, -2),
			StatusHistory: historyToday(models.StatusInstallClosed),
		})
	}

	row := AggregateUnit(mkUnit("R-AD", orders...), models.CategoryCounts{}, win)
	if row.Completed.Fnc != 0 || row.Completed.Frl != 0 || row.Completed.Data != 0 {
		t.Errorf("legacy completion buckets populated: %+v", row.Completed)
	}
	if row.Completed.Total != len(orderTypes) {
		t.Errorf("completed.total = %d, expected %d", row.Completed.Total, len(orderTypes))
	}
}

func TestAggregateUnitReturnedToday(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:  "CREATE",
		SltsStatus: models.SltsStatusReturn,
		StatusDate: tp(testDay),
		CreatedAt:  testDay.AddDate(0, 0, -1),
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.Returned.NC != 1 || row.Returned.Total != 1 {
		t.Errorf("returned = %+v, expected nc=1 total=1", row.Returned)
	}
}

func TestAggregateUnitReturnedOutsideWindowIgnored(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:  "CREATE",
		SltsStatus: models.SltsStatusReturn,
		StatusDate: tp(testDay.AddDate(0, 0, -2)),
		CreatedAt:  testDay.AddDate(0, 0, -5),
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.Returned.Total != 0 {
		t.Errorf("returned.total = %d, expected 0", row.Returned.Total)
	}
}

func TestAggregateUnitWiredOnly(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:     "MODIFY-LOCATION",
		CreatedAt:     testDay.AddDate(0, 0, -1),
		StatusHistory: historyToday(models.StatusProvClosed),
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.WiredOnly.RL != 1 || row.WiredOnly.Total != 1 {
		t.Errorf("wiredOnly = %+v, expected rl=1 total=1", row.WiredOnly)
	}
	if row.Completed.Total != 0 {
		t.Errorf("completed.total = %d, expected 0", row.Completed.Total)
	}
}

// Several events with the same status in one day complete the order once:
// membership, not a count.
func TestStatusMembershipNotCount(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType: "CREATE",
		CreatedAt: testDay.AddDate(0, 0, -1),
		StatusHistory: append(
			historyToday(models.StatusInstallClosed, models.StatusInstallClosed),
			models.StatusHistoryEntry{Status: models.StatusInstallClosed, StatusDate: testDay.AddDate(0, 0, -1)},
		),
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.Completed.Total != 1 {
		t.Errorf("completed.total = %d, expected 1", row.Completed.Total)
	}
}

func TestAggregateUnitMaterialDropWire(t *testing.T) {
	win := DayWindow(testDay)
	qty := decimal.RequireFromString("1.25")
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:      "CREATE",
		CreatedAt:      testDay,
		MaterialSource: models.MaterialSourceCompany,
		MaterialUsage: []models.MaterialUsage{
			// name also contains "5.6" but the drop-wire branch is checked first
			{ItemName: "Fiber Drop Wire 5.6", ItemCategory: "CABLES", Quantity: qty},
		},
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if !row.Material.DwCompany.Equal(qty) {
		t.Errorf("dwCompany = %s, expected %s", row.Material.DwCompany, qty)
	}
	if !row.Material.Dw.Equal(qty) {
		t.Errorf("dw = %s, expected %s", row.Material.Dw, qty)
	}
	if !row.Material.DwSlt.IsZero() {
		t.Errorf("dwSlt = %s, expected 0", row.Material.DwSlt)
	}
	if !row.Material.Pole56.IsZero() {
		t.Errorf("pole56 = %s, expected 0", row.Material.Pole56)
	}
}

func TestAggregateUnitMaterialPoles(t *testing.T) {
	win := DayWindow(testDay)
	one := decimal.NewFromInt(1)
	two := decimal.NewFromInt(2)
	three := decimal.NewFromInt(3)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType: "CREATE",
		CreatedAt: testDay,
		MaterialUsage: []models.MaterialUsage{
			{ItemName: "Concrete Pole 5.6m", ItemCategory: "POLES", Quantity: one},
			{ItemName: "Concrete Pole 6.7m", ItemCategory: "Poles", Quantity: two},
			{ItemName: "Concrete Pole 8.0m", ItemCategory: "POLES", Quantity: three},
			{ItemName: "Clamp", ItemCategory: "HARDWARE", Quantity: one},
		},
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if !row.Material.Pole56.Equal(one) || !row.Material.Pole67.Equal(two) || !row.Material.Pole80.Equal(three) {
		t.Errorf("poles = %s/%s/%s, expected 1/2/3",
			row.Material.Pole56, row.Material.Pole67, row.Material.Pole80)
	}
	if !row.Material.Dw.IsZero() {
		t.Errorf("dw = %s, expected 0", row.Material.Dw)
	}
}

// SLT-sourced drop wire by item code, with no recognizable name.
func TestAggregateUnitMaterialDropWireByCode(t *testing.T) {
	win := DayWindow(testDay)
	qty := decimal.RequireFromString("0.75")
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:      "CREATE",
		CreatedAt:      testDay,
		MaterialSource: models.MaterialSourceSLT,
		MaterialUsage: []models.MaterialUsage{
			{ItemCode: models.DropWireItemCode, ItemName: "FDW-2C", ItemCategory: "CABLES", Quantity: qty},
		},
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if !row.Material.DwSlt.Equal(qty) || !row.Material.Dw.Equal(qty) {
		t.Errorf("dwSlt/dw = %s/%s, expected %s/%s", row.Material.DwSlt, row.Material.Dw, qty, qty)
	}
	if !row.Material.DwCompany.IsZero() {
		t.Errorf("dwCompany = %s, expected 0", row.Material.DwCompany)
	}
}

func TestAggregateUnitDelayFlags(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD", models.ServiceOrder{
		OrderType:    "CREATE",
		CreatedAt:    testDay,
		DelayReasons: models.DelayReasons{OntShortage: true, Nokia: false},
	})

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.Delays.OntShortage != 1 {
		t.Errorf("delays.ontShortage = %d, expected 1", row.Delays.OntShortage)
	}
	rest := row.Delays.StbShortage + row.Delays.Nokia + row.Delays.System +
		row.Delays.Opmc + row.Delays.CxDelay + row.Delays.SameDay + row.Delays.PolePending
	if rest != 0 {
		t.Errorf("other delay counters = %+v, expected all zero", row.Delays)
	}
}

func TestAggregateUnitShortages(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD",
		models.ServiceOrder{OrderType: "CREATE", CreatedAt: testDay, StbShortage: true},
		models.ServiceOrder{OrderType: "CREATE", CreatedAt: testDay, OntShortage: true},
		models.ServiceOrder{OrderType: "CREATE", CreatedAt: testDay, StbShortage: true, OntShortage: true},
	)

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.Shortages.Stb != 2 || row.Shortages.Ont != 2 {
		t.Errorf("shortages = %+v, expected stb=2 ont=2", row.Shortages)
	}
}

func TestAggregateUnitTeamsWorked(t *testing.T) {
	win := DayWindow(testDay)
	teamA := uuid.New()
	teamB := uuid.New()
	unit := mkUnit("R-AD",
		models.ServiceOrder{OrderType: "CREATE", CreatedAt: testDay, TeamID: &teamA},
		models.ServiceOrder{OrderType: "CREATE", CreatedAt: testDay, TeamID: &teamA},
		models.ServiceOrder{OrderType: "RECON", CreatedAt: testDay, TeamID: &teamB},
		models.ServiceOrder{OrderType: "DATA", CreatedAt: testDay},
	)

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	if row.TeamsWorked != 2 {
		t.Errorf("teamsWorked = %d, expected 2", row.TeamsWorked)
	}
}

func TestAdditivity(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD",
		models.ServiceOrder{OrderType: "CREATE", ReceivedDate: tp(testDay), CreatedAt: testDay},
		models.ServiceOrder{OrderType: "CREATE-OR", ReceivedDate: tp(testDay), CreatedAt: testDay},
		models.ServiceOrder{OrderType: "DATA", ReceivedDate: tp(testDay), CreatedAt: testDay},
		models.ServiceOrder{
			OrderType:  "MODIFY-LOCATION",
			SltsStatus: models.SltsStatusReturn,
			StatusDate: tp(testDay),
			CreatedAt:  testDay.AddDate(0, 0, -1),
		},
		models.ServiceOrder{
			OrderType:     "RECON",
			CreatedAt:     testDay.AddDate(0, 0, -1),
			StatusHistory: historyToday(models.StatusProvClosed),
		},
	)

	row := AggregateUnit(unit, models.CategoryCounts{}, win)
	for _, c := range []struct {
		name   string
		counts models.CategoryCounts
	}{
		{"received", row.Received},
		{"returned", row.Returned},
		{"wiredOnly", row.WiredOnly},
	} {
		if c.counts.NC+c.counts.RL+c.counts.Data != c.counts.Total {
			t.Errorf("%s: %d+%d+%d != %d", c.name, c.counts.NC, c.counts.RL, c.counts.Data, c.counts.Total)
		}
	}
}

func TestBalanceArithmetic(t *testing.T) {
	win := DayWindow(testDay)
	unit := mkUnit("R-AD",
		// received nc
		models.ServiceOrder{OrderType: "CREATE", ReceivedDate: tp(testDay), CreatedAt: testDay},
		// completed create
		models.ServiceOrder{
			OrderType:     "CREATE",
			CreatedAt:     testDay.AddDate(0, 0, -2),
			StatusHistory: historyToday(models.StatusInstallClosed),
		},
		// returned rl
		models.ServiceOrder{
			OrderType:  "CREATE-OR",
			SltsStatus: models.SltsStatusReturn,
			StatusDate: tp(testDay),
			CreatedAt:  testDay.AddDate(0, 0, -2),
		},
	)
	backlog := models.CategoryCounts{NC: 5, RL: 3, Data: 2, Total: 10}

	row := AggregateUnit(unit, backlog, win)
	// nc: 5 + 1 - 1 (completed.create) - 0 - 0 = 5
	if row.Balance.NC != 5 {
		t.Errorf("balance.nc = %d, expected 5", row.Balance.NC)
	}
	// rl: 3 + 0 - 0 - 0 - 0 - 1 (returned) = 2
	if row.Balance.RL != 2 {
		t.Errorf("balance.rl = %d, expected 2", row.Balance.RL)
	}
	// data: 2 + 0 - 0 - 0 = 2
	if row.Balance.Data != 2 {
		t.Errorf("balance.data = %d, expected 2", row.Balance.Data)
	}
	if row.Balance.Total != row.Balance.NC+row.Balance.RL+row.Balance.Data {
		t.Errorf("balance.total = %d, expected %d", row.Balance.Total,
			row.Balance.NC+row.Balance.RL+row.Balance.Data)
	}
}

func TestBuildReportOrdering(t *testing.T) {
	win := DayWindow(testDay)
	units := []models.Opmc{
		{Region: "Region 3", Province: "Southern", Rtom: "R-GL"},
		{Region: "Region 1 - Metro", Province: "Western", Rtom: "R-HV"},
		{Region: "Region 1 - Metro", Province: "Western", Rtom: "R-AD"},
		{Region: "Region 2", Province: "Central", Rtom: "R-KY"},
	}

	rows := BuildReport(units, nil, win)
	expected := []string{"R-AD", "R-HV", "R-KY", "R-GL"}
	for i, rtom := range expected {
		if rows[i].Rtom != rtom {
			t.Errorf("row %d rtom = %s, expected %s", i, rows[i].Rtom, rtom)
		}
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	win := DayWindow(testDay)
	units := []models.Opmc{
		mkUnit("R-AD",
			models.ServiceOrder{OrderType: "CREATE", ReceivedDate: tp(testDay), CreatedAt: testDay},
			models.ServiceOrder{
				OrderType:     "RECON",
				CreatedAt:     testDay.AddDate(0, 0, -1),
				StatusHistory: historyToday(models.StatusInstallClosed),
				MaterialUsage: []models.MaterialUsage{
					{ItemName: "Drop Wire", ItemCategory: "CABLES", Quantity: decimal.RequireFromString("2.5")},
				},
			},
		),
	}
	backlog := map[string]models.CategoryCounts{"R-AD": {NC: 2, Total: 2}}

	first := BuildReport(units, backlog, win)
	second := BuildReport(units, backlog, win)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("report not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// Units with no backlog row start the morning at zero instead of erroring.
func TestBuildReportMissingBacklog(t *testing.T) {
	win := DayWindow(testDay)
	rows := BuildReport([]models.Opmc{mkUnit("R-MH")}, map[string]models.CategoryCounts{}, win)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, expected 1", len(rows))
	}
	if rows[0].InHandMorning.Total != 0 || rows[0].Balance.Total != 0 {
		t.Errorf("empty unit row = %+v, expected zero morning balance", rows[0])
	}
}
