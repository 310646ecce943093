package dailyops

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"p9e.in/teleops/models"
)

// Category is the coarse nc/rl/data split every order falls into exactly once.
type Category int

const (
	CategoryNC Category = iota
	CategoryRL
	CategoryData
)

// Window is the closed [Start, End] interval for one report day.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow computes the local-day window for the given date. Both bounds are
// inclusive: an event at exactly midnight or at the last nanosecond of the day
// counts as "today".
func DayWindow(day time.Time) Window {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return Window{
		Start: start,
		End:   start.Add(24*time.Hour - time.Nanosecond),
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Categorize maps an order type onto the nc/rl/data split. Matching is on
// uppercased substrings; the data bucket is the catch-all so every order is
// counted somewhere.
func Categorize(orderType string) Category {
	t := strings.ToUpper(orderType)
	switch {
	case strings.Contains(t, "CREATE") && !strings.Contains(t, "CREATE-OR"):
		return CategoryNC
	case strings.Contains(t, "CREATE-OR"),
		strings.Contains(t, "MODIFY-LOCATION"),
		strings.Contains(t, "MODIFY LOCATION"):
		return CategoryRL
	default:
		return CategoryData
	}
}

func bump(c *models.CategoryCounts, cat Category) {
	switch cat {
	case CategoryNC:
		c.NC++
	case CategoryRL:
		c.RL++
	default:
		c.Data++
	}
	c.Total++
}

// addCompletion classifies a completed order into the finer completion split.
// Branch order is fixed and first match wins. The total is incremented whether
// or not a sub-bucket matches; fnc, frl and data have no producing branch and
// stay zero (see the balance formulas, which still subtract them).
func addCompletion(c *models.CompletedCounts, orderType string) {
	c.Total++
	t := strings.ToUpper(orderType)
	switch {
	case strings.Contains(t, "CREATE") &&
		!strings.Contains(t, "CREATE-OR") &&
		!strings.Contains(t, "RECON") &&
		!strings.Contains(t, "UPGRD"):
		c.Create++
	case strings.Contains(t, "RECON"):
		c.Recon++
	case strings.Contains(t, "UPGRD"), strings.Contains(t, "UPGRADE"):
		c.Upgrade++
	case strings.Contains(t, "CREATE-OR"):
		c.Or++
	case strings.Contains(t, "MODIFY-LOCATION"), strings.Contains(t, "MODIFY LOCATION"):
		c.Ml++
	}
}

// todayStatuses builds the set of status codes seen on the order inside the
// window. Membership, not counts: several INSTALL_CLOSED events in one day
// still complete the order once.
func todayStatuses(history []models.StatusHistoryEntry, win Window) map[string]struct{} {
	set := make(map[string]struct{}, len(history))
	for _, h := range history {
		if win.Contains(h.StatusDate) {
			set[h.Status] = struct{}{}
		}
	}
	return set
}

func addDelays(d *models.DelayCounts, reasons models.DelayReasons) {
	if reasons.OntShortage {
		d.OntShortage++
	}
	if reasons.StbShortage {
		d.StbShortage++
	}
	if reasons.Nokia {
		d.Nokia++
	}
	if reasons.System {
		d.System++
	}
	if reasons.Opmc {
		d.Opmc++
	}
	if reasons.CxDelay {
		d.CxDelay++
	}
	if reasons.SameDay {
		d.SameDay++
	}
	if reasons.PolePending {
		d.PolePending++
	}
}

// addMaterials folds the order's usage lines into the material totals. The
// drop-wire branch is checked before the pole branch; pole sizes match on the
// first satisfied name substring in fixed order.
func addMaterials(m *models.MaterialTotals, order models.ServiceOrder) {
	for _, line := range order.MaterialUsage {
		name := strings.ToLower(line.ItemName)
		switch {
		case line.ItemCode == models.DropWireItemCode || strings.Contains(name, "drop wire"):
			m.Dw = m.Dw.Add(line.Quantity)
			if order.MaterialSource == models.MaterialSourceCompany {
				m.DwCompany = m.DwCompany.Add(line.Quantity)
			} else {
				m.DwSlt = m.DwSlt.Add(line.Quantity)
			}
		case strings.Contains(strings.ToLower(line.ItemCategory), "pole"):
			switch {
			case strings.Contains(line.ItemName, "5.6"):
				m.Pole56 = m.Pole56.Add(line.Quantity)
			case strings.Contains(line.ItemName, "6.7"):
				m.Pole67 = m.Pole67.Add(line.Quantity)
			case strings.Contains(line.ItemName, "8.0"), strings.Contains(line.ItemName, "8"):
				m.Pole80 = m.Pole80.Add(line.Quantity)
			}
		}
	}
}

// AggregateUnit computes one OPMC's report row in a single pass over its
// orders. Buckets are evaluated independently per order, so one order can
// contribute to several. Missing optional fields contribute nothing.
func AggregateUnit(unit models.Opmc, backlog models.CategoryCounts, win Window) models.DailyReportRow {
	row := models.DailyReportRow{
		Region:        unit.Region,
		Province:      unit.Province,
		Rtom:          unit.Rtom,
		RegularTeams:  unit.RegularTeams,
		InHandMorning: backlog,
	}

	teams := make(map[uuid.UUID]struct{})
	for _, order := range unit.ServiceOrders {
		cat := Categorize(order.OrderType)

		if order.TeamID != nil {
			teams[*order.TeamID] = struct{}{}
		}

		received := order.CreatedAt
		if order.ReceivedDate != nil {
			received = *order.ReceivedDate
		}
		if win.Contains(received) {
			bump(&row.Received, cat)
		}

		statuses := todayStatuses(order.StatusHistory, win)
		if _, ok := statuses[models.StatusInstallClosed]; ok {
			addCompletion(&row.Completed, order.OrderType)
		}
		if _, ok := statuses[models.StatusProvClosed]; ok {
			bump(&row.WiredOnly, cat)
		}

		if order.SltsStatus == models.SltsStatusReturn &&
			order.StatusDate != nil && win.Contains(*order.StatusDate) {
			bump(&row.Returned, cat)
		}

		addDelays(&row.Delays, order.DelayReasons)
		addMaterials(&row.Material, order)

		if order.StbShortage {
			row.Shortages.Stb++
		}
		if order.OntShortage {
			row.Shortages.Ont++
		}
	}
	row.TeamsWorked = len(teams)

	row.TotalInHand = row.InHandMorning.Total + row.Received.Total
	row.Balance.NC = row.InHandMorning.NC + row.Received.NC -
		row.Completed.Create - row.Completed.Fnc - row.Returned.NC
	row.Balance.RL = row.InHandMorning.RL + row.Received.RL -
		row.Completed.Or - row.Completed.Ml - row.Completed.Frl - row.Returned.RL
	row.Balance.Data = row.InHandMorning.Data + row.Received.Data -
		row.Completed.Data - row.Returned.Data
	row.Balance.Total = row.Balance.NC + row.Balance.RL + row.Balance.Data

	return row
}

// BuildReport aggregates every unit and orders the rows by
// (region, province, rtom) ascending. Units absent from the backlog map start
// the day with a zero morning balance.
func BuildReport(units []models.Opmc, backlog map[string]models.CategoryCounts, win Window) []models.DailyReportRow {
	rows := make([]models.DailyReportRow, 0, len(units))
	for _, unit := range units {
		rows = append(rows, AggregateUnit(unit, backlog[unit.Rtom], win))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Region != rows[j].Region {
			return rows[i].Region < rows[j].Region
		}
		if rows[i].Province != rows[j].Province {
			return rows[i].Province < rows[j].Province
		}
		return rows[i].Rtom < rows[j].Rtom
	})
	return rows
}
