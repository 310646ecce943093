package dailyops

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/teleops/models"
)

// Service implements the retrieval contract for the daily operational report
// and hands the materialized data to the pure aggregation core.
type Service struct {
	db      *gorm.DB
	sources map[uuid.UUID]string
}

// NewService creates a report service over the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithMaterialSources supplies material sources per order id up front,
// skipping the secondary raw lookup. Callers with a schema that returns
// material_source reliably through the primary fetch should use this.
func (s *Service) WithMaterialSources(sources map[uuid.UUID]string) *Service {
	s.sources = sources
	return s
}

// Generate produces the report rows for the given day.
func (s *Service) Generate(day time.Time) ([]models.DailyReportRow, error) {
	win := DayWindow(day)

	units, err := s.loadUnits(win)
	if err != nil {
		return nil, err
	}
	backlog, err := s.loadBacklog(win.Start)
	if err != nil {
		return nil, err
	}
	if err := s.mergeMaterialSources(units); err != nil {
		return nil, err
	}

	return BuildReport(units, backlog, win), nil
}

// loadUnits fetches every OPMC with the day's relevant orders preloaded. An
// order qualifies if any one of the four date filters hits: created today,
// completed today, status-changed today, or carrying a history entry today.
// History preloads are already scoped to the window.
func (s *Service) loadUnits(win Window) ([]models.Opmc, error) {
	historyToday := s.db.Model(&models.StatusHistoryEntry{}).
		Select("service_order_id").
		Where("status_date BETWEEN ? AND ?", win.Start, win.End)

	var units []models.Opmc
	err := s.db.
		Preload("ServiceOrders", func(tx *gorm.DB) *gorm.DB {
			return tx.Where(
				"(created_at BETWEEN ? AND ?) OR (completed_date BETWEEN ? AND ?) OR (status_date BETWEEN ? AND ?) OR id IN (?)",
				win.Start, win.End,
				win.Start, win.End,
				win.Start, win.End,
				historyToday,
			)
		}).
		Preload("ServiceOrders.StatusHistory", "status_date BETWEEN ? AND ?", win.Start, win.End).
		Preload("ServiceOrders.MaterialUsage").
		Find(&units).Error
	if err != nil {
		return nil, err
	}
	return units, nil
}

type backlogRow struct {
	Rtom      string
	OrderType string
	Cnt       int
}

// loadBacklog counts orders still pending at the start of the day, grouped by
// unit and order type, in one query rather than per unit. "Still pending"
// approximates: created before startOfDay, not completed before it, and not
// returned before it.
func (s *Service) loadBacklog(start time.Time) (map[string]models.CategoryCounts, error) {
	var rows []backlogRow
	err := s.db.Model(&models.ServiceOrder{}).
		Select("opmcs.rtom AS rtom, service_orders.order_type AS order_type, COUNT(*) AS cnt").
		Joins("JOIN opmcs ON opmcs.id = service_orders.opmc_id").
		Where("service_orders.created_at < ?", start).
		Where("service_orders.completed_date IS NULL OR service_orders.completed_date >= ?", start).
		Where("service_orders.slts_status <> ? OR service_orders.status_date >= ?", models.SltsStatusReturn, start).
		Group("opmcs.rtom, service_orders.order_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	backlog := make(map[string]models.CategoryCounts, len(rows))
	for _, r := range rows {
		counts := backlog[r.Rtom]
		switch Categorize(r.OrderType) {
		case CategoryNC:
			counts.NC += r.Cnt
		case CategoryRL:
			counts.RL += r.Cnt
		default:
			counts.Data += r.Cnt
		}
		counts.Total += r.Cnt
		backlog[r.Rtom] = counts
	}
	return backlog, nil
}

// mergeMaterialSources attaches material_source to every loaded order before
// aggregation. The upstream client does not return the column reliably
// through the relation fetch, so unless sources were supplied up front it is
// re-read with a raw lookup keyed by order id and merged in.
func (s *Service) mergeMaterialSources(units []models.Opmc) error {
	sources := s.sources
	if sources == nil {
		ids := make([]uuid.UUID, 0)
		for _, unit := range units {
			for _, order := range unit.ServiceOrders {
				ids = append(ids, order.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		var rows []struct {
			ID             uuid.UUID
			MaterialSource string
		}
		err := s.db.Raw(
			"SELECT id, material_source FROM service_orders WHERE id IN ?", ids,
		).Scan(&rows).Error
		if err != nil {
			return err
		}
		sources = make(map[uuid.UUID]string, len(rows))
		for _, r := range rows {
			sources[r.ID] = r.MaterialSource
		}
	}

	for ui := range units {
		orders := units[ui].ServiceOrders
		for oi := range orders {
			if src, ok := sources[orders[oi].ID]; ok {
				orders[oi].MaterialSource = src
			}
		}
	}
	return nil
}
