package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/teleops/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20240301_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Opmc{}, &models.ServiceOrder{},
					&models.StatusHistoryEntry{}, &models.MaterialUsage{})
			},
		},
		{
			// material_source predates this schema: the upstream system
			// stores it where the relation fetch cannot see it, so rows
			// imported before the column existed must read as SLT.
			ID: "20240412_backfill_material_source",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.Exec("ALTER TABLE service_orders ADD COLUMN IF NOT EXISTS material_source varchar(20)").Error; err != nil {
					return err
				}
				return tx.Exec("UPDATE service_orders SET material_source = 'SLT' WHERE material_source IS NULL OR material_source = ''").Error
			},
		},
		{
			ID: "20240520_add_report_window_indexes",
			Migrate: func(tx *gorm.DB) error {
				indexes := []string{
					"CREATE INDEX IF NOT EXISTS idx_service_orders_completed_date ON service_orders(completed_date)",
					"CREATE INDEX IF NOT EXISTS idx_service_orders_status_date ON service_orders(status_date)",
					"CREATE INDEX IF NOT EXISTS idx_status_history_entries_status_date ON status_history_entries(status_date)",
				}
				for _, stmt := range indexes {
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})

	return m.Migrate()
}
