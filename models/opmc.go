package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Opmc represents an Outside Plant Maintenance Center, the regional unit
// every service order belongs to and the grain of the daily operational report.
type Opmc struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Region       string    `gorm:"size:100;not null;index" json:"region"`
	Province     string    `gorm:"size:100;not null" json:"province"`
	Rtom         string    `gorm:"size:20;uniqueIndex;not null" json:"rtom"`
	RegularTeams int       `gorm:"default:0" json:"regularTeams"`

	ServiceOrders []ServiceOrder `gorm:"foreignKey:OpmcID" json:"serviceOrders,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Opmc) TableName() string {
	return "opmcs"
}
