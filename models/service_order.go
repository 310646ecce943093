package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SLTS order statuses as reported by the upstream provisioning system.
const (
	SltsStatusInProgress = "INPROGRESS"
	SltsStatusCompleted  = "COMPLETED"
	SltsStatusReturn     = "RETURN"
)

// Status history event codes the daily report keys on.
const (
	StatusInstallClosed = "INSTALL_CLOSED"
	StatusProvClosed    = "PROV_CLOSED"
)

// Material source of a service order's consumables.
const (
	MaterialSourceSLT     = "SLT"
	MaterialSourceCompany = "COMPANY"
)

// DropWireItemCode is the inventory code for standard drop wire. Usage lines
// are also matched by item name because upstream codes are not always filled.
const DropWireItemCode = "DW-001"

// DelayReasons is the set of named delay flags an order can carry.
// Stored as a jsonb column; absent flags read as false.
type DelayReasons struct {
	OntShortage bool `json:"ontShortage,omitempty"`
	StbShortage bool `json:"stbShortage,omitempty"`
	Nokia       bool `json:"nokia,omitempty"`
	System      bool `json:"system,omitempty"`
	Opmc        bool `json:"opmc,omitempty"`
	CxDelay     bool `json:"cxDelay,omitempty"`
	SameDay     bool `json:"sameDay,omitempty"`
	PolePending bool `json:"polePending,omitempty"`
}

// Value implements driver.Valuer so DelayReasons lands in jsonb.
func (d DelayReasons) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reading the jsonb column back.
func (d *DelayReasons) Scan(src interface{}) error {
	if src == nil {
		*d = DelayReasons{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("DelayReasons.Scan: unsupported type %T", src)
	}
}

// ServiceOrder is one unit of provisioning work tracked through its lifecycle.
type ServiceOrder struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OpmcID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"opmcId"`
	Opmc           Opmc           `gorm:"foreignKey:OpmcID" json:"opmc,omitempty"`
	SltOrderID     string         `gorm:"size:50;uniqueIndex;not null" json:"sltOrderId"`
	OrderType      string         `gorm:"size:100;not null" json:"orderType"`
	SltsStatus     string         `gorm:"size:20;not null;default:INPROGRESS" json:"sltsStatus"`
	ReceivedDate   *time.Time     `gorm:"index" json:"receivedDate,omitempty"`
	CompletedDate  *time.Time     `gorm:"index" json:"completedDate,omitempty"`
	StatusDate     *time.Time     `gorm:"index" json:"statusDate,omitempty"`
	TeamID         *uuid.UUID     `gorm:"type:uuid" json:"teamId,omitempty"`
	DelayReasons   DelayReasons   `gorm:"type:jsonb;default:'{}'" json:"delayReasons"`
	StbShortage    bool           `gorm:"default:false" json:"stbShortage"`
	OntShortage    bool           `gorm:"default:false" json:"ontShortage"`
	MaterialSource string         `gorm:"size:20" json:"materialSource,omitempty"`
	RawAttributes  datatypes.JSON `gorm:"type:jsonb" json:"rawAttributes,omitempty"` // last bridge-sync payload, kept verbatim

	StatusHistory []StatusHistoryEntry `gorm:"foreignKey:ServiceOrderID" json:"statusHistory,omitempty"`
	MaterialUsage []MaterialUsage      `gorm:"foreignKey:ServiceOrderID" json:"materialUsage,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ServiceOrder) TableName() string {
	return "service_orders"
}

// StatusHistoryEntry is an append-only status event on a service order.
type StatusHistoryEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServiceOrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceOrderId"`
	Status         string    `gorm:"size:50;not null" json:"status"`
	StatusDate     time.Time `gorm:"not null;index" json:"statusDate"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (StatusHistoryEntry) TableName() string {
	return "status_history_entries"
}

// MaterialUsage is one consumable line booked against a service order.
// Quantity is decimal: drop wire is measured in km, so fractions are valid.
type MaterialUsage struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServiceOrderID uuid.UUID       `gorm:"type:uuid;index;not null" json:"serviceOrderId"`
	ItemCode       string          `gorm:"size:50" json:"itemCode"`
	ItemName       string          `gorm:"size:255;not null" json:"itemName"`
	ItemCategory   string          `gorm:"size:100" json:"itemCategory"`
	Quantity       decimal.Decimal `gorm:"type:decimal(12,4);default:0" json:"quantity"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (MaterialUsage) TableName() string {
	return "material_usages"
}
