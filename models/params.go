package models

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ListParams carries the common listing query parameters for order endpoints.
type ListParams struct {
	Page     int
	PageSize int
	Rtom     string
	Status   string
	From     *time.Time
	To       *time.Time
}

// ParseListParams reads pagination and filter parameters off the request.
// Dates are plain YYYY-MM-DD.
func ParseListParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()
	p := ListParams{Page: 1, PageSize: defaultPageSize}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("invalid page %q", raw)
		}
		p.Page = n
	}
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("invalid pageSize %q", raw)
		}
		p.PageSize = n
	}
	p.Rtom = q.Get("rtom")
	p.Status = q.Get("status")

	if raw := q.Get("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return p, fmt.Errorf("invalid from date %q", raw)
		}
		p.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return p, fmt.Errorf("invalid to date %q", raw)
		}
		// inclusive upper bound, end of the named day
		end := t.Add(24*time.Hour - time.Nanosecond)
		p.To = &end
	}
	return p, nil
}

// Validate rejects out-of-range pagination before it reaches the database.
func (p ListParams) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be >= 1")
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		return fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
	}
	if p.From != nil && p.To != nil && p.To.Before(*p.From) {
		return fmt.Errorf("to date precedes from date")
	}
	return nil
}

// Apply scopes a service-order query with the parsed filters and pagination.
func (p ListParams) Apply(db *gorm.DB) *gorm.DB {
	q := db
	if p.Rtom != "" {
		q = q.Joins("JOIN opmcs ON opmcs.id = service_orders.opmc_id").
			Where("opmcs.rtom = ?", p.Rtom)
	}
	if p.Status != "" {
		q = q.Where("service_orders.slts_status = ?", p.Status)
	}
	if p.From != nil {
		q = q.Where("service_orders.created_at >= ?", *p.From)
	}
	if p.To != nil {
		q = q.Where("service_orders.created_at <= ?", *p.To)
	}
	return q.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
}
