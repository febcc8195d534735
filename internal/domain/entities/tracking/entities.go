// Package tracking defines the manufacturing entities served by the gateway
package tracking

import (
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/wip"
)

// DashboardSummary aggregates the day's KPIs keyed by name.
type DashboardSummary struct {
	Date        string             `json:"date,omitempty"`
	KPIs        map[string]float64 `json:"kpis"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Lot is a batch of WIP items sharing an identifier and process path.
type Lot struct {
	LotNumber        string     `json:"lot_number"`
	Status           wip.Status `json:"status"`
	Quantity         int        `json:"quantity"`
	CurrentProcessID int64      `json:"current_process_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// WipItem is a single work-in-process item inside a lot.
type WipItem struct {
	WipID            string     `json:"wip_id"`
	LotNumber        string     `json:"lot_number"`
	Sequence         string     `json:"sequence"`
	Status           wip.Status `json:"status"`
	CurrentProcessID int64      `json:"current_process_id,omitempty"`
	DisplayStatus    string     `json:"display_status,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// ProcessWipCount reports how many items currently sit at one process step.
type ProcessWipCount struct {
	ProcessID   int64  `json:"process_id"`
	ProcessName string `json:"process_name"`
	WipCount    int    `json:"wip_count"`
}

// ProcessCycleTime is the rolling average cycle time for one process,
// in seconds.
type ProcessCycleTime struct {
	ProcessName      string  `json:"process_name"`
	AverageCycleTime float64 `json:"average_cycle_time"`
}
