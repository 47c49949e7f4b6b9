package storage

import (
	"github.com/shopspring/decimal"
)

type Material struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	OnOrder      decimal.Decimal `json:"on_order"`
	LeadTimeDays int             `json:"lead_time_days"`
	Unit         string          `json:"unit"`
}

// BOMTable maps product type -> material id -> quantity consumed per unit
// of product. Static reference data for the scheduling horizon.
type BOMTable map[string]map[string]decimal.Decimal
