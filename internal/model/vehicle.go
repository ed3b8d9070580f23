package model

import "github.com/shopspring/decimal"

// VehicleInfo is the decoded identity of a vehicle. It is produced once per
// pipeline run and never mutated afterwards.
type VehicleInfo struct {
	VIN          string `json:"vin"`
	Year         int    `json:"year,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Trim         string `json:"trim,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	BodyClass    string `json:"body_class,omitempty"`
}

// Recall is a single open safety recall campaign for a vehicle.
type Recall struct {
	CampaignNumber string `json:"campaign_number"`
	Manufacturer   string `json:"manufacturer"`
	Component      string `json:"component"`
	Summary        string `json:"summary"`
	Consequence    string `json:"consequence"`
	Remedy         string `json:"remedy"`
}

// LaborTime is the result of a labor-guide lookup for a job.
type LaborTime struct {
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Source      string          `json:"source"`
	Category    string          `json:"category,omitempty"`
	Difficulty  string          `json:"difficulty,omitempty"`
}

// PartCandidate is a part returned by a catalog search for a job.
type PartCandidate struct {
	Description  string          `json:"description"`
	PartNumber   string          `json:"part_number,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Price        decimal.Decimal `json:"price"`
	IsOEM        bool            `json:"is_oem"`
	Category     string          `json:"category,omitempty"`
}
