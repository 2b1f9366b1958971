package models

import "time"

// RotationState is the singleton cursor recording which category the last
// import cycle ran against. NextCategory always equals the category
// immediately following LastCategory in CategoryCycle.
type RotationState struct {
	LastCategory Category  `json:"last_category"`
	LastRunAt    time.Time `json:"last_run_at"`
	NextCategory Category  `json:"next_category"`
}
