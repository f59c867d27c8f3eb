package models

import "time"

type Subscription struct {
	User         Address   `json:"user"`
	PlanID       uint64    `json:"plan_id"`
	WalletsCount uint64    `json:"wallets_count"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Revision     uint64    `json:"revision"`
}

func (s Subscription) IsActive(now time.Time) bool {
	return s.PlanID != 0 && s.EndTime.After(now)
}

// Exists reports whether the record was ever written.
func (s Subscription) Exists() bool {
	return s.Revision != 0
}
