package models

import "time"

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalEvents  int       `json:"totalEvents"`
	TotalUsers   int       `json:"totalUsers"`
	TotalRSVPs   int       `json:"totalRSVPs"`
	ActiveEvents int       `json:"activeEvents"`
	LastUpdated  time.Time `json:"lastUpdated"`
}
