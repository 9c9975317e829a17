package models

import "time"

// CategoryStat is the number of stored articles in one category.
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CategoryStats is a cached snapshot of per-category counts, in display order.
type CategoryStats struct {
	Categories   []CategoryStat `json:"categories"`
	Total        int64          `json:"total"`
	CalculatedAt time.Time      `json:"calculated_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
}
