package models

import "time"

// ArticleStat aggregates delivery counts per premium article. Counters are
// buffered in Redis and flushed here periodically.
type ArticleStat struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Slug          string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_article_stats_slug" json:"slug"`
	DeliveryCount int64     `gorm:"not null;default:0" json:"delivery_count"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
