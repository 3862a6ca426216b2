package database

import (
	"time"
)

// GlobalStatsID is the primary key of the single GlobalStats row
const GlobalStatsID = 1

// DownloadRecord summarises one generated complaint document. Rows are
// written once and never updated or deleted.
type DownloadRecord struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	ComplainantName   string    `json:"complainantName"`
	OppositePartyName string    `json:"oppositePartyName"`
	ForumType         string    `json:"forumType" gorm:"index"`
	TotalValue        string    `json:"totalValue"`
	District          string    `json:"district"`
	State             string    `json:"state" gorm:"index"`
	CreatedAt         time.Time `json:"downloadedAt" gorm:"index"`
}

// GlobalStats is the running download counter
type GlobalStats struct {
	ID             uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	TotalDownloads int64     `json:"totalDownloads"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

func (DownloadRecord) TableName() string {
	return "form_downloads"
}

func (GlobalStats) TableName() string {
	return "global_stats"
}
