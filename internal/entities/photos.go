package entities

import (
	"time"
)

// Photo is a cataloged photo. Title is the base filename without extension
// and acts as the unique key of the catalog.
type Photo struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Title        string  `gorm:"uniqueIndex;size:512" json:"title"`
	Extension    string  `gorm:"size:16" json:"extension"`
	Orientation  int     `json:"orientation"`
	Date         string  `gorm:"index;size:10" json:"date"` // YYYY-MM-DD
	ExposureTime string  `gorm:"size:32" json:"exposure_time,omitempty"`
	ISO          int     `json:"iso,omitempty"`
	Aperture     float64 `json:"aperture,omitempty"`
	FocalLength  float64 `json:"focal_length,omitempty"`

	// Source and derivative paths
	Master   string `gorm:"index;size:2048" json:"master"`
	Thumb    string `gorm:"size:2048" json:"thumb"`
	Thumb250 string `gorm:"column:thumb_250;size:2048" json:"thumb_250"`

	Tags []Tag `gorm:"many2many:photo_tags;" json:"tags,omitempty"`

	// CreatedAt holds the capture timestamp, not the insert time.
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	ImportedAt time.Time `gorm:"autoCreateTime" json:"imported_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;size:255" json:"title"`
	Photos    []Photo   `gorm:"many2many:photo_tags;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}

func (Tag) TableName() string {
	return "tags"
}
