// model.go defines the persisted tables
package datastore

import "time"

// Bookmark is one row of the ordered bookmark list
type Bookmark struct {
	Position  int    `gorm:"primaryKey;autoIncrement:false"`
	City      string `gorm:"not null;uniqueIndex:idx_bookmarks_city"`
	CreatedAt time.Time
}

// TableName pins the table name regardless of naming strategy
func (Bookmark) TableName() string {
	return "bookmarks"
}
