package tenant

import "gorm.io/gorm"

// Scope restricts a query to a single school. Every tenant-owned table
// carries a school_id column.
func Scope(schoolID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("school_id = ?", schoolID)
	}
}
