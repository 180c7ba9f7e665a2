package database

import (
	"gorm.io/gorm"

	"github.com/buildcrew/crew-management-api/internal/utils"
)

// Paginate is a GORM scope that windows a query to one page.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset()).Limit(params.Limit)
	}
}
