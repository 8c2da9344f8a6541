package persistence

import (
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// allowed ordering columns; anything else falls back to created_at
var orderableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"state":      true,
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orderBy := filter.OrderBy
	if !orderableColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "desc"
	if filter.OrderDir == "asc" {
		dir = "asc"
	}

	return db.
		Order(fmt.Sprintf("%s %s", orderBy, dir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize)
}
