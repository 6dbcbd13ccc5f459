package repo

import (
	"github.com/KNICEX/mt5-monitor/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Event{})
}
