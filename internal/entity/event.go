package entity

import (
	"time"
)

// Event 检出的行情事件历史记录
// 去重依据是内存状态, 这张表只做留痕
type Event struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	Symbol      string `gorm:"index"`
	Timeframe   string `gorm:"index"`
	Kind        string `gorm:"index"` // golden_cross / death_cross / surge / crash
	BarTime     time.Time
	PrevClose   string
	LatestClose string
	Message     string
	CreatedAt   time.Time `gorm:"index"`
}
