package repo

import (
	"context"
	"time"

	"github.com/KNICEX/mt5-monitor/internal/entity"
	"gorm.io/gorm"
)

type EventRepo interface {
	Create(ctx context.Context, event entity.Event) (int64, error)
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Event, error)
	FindSince(ctx context.Context, since time.Time) ([]entity.Event, error)
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return &eventRepo{
		db: db,
	}
}

func (r *eventRepo) Create(ctx context.Context, event entity.Event) (int64, error) {
	err := r.db.WithContext(ctx).Create(&event).Error
	if err != nil {
		return 0, err
	}
	return event.Id, nil
}

func (r *eventRepo) FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).
		Order("bar_time desc").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) FindSince(ctx context.Context, since time.Time) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).Where("bar_time >= ?", since).
		Order("bar_time").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
