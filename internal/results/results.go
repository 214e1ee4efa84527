package results

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DefaultLimit caps leaderboard queries when the caller gives none.
const DefaultLimit = 10

// Result is one finished-game record. TimeMs is the client-reported
// elapsed time; Date is whatever date string the client sent, stored
// verbatim like the rest of the record.
type Result struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	RoomID    string    `gorm:"index" json:"roomId"`
	UserName  string    `json:"userName"`
	TimeMs    int64     `gorm:"index" json:"time"`
	Mistakes  int       `json:"mistakes"`
	Date      string    `json:"date"`
}

// Store is the durable sink for finished games.
type Store interface {
	Append(ctx context.Context, r Result) error
	Leaderboard(ctx context.Context, roomID string, limit int) ([]Result, error)
}

// GormStore implements Store on postgres.
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGormStore(dsn string, log *zap.Logger) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Result{}); err != nil {
		return nil, err
	}
	log.Info("results store ready")
	return &GormStore{db: db, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.log.Debug("closing results store")
	return sqlDB.Close()
}

func (s *GormStore) Append(ctx context.Context, r Result) error {
	return s.db.WithContext(ctx).Create(&r).Error
}

// Leaderboard returns up to limit records ascending by time, optionally
// filtered to one room.
func (s *GormStore) Leaderboard(ctx context.Context, roomID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := s.db.WithContext(ctx).Model(&Result{})
	if roomID != "" {
		q = q.Where("room_id = ?", roomID)
	}
	out := make([]Result, 0, limit)
	err := q.Order("time_ms asc").Limit(limit).Find(&out).Error
	return out, err
}
