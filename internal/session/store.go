package session

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRow struct {
	Token  string    `gorm:"primaryKey;size:64"`
	Data   []byte    `gorm:"not null"`
	Expiry time.Time `gorm:"not null;index:idx_sessions_expiry"`
}

func (sessionRow) TableName() string { return "sessions" }

// GormStore persists scs sessions in the application database so logins
// survive restarts. Implements scs.Store.
type GormStore struct {
	db          *gorm.DB
	stopCleanup chan struct{}
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	return NewGormStoreWithCleanupInterval(db, 30*time.Minute)
}

func NewGormStoreWithCleanupInterval(db *gorm.DB, interval time.Duration) (*GormStore, error) {
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, err
	}

	s := &GormStore{db: db}
	if interval > 0 {
		s.stopCleanup = make(chan struct{})
		go s.cleanupLoop(interval)
	}
	return s, nil
}

func (s *GormStore) Find(token string) ([]byte, bool, error) {
	var row sessionRow
	err := s.db.Where("token = ? AND expiry > ?", token, time.Now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.Data, true, nil
}

func (s *GormStore) Commit(token string, b []byte, expiry time.Time) error {
	row := sessionRow{Token: token, Data: b, Expiry: expiry}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expiry"}),
	}).Create(&row).Error
}

func (s *GormStore) Delete(token string) error {
	return s.db.Where("token = ?", token).Delete(&sessionRow{}).Error
}

func (s *GormStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.db.Where("expiry <= ?", time.Now()).Delete(&sessionRow{}).Error; err != nil {
				log.Println("Session cleanup failed:", err)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// StopCleanup terminates the background purge of expired rows. Mainly for
// tests; the loop normally lives as long as the process.
func (s *GormStore) StopCleanup() {
	if s.stopCleanup != nil {
		close(s.stopCleanup)
		s.stopCleanup = nil
	}
}
