package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Log is one audit-trail row. Security-relevant events (auth failures,
// OTP misuse, session changes) are persisted here, not just logged.
type Log struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Message     string    `json:"message" gorm:"not null"`
	Source      string    `json:"source" gorm:"index"`
	UserID      *string   `json:"userId,omitempty" gorm:"index"`
	Action      string    `json:"action" gorm:"index"`
	IPAddress   string    `json:"ipAddress"`
	RequestData string    `json:"requestData,omitempty" gorm:"type:text"`
	Status      string    `json:"status" gorm:"size:10"`
	Environment string    `json:"environment" gorm:"size:20"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (l *Log) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
