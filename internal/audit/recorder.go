package audit

import (
	"context"
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusError   = "ERROR"
)

// Event is one security-relevant occurrence worth keeping.
type Event struct {
	Message     string
	Source      string
	UserID      string
	Action      string
	IPAddress   string
	RequestData any
	Status      string
}

// Recorder persists audit events. Implementations must be fire-and-forget:
// a failing Record never propagates into the request path.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Store writes audit events to the logs table.
type Store struct {
	db  *gorm.DB
	env string
}

func NewStore(db *gorm.DB, env string) *Store {
	return &Store{db: db, env: env}
}

func (s *Store) Record(ctx context.Context, e Event) {
	row := domain.Log{
		Message:     e.Message,
		Source:      e.Source,
		Action:      e.Action,
		IPAddress:   e.IPAddress,
		Status:      e.Status,
		Environment: s.env,
	}
	if e.UserID != "" {
		id := e.UserID
		row.UserID = &id
	}
	if e.RequestData != nil {
		if b, err := json.Marshal(e.RequestData); err == nil {
			row.RequestData = string(b)
		}
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		// Audit failures stay local: the calling operation must not abort.
		log.Printf("audit: failed to record event action=%s: %v", e.Action, err)
	}
}
