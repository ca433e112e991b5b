package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenType string

const (
	TokenAccess  TokenType = "ACCESS"
	TokenRefresh TokenType = "REFRESH"
)

// Token is one row of the token ledger: every issued token, forever.
// Rows are never deleted, only flipped to IsRevoked, so the ledger doubles
// as a session history.
//
// The ledger is authoritative for revocation; the JWT signature is
// authoritative for tampering and expiry.
type Token struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:512;not null"`
	Type      TokenType `json:"type" gorm:"size:10;not null"`
	IsRevoked bool      `json:"isRevoked" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`
}

func (t *Token) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
