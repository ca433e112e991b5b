package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles. Role-specific data lives in the
// associated RescueMember / AdminRights records, not in optional columns.
type Role string

const (
	RoleCitizen      Role = "CITIZEN"
	RoleRescueMember Role = "RESCUE_MEMBER"
	RoleAdmin        Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleRescueMember, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string  `json:"id" gorm:"primaryKey;size:36"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	PhoneNumber  *string `json:"phoneNumber,omitempty" gorm:"index"`
	PasswordHash string  `json:"-" gorm:"not null"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Role         Role    `json:"role" gorm:"size:20;not null;default:CITIZEN"`
	IsActive     bool    `json:"isActive" gorm:"not null;default:true"`

	RescueMember *RescueMember `json:"-" gorm:"foreignKey:UserID"`
	AdminRights  *AdminRights  `json:"-" gorm:"foreignKey:UserID"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-" gorm:"index"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RescueService is an emergency service (pompiers, SAMU, police...).
type RescueService struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Name          string    `json:"name" gorm:"not null"`
	ServiceType   string    `json:"serviceType"`
	ContactNumber string    `json:"contactNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (s *RescueService) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// RescueMember carries the data specific to the RESCUE_MEMBER role.
type RescueMember struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36"`
	UserID          string         `json:"userId" gorm:"uniqueIndex;not null"`
	RescueServiceID string         `json:"rescueServiceId" gorm:"not null"`
	RescueService   *RescueService `json:"rescueService,omitempty" gorm:"foreignKey:RescueServiceID"`
	BadgeNumber     string         `json:"badgeNumber"`
	Position        string         `json:"position"`
	IsOnDuty        bool           `json:"isOnDuty" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (m *RescueMember) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AdminRights carries the data specific to the ADMIN role.
type AdminRights struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	UserID      string    `json:"userId" gorm:"uniqueIndex;not null"`
	Permissions []string  `json:"permissions" gorm:"serializer:json"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a *AdminRights) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
