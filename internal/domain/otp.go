package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OtpDeleteReason tags why an OTP record was soft-deleted. Records are
// never hard-deleted before registration completes, so "already used"
// stays distinguishable from "never requested".
type OtpDeleteReason string

const (
	OtpDeletedNewRequest OtpDeleteReason = "SYSTEM_NEW_REQUEST"
	OtpDeletedSMSFailed  OtpDeleteReason = "SYSTEM_SMS_FAILED"
	OtpDeletedExpired    OtpDeleteReason = "SYSTEM_EXPIRED"
	OtpDeletedVerified   OtpDeleteReason = "USER_VERIFIED"
)

// OtpStatus is the derived lifecycle state of a CitizenOtp record.
type OtpStatus string

const (
	OtpActive     OtpStatus = "ACTIVE"
	OtpSuperseded OtpStatus = "SUPERSEDED"
	OtpSendFailed OtpStatus = "SEND_FAILED"
	OtpExpired    OtpStatus = "EXPIRED"
	OtpConsumed   OtpStatus = "CONSUMED"
)

// CitizenOtp is one phone-verification code. At most one record per phone
// number is active (DeletedAt == nil) at any time.
type CitizenOtp struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	PhoneNumber string `json:"phoneNumber" gorm:"index;not null"`
	Otp         string `json:"-" gorm:"size:10;not null"`
	Attempts    int    `json:"attempts" gorm:"not null;default:0"`

	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt" gorm:"not null"`
	DeletedAt *time.Time       `json:"-" gorm:"index"`
	DeletedBy *OtpDeleteReason `json:"-" gorm:"size:30"`
}

func (o *CitizenOtp) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Status folds the soft-delete columns into one lifecycle state.
func (o *CitizenOtp) Status(now time.Time) OtpStatus {
	if o.DeletedAt != nil {
		if o.DeletedBy == nil {
			return OtpSuperseded
		}
		switch *o.DeletedBy {
		case OtpDeletedVerified:
			return OtpConsumed
		case OtpDeletedExpired:
			return OtpExpired
		case OtpDeletedSMSFailed:
			return OtpSendFailed
		default:
			return OtpSuperseded
		}
	}
	if now.After(o.ExpiresAt) {
		return OtpExpired
	}
	return OtpActive
}
