package citizen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/DEV-MEDEV/osecours-backend/internal/audit"
	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
	"github.com/DEV-MEDEV/osecours-backend/internal/modules/auth"
	"github.com/DEV-MEDEV/osecours-backend/internal/modules/otp"
)

const bcryptCost = 10

var (
	ErrPhoneNotVerified = errors.New("phone number not verified")
	ErrOtpExpired       = errors.New("otp validation expired")
	ErrEmailTaken       = errors.New("email already in use")
	ErrPhoneTaken       = errors.New("phone number already in use")
)

// UserRepositoryInterface — the user writes registration needs.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

type RegisterResult struct {
	User   *domain.User
	Tokens auth.TokenPair
}

// Service creates citizen accounts. Registration is gated on a phone
// number already verified through the OTP flow; the consumed OTP record
// is removed once the account exists.
type Service struct {
	users  UserRepositoryInterface
	otps   *otp.Service
	tokens *auth.TokenService
	audit  audit.Recorder
}

func NewService(users UserRepositoryInterface, otps *otp.Service, tokens *auth.TokenService, recorder audit.Recorder) *Service {
	return &Service{users: users, otps: otps, tokens: tokens, audit: recorder}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest, ip string) (*RegisterResult, error) {
	phone, err := otp.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	verified, err := s.otps.RequireVerified(ctx, phone)
	if err != nil {
		if errors.Is(err, otp.ErrExpired) {
			return nil, ErrOtpExpired
		}
		if errors.Is(err, otp.ErrNotVerified) {
			s.audit.Record(ctx, audit.Event{
				Message:     fmt.Sprintf("Tentative d'inscription sans validation OTP pour %s", phone),
				Source:      "citizen/register",
				Action:      "REGISTER_FAILED",
				IPAddress:   ip,
				RequestData: map[string]any{"phoneNumber": phone, "email": email},
				Status:      audit.StatusFailed,
			})
			return nil, ErrPhoneNotVerified
		}
		return nil, err
	}

	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		s.recordFailure(ctx, fmt.Sprintf("Tentative d'inscription avec email déjà existant: %s", email), phone, email, ip)
		return nil, ErrEmailTaken
	}

	if taken, err := s.users.ExistsByPhone(ctx, phone); err != nil {
		return nil, err
	} else if taken {
		s.recordFailure(ctx, fmt.Sprintf("Tentative d'inscription avec numéro déjà existant: %s", phone), phone, email, ip)
		return nil, ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	firstName, lastName := splitName(req.Name)
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  &phone,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         domain.RoleCitizen,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.otps.ConsumeVerified(ctx, verified); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		Message:     fmt.Sprintf("Inscription réussie pour le citoyen: %s", email),
		Source:      "citizen/register",
		UserID:      user.ID,
		Action:      "CITIZEN_REGISTERED",
		IPAddress:   ip,
		RequestData: map[string]any{"email": email, "phoneNumber": phone},
		Status:      audit.StatusSuccess,
	})

	return &RegisterResult{
		User:   user,
		Tokens: auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, message, phone, email, ip string) {
	s.audit.Record(ctx, audit.Event{
		Message:     message,
		Source:      "citizen/register",
		Action:      "REGISTER_FAILED",
		IPAddress:   ip,
		RequestData: map[string]any{"email": email, "phoneNumber": phone},
		Status:      audit.StatusFailed,
	})
}

// splitName splits a full name into first and last; a single word is
// used for both, as the original registration did.
func splitName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	first := parts[0]
	last := strings.Join(parts[1:], " ")
	if last == "" {
		last = first
	}
	return first, last
}
