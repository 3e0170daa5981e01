package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SauravS-01/eNoteBook/internal/models"
	"github.com/SauravS-01/eNoteBook/internal/store"
	"gorm.io/datatypes"
)

const minPasswordLength = 6

// UserDirectory is the slice of the user store the auth service needs.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByProviderID(ctx context.Context, providerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// RegisterForm carries the registration fields exactly as submitted, so
// a failed attempt can re-echo them.
type RegisterForm struct {
	DisplayName string
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Password2   string
}

// Service resolves identities from local credentials or federated
// profiles. Verification is stateless; registration writes one User.
type Service struct {
	users  UserDirectory
	hasher *Hasher
}

func NewService(users UserDirectory, hasher *Hasher) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
	}
}

// Verify checks a local email+password pair. Unknown email and wrong
// password are deliberately indistinguishable to the caller.
func (s *Service) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	if user.PasswordHash == "" {
		// Federated identity with no local password.
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Register validates the form, checks email uniqueness and persists the
// new user. Field failures accumulate into one list instead of failing
// fast, and are returned alongside a nil user; the error return is
// reserved for store faults.
//
// The uniqueness check is a read-then-write pre-check, so two
// concurrent registrations can both pass it; the unique index on email
// is the backstop.
func (s *Service) Register(ctx context.Context, form RegisterForm) (*models.User, []string, error) {
	var fieldErrors []string

	if form.Password != form.Password2 {
		fieldErrors = append(fieldErrors, MsgPasswordMismatch)
	}

	if len(form.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, MsgPasswordTooShort)
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	_, err := s.users.FindByEmail(ctx, form.Email)

	if err == nil {
		return nil, []string{MsgDuplicateEmail}, nil
	}

	if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	hash, err := s.hasher.Hash(form.Password)

	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		DisplayName:  form.DisplayName,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	return user, nil, nil
}

// ResolveFederated maps a provider profile to a local user, creating
// one on first sight. It never fails on "not found"; a denied
// handshake is surfaced upstream before this is called.
func (s *Service) ResolveFederated(ctx context.Context, profile Profile) (*models.User, error) {
	user, err := s.users.FindByProviderID(ctx, profile.Subject)

	if err == nil {
		return user, nil
	}

	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve federated identity: %w", err)
	}

	raw, err := json.Marshal(profile)

	if err != nil {
		return nil, fmt.Errorf("failed to encode provider profile: %w", err)
	}

	user = &models.User{
		DisplayName:     profile.Name,
		FirstName:       profile.GivenName,
		LastName:        profile.FamilyName,
		Email:           profile.Email,
		ProviderID:      profile.Subject,
		ProviderProfile: datatypes.JSON(raw),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
