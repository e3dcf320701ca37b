package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/service/role"
	"golang.org/x/crypto/bcrypt"
)

const deliveryTimeout = 10 * time.Second

type Database interface {
	Create(identity *model.Identity) error
	FindByEmail(email string) (*model.Identity, error)
	FindByID(id model.IdentityID) (*model.Identity, error)
	FindByFederatedID(federatedID string) (*model.Identity, error)
	UpdateCredential(id model.IdentityID, credential string) error
	MarkVerified(id model.IdentityID) error
	LinkFederated(id model.IdentityID, federatedID string) error
}

type CodeDatabase interface {
	Create(code *model.OneTimeCode) error
	Find(email string, code string) (*model.OneTimeCode, error)
	MarkUsed(email string, code string, createdAt time.Time) error
}

type Policy interface {
	Reconcile(identity *model.Identity) (role.ReconcileOutcome, error)
}

type Mailer interface {
	Deliver(ctx context.Context, recipient string, subject string, body string) error
}

type service struct {
	db     Database
	codes  CodeDatabase
	policy Policy
	mailer Mailer

	otpLength int
	otpExpiry time.Duration
	now       func() time.Time
}

func New(db Database, codes CodeDatabase, policy Policy, mailer Mailer, otpLength int, otpExpiryMinutes int) *service {
	return &service{
		db:        db,
		codes:     codes,
		policy:    policy,
		mailer:    mailer,
		otpLength: otpLength,
		otpExpiry: time.Duration(otpExpiryMinutes) * time.Minute,
		now:       time.Now,
	}
}

// Register creates or refreshes an unverified identity and issues a
// fresh one-time code. The code is persisted before delivery is
// attempted, so a failed send never undoes the registration; the
// returned flag tells the caller whether the email went out.
func (s *service) Register(ctx context.Context, email string, password string) (*model.Identity, bool, error) {
	email = model.NormalizeEmail(email)

	credential, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hashing password: %w", err)
	}
	hashed := string(credential)

	identity, err := s.db.FindByEmail(email)
	switch {
	case err == nil:
		if identity.IsVerified {
			return nil, false, model.ErrorAlreadyVerified
		}
		// Re-registration while unverified: refresh the credential in
		// place, never create a duplicate. The stored role is left for
		// reconcile at the next login.
		if err := s.db.UpdateCredential(identity.ID, hashed); err != nil {
			return nil, false, fmt.Errorf("refreshing credential: %w", err)
		}
		identity.Credential = &hashed
	case errors.Is(err, model.ErrorNotFound):
		identity = &model.Identity{
			ID:         model.IdentityID(model.CreateID()),
			Email:      email,
			Credential: &hashed,
			StoredRole: model.RoleUser,
			IsVerified: false,
			CreatedAt:  s.now().UTC(),
		}
		if err := s.db.Create(identity); err != nil {
			return nil, false, fmt.Errorf("creating identity: %w", err)
		}
	default:
		return nil, false, fmt.Errorf("looking up identity: %w", err)
	}

	code, err := s.issueCode(email)
	if err != nil {
		return nil, false, err
	}

	delivered := s.deliverCode(ctx, email, code)
	return identity, delivered, nil
}

// VerifyCode consumes a one-time code and promotes the identity to
// verified. Any outstanding unused code within the expiry window
// satisfies verification; there is no latest-only rule.
func (s *service) VerifyCode(ctx context.Context, email string, code string) (*model.Identity, error) {
	email = model.NormalizeEmail(email)

	row, err := s.codes.Find(email, code)
	if err != nil {
		if errors.Is(err, model.ErrorNotFound) {
			return nil, model.ErrorInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("looking up one-time code: %w", err)
	}
	if row.Used || s.now().UTC().Sub(row.CreatedAt) >= s.otpExpiry {
		return nil, model.ErrorInvalidOrExpiredCode
	}

	identity, err := s.db.FindByEmail(email)
	if err != nil {
		if errors.Is(err, model.ErrorNotFound) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("looking up identity: %w", err)
	}

	if err := s.codes.MarkUsed(email, code, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("consuming one-time code: %w", err)
	}
	if err := s.db.MarkVerified(identity.ID); err != nil {
		return nil, fmt.Errorf("marking identity verified: %w", err)
	}
	identity.IsVerified = true

	if _, err := s.policy.Reconcile(identity); err != nil {
		return nil, fmt.Errorf("reconciling role: %w", err)
	}

	return identity, nil
}

// Login authenticates by email and password. A successful login runs
// role reconciliation, the only implicit stored-role mutation point.
func (s *service) Login(ctx context.Context, email string, password string) (*model.Identity, error) {
	identity, err := s.db.FindByEmail(email)
	if err != nil {
		if errors.Is(err, model.ErrorNotFound) {
			return nil, model.ErrorInvalidEmailOrPassword
		}
		return nil, fmt.Errorf("looking up identity: %w", err)
	}

	if identity.Credential == nil {
		return nil, model.ErrorInvalidEmailOrPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*identity.Credential), []byte(password)); err != nil {
		return nil, model.ErrorInvalidEmailOrPassword
	}

	if !identity.IsVerified {
		return nil, model.ErrorNotVerified
	}

	if _, err := s.policy.Reconcile(identity); err != nil {
		return nil, fmt.Errorf("reconciling role: %w", err)
	}

	return identity, nil
}

// FederatedLogin trusts the provider's identity tuple as pre-verified
// and bypasses the one-time-code machine entirely.
func (s *service) FederatedLogin(ctx context.Context, subject string, email string, displayName string) (*model.Identity, error) {
	email = model.NormalizeEmail(email)

	identity, err := s.db.FindByFederatedID(subject)
	if errors.Is(err, model.ErrorNotFound) {
		identity, err = s.db.FindByEmail(email)
		switch {
		case err == nil:
			// Known email logging in through the provider for the first
			// time: link the subject and treat the email as proven.
			if err := s.db.LinkFederated(identity.ID, subject); err != nil {
				return nil, fmt.Errorf("linking federated identity: %w", err)
			}
			federated := subject
			identity.FederatedID = &federated
			identity.IsVerified = true
		case errors.Is(err, model.ErrorNotFound):
			federated := subject
			identity = &model.Identity{
				ID:          model.IdentityID(model.CreateID()),
				Email:       email,
				StoredRole:  model.RoleUser,
				IsVerified:  true,
				FederatedID: &federated,
				DisplayName: displayName,
				CreatedAt:   s.now().UTC(),
			}
			if err := s.db.Create(identity); err != nil {
				return nil, fmt.Errorf("creating federated identity: %w", err)
			}
		default:
			return nil, fmt.Errorf("looking up identity by email: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("looking up federated identity: %w", err)
	}

	if _, err := s.policy.Reconcile(identity); err != nil {
		return nil, fmt.Errorf("reconciling role: %w", err)
	}

	return identity, nil
}

func (s *service) Fetch(id model.IdentityID) (*model.Identity, error) {
	identity, err := s.db.FindByID(id)
	if err != nil {
		if errors.Is(err, model.ErrorNotFound) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("fetching identity: %w", err)
	}
	return identity, nil
}

func (s *service) OTPExpiry() time.Duration {
	return s.otpExpiry
}

func (s *service) issueCode(email string) (string, error) {
	code, err := generateCode(s.otpLength)
	if err != nil {
		return "", fmt.Errorf("generating one-time code: %w", err)
	}

	if err := s.codes.Create(&model.OneTimeCode{
		Email:     email,
		Code:      code,
		CreatedAt: s.now().UTC(),
		Used:      false,
	}); err != nil {
		return "", fmt.Errorf("persisting one-time code: %w", err)
	}
	return code, nil
}

func (s *service) deliverCode(ctx context.Context, email string, code string) bool {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	minutes := int(s.otpExpiry / time.Minute)
	body := fmt.Sprintf("Your OTP code is: %s\n\nThis code will expire in %d minutes.", code, minutes)
	if err := s.mailer.Deliver(ctx, email, "Verify your email - BHV", body); err != nil {
		// Advisory only: the code is already persisted and stays valid.
		return false
	}
	return true
}

func generateCode(length int) (string, error) {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
