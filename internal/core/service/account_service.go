package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/examplecore/account-service/internal/core/domain"
	"github.com/examplecore/account-service/internal/core/ports"
	"github.com/examplecore/account-service/internal/security"
)

// ResetWindow is how long a password-reset link stays redeemable.
const ResetWindow = 5 * time.Minute

// AccountService implements the account lifecycle: registration, login,
// profile update, the email-verification handshake and the password-reset
// handshake. All time-based checks use the service clock, not store time.
type AccountService struct {
	accounts ports.AccountRepository
	hasher   *security.PasswordHasher
	mail     ports.MailDispatcher
	appURL   string
	log      zerolog.Logger

	now func() time.Time
}

func NewAccountService(accounts ports.AccountRepository, hasher *security.PasswordHasher, mail ports.MailDispatcher, appURL string, log zerolog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		mail:     mail,
		appURL:   appURL,
		log:      log,
		now:      time.Now,
	}
}

// Create registers a new Unverified account and returns its email
// verification token. The verification mail is dispatched only after the
// insert succeeds.
func (s *AccountService) Create(ctx context.Context, in ports.CreateAccountInput) (string, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.ErrEmailTaken
	}

	salt := security.NewSalt()
	hash, err := s.hasher.Hash(in.Password, salt)
	if err != nil {
		return "", err
	}

	verificationToken := security.NewToken()
	account := &domain.Account{
		ID:                     security.NewID(),
		Email:                  in.Email,
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		PasswordHash:           hash,
		Salt:                   salt,
		CreatedAt:              s.now().UTC(),
		EmailVerificationToken: verificationToken,
		PasswordResetToken:     domain.NoResetToken,
	}

	if err := s.accounts.Insert(ctx, account); err != nil {
		return "", err
	}

	s.mail.Enqueue(verificationMessage(s.appURL, in.Email, verificationToken))
	return verificationToken, nil
}

// Login verifies credentials. Unknown email and hash mismatch are
// indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, account.Salt, account.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

// Update re-authenticates with the old password, then overwrites the names
// and, when a new password was supplied, re-salts and re-hashes.
func (s *AccountService) Update(ctx context.Context, in ports.UpdateAccountInput) error {
	account, err := s.Login(ctx, in.Email, in.OldPassword)
	if err != nil {
		return err
	}

	if in.NewPassword != "" {
		salt := security.NewSalt()
		hash, err := s.hasher.Hash(in.NewPassword, salt)
		if err != nil {
			return err
		}
		account.Salt = salt
		account.PasswordHash = hash
	}
	account.FirstName = in.FirstName
	account.LastName = in.LastName

	return s.accounts.Update(ctx, account)
}

// GetInfo returns the public projection of the account.
func (s *AccountService) GetInfo(ctx context.Context, email string) (*domain.AccountInfo, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &domain.AccountInfo{
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}, nil
}

// VerifyEmail redeems a verification token. The store condition (token match
// AND not yet verified) makes a second redemption fail exactly like an
// unknown token.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	ok, err := s.accounts.MarkEmailVerified(ctx, token, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidToken
	}
	return nil
}

// RequestPasswordReset opens a reset window for the account, overwriting any
// pending reset. The same work runs whether or not the email is registered,
// and the caller gets the same nil result either way; only the mail dispatch
// differs, off the request path.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	token := security.NewToken()
	expiresAt := s.now().Add(ResetWindow)

	found, err := s.accounts.SetPasswordReset(ctx, email, token, expiresAt)
	if err != nil {
		return err
	}
	if found {
		s.mail.Enqueue(resetRequestMessage(s.appURL, email, token))
	}
	return nil
}

// CheckPasswordReset reports whether the (email, token) pair is currently
// redeemable: token matches, is not the sentinel, and expiry is strictly in
// the future.
func (s *AccountService) CheckPasswordReset(ctx context.Context, email, token string) (bool, error) {
	if token == domain.NoResetToken || token == "" {
		return false, nil
	}
	return s.accounts.HasPendingReset(ctx, email, token, s.now())
}

// ResetPassword redeems a reset token. The store applies the token check,
// the new hash+salt and the token invalidation as one conditional update, so
// the token is single-use even under concurrent redemption.
func (s *AccountService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if token == domain.NoResetToken || token == "" {
		return domain.ErrInvalidToken
	}

	salt := security.NewSalt()
	hash, err := s.hasher.Hash(newPassword, salt)
	if err != nil {
		return err
	}

	ok, err := s.accounts.RedeemPasswordReset(ctx, email, token, hash, salt, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidToken
	}

	s.mail.Enqueue(resetCompletedMessage(email))

	s.log.Info().Str("email", email).Msg("password reset completed")
	return nil
}
