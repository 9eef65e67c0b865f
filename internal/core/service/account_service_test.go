package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/examplecore/account-service/internal/core/domain"
	"github.com/examplecore/account-service/internal/core/ports"
	"github.com/examplecore/account-service/internal/security"
)

const testAppURL = "https://app.example.com"

type fixture struct {
	repo *stubAccountRepo
	mail *stubDispatcher
	svc  *AccountService
}

func newFixture() *fixture {
	repo := newStubAccountRepo()
	mail := &stubDispatcher{}
	hasher := security.NewPasswordHasher("test-pepper", bcrypt.MinCost)
	svc := NewAccountService(repo, hasher, mail, testAppURL, zerolog.Nop())
	return &fixture{repo: repo, mail: mail, svc: svc}
}

func (f *fixture) freeze(at time.Time) {
	f.svc.now = func() time.Time { return at }
}

func createInput() ports.CreateAccountInput {
	return ports.CreateAccountInput{
		Email:     "alice@example.com",
		Password:  "Passw0rd!",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestCreate_StoresUnverifiedAccount(t *testing.T) {
	f := newFixture()

	token, err := f.svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" || token == domain.NoResetToken {
		t.Fatalf("expected a verification token, got %q", token)
	}

	stored := f.repo.accounts["alice@example.com"]
	if stored == nil {
		t.Fatalf("account not stored")
	}
	if stored.Verified() {
		t.Fatalf("new account must start unverified")
	}
	if stored.PasswordHash == "Passw0rd!" || stored.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}
	if stored.Salt == "" {
		t.Fatalf("missing salt")
	}
	if stored.PasswordResetToken != domain.NoResetToken {
		t.Fatalf("new account must carry the reset sentinel, got %q", stored.PasswordResetToken)
	}
	if stored.EmailVerificationToken != token {
		t.Fatalf("returned token does not match stored token")
	}

	if len(f.mail.sent) != 1 {
		t.Fatalf("expected one verification email, got %d", len(f.mail.sent))
	}
	if f.mail.sent[0].To[0] != "alice@example.com" {
		t.Fatalf("verification email to wrong recipient: %v", f.mail.sent[0].To)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), createInput()); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateThenLogin(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	account, err := f.svc.Login(context.Background(), "alice@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account.Verified() {
		t.Fatalf("login immediately after create must return an unverified account")
	}
}

func TestLogin_UniformDenial(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Unknown account and wrong password must be indistinguishable.
	_, unknownErr := f.svc.Login(context.Background(), "nobody@example.com", "Passw0rd!")
	_, wrongErr := f.svc.Login(context.Background(), "alice@example.com", "wrong-password")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
}

func TestLogin_MisconfiguredPepper(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Swap in a hasher with no pepper: the failure must be the internal
	// misconfiguration error, not a credential denial.
	f.svc.hasher = security.NewPasswordHasher("", bcrypt.MinCost)
	if _, err := f.svc.Login(context.Background(), "alice@example.com", "Passw0rd!"); !errors.Is(err, domain.ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestUpdate_PasswordSwap(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	oldSalt := f.repo.accounts["alice@example.com"].Salt

	err := f.svc.Update(context.Background(), ports.UpdateAccountInput{
		Email:       "alice@example.com",
		OldPassword: "Passw0rd!",
		NewPassword: "N3wPassw0rd!",
		FirstName:   "Alicia",
		LastName:    "Smith",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if f.repo.accounts["alice@example.com"].Salt == oldSalt {
		t.Fatalf("expected a fresh salt with the new password")
	}
	if f.repo.accounts["alice@example.com"].FirstName != "Alicia" {
		t.Fatalf("first name not overwritten")
	}

	if _, err := f.svc.Login(context.Background(), "alice@example.com", "Passw0rd!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "alice@example.com", "N3wPassw0rd!"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestUpdate_WrongOldPassword(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := f.svc.Update(context.Background(), ports.UpdateAccountInput{
		Email:       "alice@example.com",
		OldPassword: "wrong",
		FirstName:   "Mallory",
		LastName:    "Smith",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if f.repo.accounts["alice@example.com"].FirstName == "Mallory" {
		t.Fatalf("profile changed despite failed authentication")
	}
}

func TestUpdate_NamesOnlyKeepsPassword(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	oldHash := f.repo.accounts["alice@example.com"].PasswordHash

	err := f.svc.Update(context.Background(), ports.UpdateAccountInput{
		Email:       "alice@example.com",
		OldPassword: "Passw0rd!",
		FirstName:   "Alicia",
		LastName:    "Jones",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.repo.accounts["alice@example.com"].PasswordHash != oldHash {
		t.Fatalf("password hash changed without a new password")
	}
}

func TestVerifyEmail_IdempotentFailure(t *testing.T) {
	f := newFixture()
	token, err := f.svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("first redemption: %v", err)
	}
	if !f.repo.accounts["alice@example.com"].Verified() {
		t.Fatalf("account not marked verified")
	}

	// Second redemption and a never-issued token must fail identically.
	usedErr := f.svc.VerifyEmail(context.Background(), token)
	unknownErr := f.svc.VerifyEmail(context.Background(), security.NewToken())
	if !errors.Is(usedErr, domain.ErrInvalidToken) || !errors.Is(unknownErr, domain.ErrInvalidToken) {
		t.Fatalf("expected identical ErrInvalidToken failures, got %v / %v", usedErr, unknownErr)
	}
}

func TestRequestPasswordReset_UniformResponse(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	f.mail.sent = nil

	if err := f.svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("known email: %v", err)
	}
	if err := f.svc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must also succeed, got %v", err)
	}

	// Only the internal found path dispatches mail.
	if len(f.mail.sent) != 1 {
		t.Fatalf("expected exactly one reset email, got %d", len(f.mail.sent))
	}
	if f.repo.accounts["alice@example.com"].PasswordResetToken == domain.NoResetToken {
		t.Fatalf("reset token not installed")
	}
}

func TestRequestPasswordReset_OverwritesPending(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	first := f.repo.accounts["alice@example.com"].PasswordResetToken

	if err := f.svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("second request: %v", err)
	}
	second := f.repo.accounts["alice@example.com"].PasswordResetToken
	if first == second {
		t.Fatalf("second request must overwrite the pending token")
	}

	// The superseded token is dead even though it never expired.
	ok, err := f.svc.CheckPasswordReset(context.Background(), "alice@example.com", first)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatalf("overwritten token still redeemable")
	}
}

func TestResetPassword_SingleUse(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	token := f.repo.accounts["alice@example.com"].PasswordResetToken

	if err := f.svc.ResetPassword(context.Background(), "alice@example.com", token, "N3wPassw0rd!"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	stored := f.repo.accounts["alice@example.com"]
	if stored.PasswordResetToken != domain.NoResetToken || stored.ResetExpiresAt != nil {
		t.Fatalf("reset state not cleared after redemption")
	}

	// The exact same request again, still inside the window, must fail.
	err := f.svc.ResetPassword(context.Background(), "alice@example.com", token, "An0therPass!")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}

	if _, err := f.svc.Login(context.Background(), "alice@example.com", "N3wPassw0rd!"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestResetPassword_SentinelToken(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The sentinel itself must never redeem, pending reset or not.
	err := f.svc.ResetPassword(context.Background(), "alice@example.com", domain.NoResetToken, "N3wPassw0rd!")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for sentinel, got %v", err)
	}
}

func TestPasswordReset_ExpiryBoundary(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	requestedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.freeze(requestedAt)
	if err := f.svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	token := f.repo.accounts["alice@example.com"].PasswordResetToken

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"one second before expiry", requestedAt.Add(ResetWindow - time.Second), true},
		{"exactly at expiry", requestedAt.Add(ResetWindow), false},
		{"one second past expiry", requestedAt.Add(ResetWindow + time.Second), false},
	}
	for _, tc := range cases {
		f.freeze(tc.at)
		ok, err := f.svc.CheckPasswordReset(context.Background(), "alice@example.com", token)
		if err != nil {
			t.Fatalf("%s: check: %v", tc.name, err)
		}
		if ok != tc.want {
			t.Fatalf("%s: redeemable=%v, want %v", tc.name, ok, tc.want)
		}
	}

	// Redemption at the edge must fail too, and leave the password alone.
	f.freeze(requestedAt.Add(ResetWindow))
	if err := f.svc.ResetPassword(context.Background(), "alice@example.com", token, "N3wPassw0rd!"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at expiry instant, got %v", err)
	}

	// One tick earlier it succeeds.
	f.freeze(requestedAt.Add(ResetWindow - time.Second))
	if err := f.svc.ResetPassword(context.Background(), "alice@example.com", token, "N3wPassw0rd!"); err != nil {
		t.Fatalf("reset inside window: %v", err)
	}
}

func TestGetInfo(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), createInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	info, err := f.svc.GetInfo(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if info.Email != "alice@example.com" || info.FirstName != "Alice" || info.LastName != "Smith" {
		t.Fatalf("unexpected projection: %+v", info)
	}

	if _, err := f.svc.GetInfo(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
