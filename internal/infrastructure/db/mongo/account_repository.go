package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/examplecore/account-service/internal/core/domain"
)

const accountCollection = "accounts"

// AccountRepository persists account records in a single MongoDB collection.
// All token redemption paths are expressed as single-document conditional
// updates, which is what makes them safe under concurrent attempts.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	PasswordHash string    `bson:"password_hash"`
	Salt         string    `bson:"salt"`
	CreatedAt    time.Time `bson:"created_at"`
	AboutMe      string    `bson:"about_me,omitempty"`

	EmailVerificationToken string     `bson:"email_verification_token"`
	VerifiedAt             *time.Time `bson:"verified_at"`

	PasswordResetToken string     `bson:"password_reset_token"`
	ResetExpiresAt     *time.Time `bson:"reset_expires_at"`
}

func toDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:                     a.ID,
		Email:                  a.Email,
		FirstName:              a.FirstName,
		LastName:               a.LastName,
		PasswordHash:           a.PasswordHash,
		Salt:                   a.Salt,
		CreatedAt:              a.CreatedAt,
		AboutMe:                a.AboutMe,
		EmailVerificationToken: a.EmailVerificationToken,
		VerifiedAt:             a.VerifiedAt,
		PasswordResetToken:     a.PasswordResetToken,
		ResetExpiresAt:         a.ResetExpiresAt,
	}
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:                     d.ID,
		Email:                  d.Email,
		FirstName:              d.FirstName,
		LastName:               d.LastName,
		PasswordHash:           d.PasswordHash,
		Salt:                   d.Salt,
		CreatedAt:              d.CreatedAt,
		AboutMe:                d.AboutMe,
		EmailVerificationToken: d.EmailVerificationToken,
		VerifiedAt:             d.VerifiedAt,
		PasswordResetToken:     d.PasswordResetToken,
		ResetExpiresAt:         d.ResetExpiresAt,
	}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) error {
	if _, err := r.coll.InsertOne(ctx, toDoc(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": account.Email},
		bson.M{"$set": bson.M{
			"first_name":    account.FirstName,
			"last_name":     account.LastName,
			"about_me":      account.AboutMe,
			"password_hash": account.PasswordHash,
			"salt":          account.Salt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// MarkEmailVerified matches on the token AND the timestamp still being
// unset, so a consumed token fails exactly like an unknown one.
func (r *AccountRepository) MarkEmailVerified(ctx context.Context, token string, now time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email_verification_token": token, "verified_at": nil},
		bson.M{"$set": bson.M{"verified_at": now}},
	)
	if err != nil {
		return false, fmt.Errorf("mark verified: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *AccountRepository) SetPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"password_reset_token": token,
			"reset_expires_at":     expiresAt,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("set password reset: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *AccountRepository) HasPendingReset(ctx context.Context, email, token string, now time.Time) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, pendingResetFilter(email, token, now))
	if err != nil {
		return false, fmt.Errorf("check password reset: %w", err)
	}
	return n > 0, nil
}

// RedeemPasswordReset installs the new credential and burns the token in one
// document update. Mongo's per-document atomicity guarantees at most one of
// two concurrent redemptions sees ModifiedCount==1.
func (r *AccountRepository) RedeemPasswordReset(ctx context.Context, email, token, newHash, newSalt string, now time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		pendingResetFilter(email, token, now),
		bson.M{"$set": bson.M{
			"password_hash":        newHash,
			"salt":                 newSalt,
			"password_reset_token": domain.NoResetToken,
			"reset_expires_at":     nil,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("redeem password reset: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func pendingResetFilter(email, token string, now time.Time) bson.M {
	return bson.M{
		"email":                email,
		"password_reset_token": bson.M{"$eq": token, "$ne": domain.NoResetToken},
		"reset_expires_at":     bson.M{"$gt": now},
	}
}
