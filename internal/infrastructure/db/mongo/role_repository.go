package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/examplecore/account-service/internal/core/domain"
)

const (
	roleCollection        = "roles"
	accountRoleCollection = "account_roles"
)

// RoleRepository persists roles and the account-role association. The
// association is its own collection with a unique (account_id, role_id)
// index rather than an embedded array, matching the relational model.
type RoleRepository struct {
	roles        *mongo.Collection
	accountRoles *mongo.Collection
	accounts     *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{
		roles:        db.Collection(roleCollection),
		accountRoles: db.Collection(accountRoleCollection),
		accounts:     db.Collection(accountCollection),
	}
}

type roleDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
}

type accountRoleDoc struct {
	AccountID string    `bson:"account_id"`
	RoleID    string    `bson:"role_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *RoleRepository) InsertRole(ctx context.Context, role *domain.Role) error {
	doc := roleDoc{ID: role.ID, Name: role.Name, CreatedAt: role.CreatedAt}
	if _, err := r.roles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleExists
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	cur, err := r.roles.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Role
	for cur.Next(ctx) {
		var doc roleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		out = append(out, domain.Role{ID: doc.ID, Name: doc.Name, CreatedAt: doc.CreatedAt})
	}
	return out, cur.Err()
}

func (r *RoleRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var doc roleDoc
	if err := r.roles.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID, Name: doc.Name, CreatedAt: doc.CreatedAt}, nil
}

func (r *RoleRepository) FindRolesByEmail(ctx context.Context, email string) ([]domain.Role, error) {
	var account accountDoc
	if err := r.accounts.FindOne(ctx, bson.M{"email": email}).Decode(&account); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find account for roles: %w", err)
	}

	cur, err := r.accountRoles.Find(ctx, bson.M{"account_id": account.ID})
	if err != nil {
		return nil, fmt.Errorf("find account roles: %w", err)
	}
	defer cur.Close(ctx)

	var roleIDs []string
	for cur.Next(ctx) {
		var doc accountRoleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account role: %w", err)
		}
		roleIDs = append(roleIDs, doc.RoleID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(roleIDs) == 0 {
		return nil, nil
	}

	roleCur, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": roleIDs}})
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}
	defer roleCur.Close(ctx)

	var out []domain.Role
	for roleCur.Next(ctx) {
		var doc roleDoc
		if err := roleCur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		out = append(out, domain.Role{ID: doc.ID, Name: doc.Name, CreatedAt: doc.CreatedAt})
	}
	return out, roleCur.Err()
}

// AssignRole relies on the unique compound index to collapse duplicate
// assignments into a no-op.
func (r *RoleRepository) AssignRole(ctx context.Context, accountID, roleID string, now time.Time) error {
	doc := accountRoleDoc{AccountID: accountID, RoleID: roleID, CreatedAt: now}
	if _, err := r.accountRoles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func (r *RoleRepository) UnassignRole(ctx context.Context, accountID, roleID string) error {
	if _, err := r.accountRoles.DeleteOne(ctx, bson.M{"account_id": accountID, "role_id": roleID}); err != nil {
		return fmt.Errorf("unassign role: %w", err)
	}
	return nil
}
