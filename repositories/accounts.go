package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"yt-insight/db"
	"yt-insight/models"
)

var ErrDuplicateEmail = errors.New("email already registered")

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(d *mongo.Database) *AccountRepository {
	return &AccountRepository{col: d.Collection(db.CollectionAccounts)}
}

// FindByEmail returns the account for email, or nil when none exists.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := r.col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Insert(ctx context.Context, a models.Account) error {
	a.Email = normalizeEmail(a.Email)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
