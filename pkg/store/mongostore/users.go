package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/authkit/pkg/auth"
	mongox "github.com/dmitrymomot/authkit/pkg/mongo"
)

const usersCollection = "users"

type userDoc struct {
	ID                string     `bson:"_id"`
	Email             string     `bson:"email,omitempty"`
	DisplayName       string     `bson:"displayName"`
	PasswordHash      string     `bson:"passwordHash,omitempty"`
	Salt              string     `bson:"salt,omitempty"`
	VerificationToken string     `bson:"verificationToken,omitempty"`
	OAuth             []oauthDoc `bson:"oauth,omitempty"`
	CreatedAt         time.Time  `bson:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt"`
}

type oauthDoc struct {
	ID           string `bson:"id"`
	Provider     string `bson:"provider"`
	AccessToken  string `bson:"accessToken,omitempty"`
	RefreshToken string `bson:"refreshToken,omitempty"`
}

// Users is a MongoDB auth.UserDirectory.
type Users struct {
	coll *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(usersCollection)}
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Users) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *Users) FindByVerificationToken(ctx context.Context, token string) (*auth.User, error) {
	if token == "" {
		return nil, auth.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"verificationToken": token})
}

func (s *Users) FindByOAuthIdentity(ctx context.Context, provider, providerUserID string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"oauth": bson.M{"$elemMatch": bson.M{
		"id":       providerUserID,
		"provider": provider,
	}}})
}

func (s *Users) Create(ctx context.Context, user *auth.User) error {
	if _, err := s.coll.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongox.IsDuplicateKeyError(err) {
			return auth.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Users) Update(ctx context.Context, user *auth.User) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": user.ID.String()}, toUserDoc(user))
	if err != nil {
		if mongox.IsDuplicateKeyError(err) {
			return auth.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *Users) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if mongox.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toUser()
}

func (s *Users) indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "verificationToken", Value: 1}},
			Options: options.Index().SetName("verification_token").SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "oauth.provider", Value: 1}, {Key: "oauth.id", Value: 1}},
			Options: options.Index().
				SetName("oauth_identity_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"oauth": bson.M{"$exists": true}}),
		},
	}
}

func toUserDoc(u *auth.User) userDoc {
	doc := userDoc{
		ID:                u.ID.String(),
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		PasswordHash:      u.PasswordHash,
		Salt:              u.Salt,
		VerificationToken: u.VerificationToken,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	for _, l := range u.OAuthLinks {
		doc.OAuth = append(doc.OAuth, oauthDoc{
			ID:           l.ProviderUserID,
			Provider:     l.Provider,
			AccessToken:  l.AccessToken,
			RefreshToken: l.RefreshToken,
		})
	}
	return doc
}

func (d userDoc) toUser() (*auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id %q: %w", d.ID, err)
	}
	u := &auth.User{
		ID:                id,
		Email:             d.Email,
		DisplayName:       d.DisplayName,
		PasswordHash:      d.PasswordHash,
		Salt:              d.Salt,
		VerificationToken: d.VerificationToken,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	for _, l := range d.OAuth {
		u.OAuthLinks = append(u.OAuthLinks, auth.OAuthLink{
			ProviderUserID: l.ID,
			Provider:       l.Provider,
			AccessToken:    l.AccessToken,
			RefreshToken:   l.RefreshToken,
		})
	}
	return u, nil
}

var _ auth.UserDirectory = (*Users)(nil)
