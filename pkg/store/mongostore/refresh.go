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

const refreshCollection = "refresh_tokens"

type refreshDoc struct {
	AccessToken  string    `bson:"accessToken"`
	RefreshToken string    `bson:"refreshToken"`
	UserID       string    `bson:"userId"`
	IssuedAt     time.Time `bson:"issuedAt"`
}

// RefreshTokens is a MongoDB auth.RefreshStore. Records are consumed with
// FindOneAndDelete and removed by the server's TTL monitor once expired.
type RefreshTokens struct {
	coll  *mongo.Collection
	ttl   time.Duration
	clock auth.Clock
}

func NewRefreshTokens(db *mongo.Database, ttl time.Duration, clock auth.Clock) *RefreshTokens {
	if clock == nil {
		clock = auth.SystemClock
	}
	return &RefreshTokens{coll: db.Collection(refreshCollection), ttl: ttl, clock: clock}
}

func (s *RefreshTokens) Put(ctx context.Context, rec auth.RefreshRecord) error {
	_, err := s.coll.InsertOne(ctx, refreshDoc{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		UserID:       rec.UserID.String(),
		IssuedAt:     rec.IssuedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

// Consume deletes and returns the record matching both tokens. The issuedAt
// bound in the filter keeps expired records from matching before the TTL
// monitor removes them.
func (s *RefreshTokens) Consume(ctx context.Context, accessToken, refreshToken string) (*auth.RefreshRecord, error) {
	filter := bson.M{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"issuedAt":     bson.M{"$gt": s.clock.Now().Add(-s.ttl)},
	}

	var doc refreshDoc
	if err := s.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if mongox.IsNotFoundError(err) {
			return nil, auth.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse refresh token owner %q: %w", doc.UserID, err)
	}

	return &auth.RefreshRecord{
		AccessToken:  doc.AccessToken,
		RefreshToken: doc.RefreshToken,
		UserID:       userID,
		IssuedAt:     doc.IssuedAt,
	}, nil
}

func (s *RefreshTokens) indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "refreshToken", Value: 1}},
			Options: options.Index().SetName("refresh_token_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "issuedAt", Value: 1}},
			Options: options.Index().SetName("issued_at_ttl").SetExpireAfterSeconds(int32(s.ttl.Seconds())),
		},
	}
}

var _ auth.RefreshStore = (*RefreshTokens)(nil)
