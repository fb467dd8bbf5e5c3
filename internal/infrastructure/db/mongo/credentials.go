package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

const (
	credentialsCollection = "credentials"
	defaultSessionID      = "default"
)

// CredentialStore keeps the pair in a single document so that both values
// are replaced or removed in one write.
type CredentialStore struct {
	coll      *mongo.Collection
	sessionID string
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{coll: db.Collection(credentialsCollection), sessionID: defaultSessionID}
}

type credentialDoc struct {
	ID           string `bson:"_id"`
	AccessToken  string `bson:"access_token"`
	RefreshToken string `bson:"refresh_token"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (s *CredentialStore) Load(ctx context.Context) (domain.CredentialPair, error) {
	ctx, cancel := context.WithTimeout(ctx, selectionTimeout)
	defer cancel()

	var doc credentialDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.CredentialPair{}, nil
	}
	if err != nil {
		return domain.CredentialPair{}, fmt.Errorf("load credentials: %w", err)
	}

	pair := domain.CredentialPair{Access: doc.AccessToken, Refresh: doc.RefreshToken}
	if !pair.Complete() {
		return domain.CredentialPair{}, nil
	}
	return pair, nil
}

func (s *CredentialStore) Save(ctx context.Context, pair domain.CredentialPair) error {
	if !pair.Complete() {
		return domain.ErrIncompleteCredentials
	}
	ctx, cancel := context.WithTimeout(ctx, selectionTimeout)
	defer cancel()

	doc := credentialDoc{
		ID:           s.sessionID,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		UpdatedAt:    time.Now().UTC().Unix(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.sessionID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, selectionTimeout)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.sessionID}); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
