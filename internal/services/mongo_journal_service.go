package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moodler-app/backend/internal/models"
	"github.com/moodler-app/backend/pkg/utils"
)

// MongoJournalService stores entries in the entries collection. When an
// encryption key is configured, entry content is encrypted at rest; titles
// and emotion labels stay plaintext so list views and aggregation still work
// without decrypting every document.
type MongoJournalService struct {
	entries       *mongo.Collection
	encryptionKey []byte // nil disables at-rest encryption
}

func NewMongoJournalService(db *mongo.Database, encryptionKey []byte) *MongoJournalService {
	return &MongoJournalService{
		entries:       db.Collection("entries"),
		encryptionKey: encryptionKey,
	}
}

func (s *MongoJournalService) Save(ctx context.Context, entry *models.Entry) error {
	defaultEntry(entry)

	stored := *entry
	if s.encryptionKey != nil {
		encrypted, err := utils.Encrypt(s.encryptionKey, entry.Content)
		if err != nil {
			return fmt.Errorf("encrypting entry content: %w", err)
		}
		stored.Content = encrypted
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.entries.ReplaceOne(ctx, bson.M{"_id": entry.ID, "owner_id": entry.OwnerID}, stored, opts); err != nil {
		// The owner-scoped filter misses when the id belongs to another user,
		// so the upsert tries an insert and collides on _id. Surface that the
		// same way as any other lookup of an entry the caller doesn't own.
		if mongo.IsDuplicateKeyError(err) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("saving entry: %w", err)
	}
	return nil
}

func (s *MongoJournalService) List(ctx context.Context, ownerID string, opts ListOptions) ([]models.Entry, error) {
	filter := bson.M{"owner_id": ownerID}
	if opts.FavouritesOnly {
		filter["is_favourite"] = true
	}

	findOpts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: 1},
	})

	cursor, err := s.entries.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.Entry, 0)
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}

	if s.encryptionKey != nil {
		for i := range entries {
			content, err := utils.Decrypt(s.encryptionKey, entries[i].Content)
			if err != nil {
				return nil, fmt.Errorf("decrypting entry %s: %w", entries[i].ID, err)
			}
			entries[i].Content = content
		}
	}

	return entries, nil
}

func (s *MongoJournalService) Delete(ctx context.Context, ownerID, entryID string) error {
	// DeleteOne on a missing document matches zero and is not an error, which
	// gives Delete its idempotency for free.
	if _, err := s.entries.DeleteOne(ctx, bson.M{"_id": entryID, "owner_id": ownerID}); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

func (s *MongoJournalService) ToggleFavourite(ctx context.Context, ownerID, entryID string) (*models.Entry, error) {
	var entry models.Entry
	err := s.entries.FindOne(ctx, bson.M{"_id": entryID, "owner_id": ownerID}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrEntryNotFound
	} else if err != nil {
		return nil, fmt.Errorf("loading entry: %w", err)
	}

	entry.IsFavourite = !entry.IsFavourite
	_, err = s.entries.UpdateOne(ctx,
		bson.M{"_id": entryID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"is_favourite": entry.IsFavourite}},
	)
	if err != nil {
		return nil, fmt.Errorf("updating favourite flag: %w", err)
	}

	if s.encryptionKey != nil {
		content, err := utils.Decrypt(s.encryptionKey, entry.Content)
		if err != nil {
			return nil, fmt.Errorf("decrypting entry %s: %w", entry.ID, err)
		}
		entry.Content = content
	}

	return &entry, nil
}
