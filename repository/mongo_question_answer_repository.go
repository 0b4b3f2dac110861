package repository

import (
	"context"
	"fmt"
	"time"

	"transparency-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the ones used by earlier deployments of the service
const (
	questionAnswerCollection = "questionandanswers"
	reportCollection         = "reports"
	recentCollection         = "recents"
)

// MongoQuestionAnswerRepository handles document operations for interview turns
type MongoQuestionAnswerRepository struct {
	coll *mongo.Collection
}

// NewMongoQuestionAnswerRepository creates a new question answer repository
func NewMongoQuestionAnswerRepository(db *mongo.Database) *MongoQuestionAnswerRepository {
	return &MongoQuestionAnswerRepository{coll: db.Collection(questionAnswerCollection)}
}

// Upsert creates or replaces a turn
func (r *MongoQuestionAnswerRepository) Upsert(ctx context.Context, qa *models.QuestionAnswer) error {
	now := time.Now().UTC()
	filter := bson.M{"userId": qa.UserID, "chatId": qa.ChatID, "qno": qa.QNo}
	update := bson.M{
		"$set": bson.M{
			"question":  qa.Question,
			"answer":    qa.Answer,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(qa); err != nil {
		return fmt.Errorf("failed to upsert question %d: %w", qa.QNo, err)
	}
	return nil
}

// ListByChat retrieves the turns of a chat
func (r *MongoQuestionAnswerRepository) ListByChat(ctx context.Context, userID, chatID string) ([]models.QuestionAnswer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "qno", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID, "chatId": chatID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}

	turns := make([]models.QuestionAnswer, 0)
	if err := cur.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return turns, nil
}

// DeleteByChat deletes the turns of a chat
func (r *MongoQuestionAnswerRepository) DeleteByChat(ctx context.Context, userID, chatID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID, "chatId": chatID})
	return err
}

// EnsureMongoIndexes creates the indexes the repositories rely on
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			collection: questionAnswerCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "chatId", Value: 1}, {Key: "qno", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: reportCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "chatId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: recentCollection,
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			},
		},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}
