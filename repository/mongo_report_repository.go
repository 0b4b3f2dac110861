package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transparency-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReportRepository handles document operations for reports
type MongoReportRepository struct {
	coll *mongo.Collection
}

// NewMongoReportRepository creates a new report repository
func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{coll: db.Collection(reportCollection)}
}

// Save creates or replaces the report of a chat
func (r *MongoReportRepository) Save(ctx context.Context, report *models.Report) error {
	now := time.Now().UTC()
	filter := bson.M{"userId": report.UserID, "chatId": report.ChatID}
	update := bson.M{
		"$set": bson.M{
			"reportName":        report.ReportName,
			"transparencyScore": report.TransparencyScore,
			"reportSummary":     report.ReportSummary,
			"report":            report.Report,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetByChat retrieves the report of a chat
func (r *MongoReportRepository) GetByChat(ctx context.Context, userID, chatID string) (*models.Report, error) {
	report := &models.Report{}
	err := r.coll.FindOne(ctx, bson.M{"userId": userID, "chatId": chatID}).Decode(report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

// DeleteByChat deletes the report of a chat
func (r *MongoReportRepository) DeleteByChat(ctx context.Context, userID, chatID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "chatId": chatID})
	return err
}

// MongoRecentRepository handles document operations for report listings
type MongoRecentRepository struct {
	coll *mongo.Collection
}

// NewMongoRecentRepository creates a new recent repository
func NewMongoRecentRepository(db *mongo.Database) *MongoRecentRepository {
	return &MongoRecentRepository{coll: db.Collection(recentCollection)}
}

// Save creates or renames the listing entry of a chat
func (r *MongoRecentRepository) Save(ctx context.Context, recent *models.Recent) error {
	now := time.Now().UTC()
	filter := bson.M{"userId": recent.UserID, "chatId": recent.ChatID}
	update := bson.M{
		"$set":         bson.M{"reportName": recent.ReportName, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(recent); err != nil {
		return fmt.Errorf("failed to save recent: %w", err)
	}
	return nil
}

// ListByUser retrieves the listing of a user, newest first
func (r *MongoRecentRepository) ListByUser(ctx context.Context, userID string) ([]models.Recent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recents: %w", err)
	}

	recents := make([]models.Recent, 0)
	if err := cur.All(ctx, &recents); err != nil {
		return nil, fmt.Errorf("failed to decode recents: %w", err)
	}
	return recents, nil
}

// DeleteByChat deletes the listing entry of a chat
func (r *MongoRecentRepository) DeleteByChat(ctx context.Context, userID, chatID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "chatId": chatID})
	return err
}
