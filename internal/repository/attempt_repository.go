package repository

import (
	"context"
	"errors"

	"quiz-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("quiz_attempts")}
}

// Save inserts the attempt on first use and assigns its id; afterwards it
// writes back the mutable fields under the same id.
func (r *AttemptRepository) Save(ctx context.Context, attempt *models.Attempt) (*models.Attempt, error) {
	if attempt.ID == "" {
		res, err := r.Col.InsertOne(ctx, attempt)
		if err != nil {
			return nil, err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			attempt.ID = oid.Hex()
		}
		return attempt, nil
	}

	objID, err := primitive.ObjectIDFromHex(attempt.ID)
	if err != nil {
		return nil, err
	}
	update := bson.M{
		"answers":        attempt.Answers,
		"score":          attempt.Score,
		"time_remaining": attempt.TimeRemaining,
		"is_active":      attempt.IsActive,
	}
	if attempt.CompletedAt != nil {
		update["completed_at"] = attempt.CompletedAt
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.Attempt, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // not a stored id
	}
	var attempt models.Attempt
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&attempt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindByUserAndQuiz(ctx context.Context, userID, quizID string) ([]models.Attempt, error) {
	return r.findAll(ctx, bson.M{"user_id": userID, "quiz_id": quizID}, nil)
}

func (r *AttemptRepository) FindActiveByUserAndQuiz(ctx context.Context, userID, quizID string) (*models.Attempt, error) {
	var attempt models.Attempt
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "quiz_id": quizID, "is_active": true}).Decode(&attempt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindMostRecentByUserAndQuiz(ctx context.Context, userID, quizID string) (*models.Attempt, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})
	var attempt models.Attempt
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "quiz_id": quizID}, opts).Decode(&attempt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindAll(ctx context.Context) ([]models.Attempt, error) {
	return r.findAll(ctx, bson.M{}, nil)
}

func (r *AttemptRepository) FindByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	return r.findAll(ctx, bson.M{"user_id": userID}, opts)
}

func (r *AttemptRepository) FindByQuiz(ctx context.Context, quizID string) ([]models.Attempt, error) {
	return r.findAll(ctx, bson.M{"quiz_id": quizID}, nil)
}

func (r *AttemptRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Attempt, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.Col.Find(ctx, filter, opts)
	} else {
		cur, err = r.Col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.Attempt
	for cur.Next(ctx) {
		var a models.Attempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, cur.Err()
}
