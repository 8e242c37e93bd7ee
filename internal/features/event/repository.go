package event

import (
	"context"
	"time"

	"club-hub/internal/database"
	"club-hub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListFilter struct {
	Status   string
	ClubID   string
	Upcoming bool
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter ListFilter) ([]models.Event, error)
	FindByDateRange(ctx context.Context, from, to time.Time, clubID string) ([]models.Event, error)
	FindPending(ctx context.Context) ([]models.Event, error)
	FindRecent(ctx context.Context, limit int64) ([]models.Event, error)
	AddRegistration(ctx context.Context, eventID primitive.ObjectID, reg models.Registration) error
	SetReview(ctx context.Context, eventID primitive.ObjectID, update bson.M) error
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountUpcomingApproved(ctx context.Context) (int64, error)
	CountInRange(ctx context.Context, from, to time.Time) (int64, error)
}

type EventRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewEventRepository(mongodb *database.MongodbDB) EventRepository {
	return &EventRepositoryImpl{
		Collection: mongodb.DB.Collection("events"),
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *models.Event) error {
	_, err := r.Collection.InsertOne(ctx, event)
	return err
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]models.Event, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ClubID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ClubID)
		if err != nil {
			return nil, err
		}
		query["club_id"] = oid
	}
	if filter.Upcoming {
		query["date"] = bson.M{"$gte": time.Now()}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepositoryImpl) FindByDateRange(ctx context.Context, from, to time.Time, clubID string) ([]models.Event, error) {
	query := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	if clubID != "" {
		oid, err := primitive.ObjectIDFromHex(clubID)
		if err != nil {
			return nil, err
		}
		query["club_id"] = oid
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepositoryImpl) FindPending(ctx context.Context) ([]models.Event, error) {
	return r.List(ctx, ListFilter{Status: models.EventPending})
}

func (r *EventRepositoryImpl) FindRecent(ctx context.Context, limit int64) ([]models.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepositoryImpl) AddRegistration(ctx context.Context, eventID primitive.ObjectID, reg models.Registration) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$push": bson.M{"registered_participants": reg}},
	)
	return err
}

func (r *EventRepositoryImpl) SetReview(ctx context.Context, eventID primitive.ObjectID, update bson.M) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": update})
	return err
}

func (r *EventRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}

func (r *EventRepositoryImpl) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"status": status})
}

func (r *EventRepositoryImpl) CountUpcomingApproved(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{
		"date":   bson.M{"$gte": time.Now()},
		"status": models.EventApproved,
	})
}

func (r *EventRepositoryImpl) CountInRange(ctx context.Context, from, to time.Time) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"date": bson.M{"$gte": from, "$lte": to}})
}
