package club

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

// CategoryCount is one bucket of the clubs-by-category aggregation.
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	FindByID(ctx context.Context, id string) (*models.Club, error)
	FindByName(ctx context.Context, name string) (*models.Club, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Club, error)
	List(ctx context.Context, category, search string) ([]models.Club, error)
	FindByCreatedRange(ctx context.Context, from, to time.Time) ([]models.Club, error)
	FindWithPendingMembers(ctx context.Context) ([]models.Club, error)
	AddMember(ctx context.Context, clubID primitive.ObjectID, member models.Membership) error
	UpdateMemberStatus(ctx context.Context, clubID, userID primitive.ObjectID, status string) error
	AddEvent(ctx context.Context, clubID, eventID primitive.ObjectID) error
	CountActive(ctx context.Context) (int64, error)
	CountCreatedInRange(ctx context.Context, from, to time.Time) (int64, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
}

type ClubRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewClubRepository(mongodb *database.MongodbDB) ClubRepository {
	return &ClubRepositoryImpl{
		Collection: mongodb.DB.Collection("clubs"),
	}
}

func (r *ClubRepositoryImpl) Create(ctx context.Context, club *models.Club) error {
	_, err := r.Collection.InsertOne(ctx, club)
	return err
}

func (r *ClubRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Club, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var club models.Club
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&club); err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepositoryImpl) FindByName(ctx context.Context, name string) (*models.Club, error) {
	var club models.Club
	if err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&club); err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Club, error) {
	if len(ids) == 0 {
		return []models.Club{}, nil
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clubs []models.Club
	if err = cursor.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *ClubRepositoryImpl) List(ctx context.Context, category, search string) ([]models.Club, error) {
	filter := bson.M{"is_active": true}

	if category != "" && category != "all" {
		filter["category"] = category
	}
	if search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clubs []models.Club
	if err = cursor.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *ClubRepositoryImpl) FindByCreatedRange(ctx context.Context, from, to time.Time) ([]models.Club, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lte": to}}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clubs []models.Club
	if err = cursor.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *ClubRepositoryImpl) FindWithPendingMembers(ctx context.Context) ([]models.Club, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"members.status": models.MembershipPending})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clubs []models.Club
	if err = cursor.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *ClubRepositoryImpl) AddMember(ctx context.Context, clubID primitive.ObjectID, member models.Membership) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": clubID},
		bson.M{"$push": bson.M{"members": member}},
	)
	return err
}

func (r *ClubRepositoryImpl) UpdateMemberStatus(ctx context.Context, clubID, userID primitive.ObjectID, status string) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": clubID, "members.user_id": userID},
		bson.M{"$set": bson.M{"members.$.status": status}},
	)
	return err
}

func (r *ClubRepositoryImpl) AddEvent(ctx context.Context, clubID, eventID primitive.ObjectID) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": clubID},
		bson.M{"$push": bson.M{"events": eventID}},
	)
	return err
}

func (r *ClubRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"is_active": true})
}

func (r *ClubRepositoryImpl) CountCreatedInRange(ctx context.Context, from, to time.Time) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lte": to}})
}

func (r *ClubRepositoryImpl) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []CategoryCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
