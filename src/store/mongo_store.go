package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goodfoods/concierge/src/domain"
)

// MongoStore implements Store on MongoDB. Reservation IDs come from an
// atomic counter document so they stay numeric and are never reused.
type MongoStore struct {
	client       *mongo.Client
	restaurants  *mongo.Collection
	reservations *mongo.Collection
	counters     *mongo.Collection
}

const mongoCloseTimeout = 5 * time.Second

func NewMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(database)
	return &MongoStore{
		client:       client,
		restaurants:  db.Collection("restaurants"),
		reservations: db.Collection("reservations"),
		counters:     db.Collection("counters"),
	}, nil
}

type mongoRestaurant struct {
	ID                int64    `bson:"_id"`
	Name              string   `bson:"name"`
	Area              string   `bson:"area"`
	City              string   `bson:"city"`
	Cuisine           string   `bson:"cuisine"`
	Features          []string `bson:"features"`
	AvgPricePerPerson int      `bson:"avg_price_per_person"`
	SeatingCapacity   int      `bson:"seating_capacity"`
	OpeningTime       string   `bson:"opening_time"`
	ClosingTime       string   `bson:"closing_time"`
}

type mongoReservation struct {
	ID              int64     `bson:"_id"`
	RestaurantID    int64     `bson:"restaurant_id"`
	CustomerName    string    `bson:"customer_name"`
	Phone           string    `bson:"phone"`
	PartySize       int       `bson:"party_size"`
	At              time.Time `bson:"at"`
	SpecialRequests string    `bson:"special_requests"`
	Status          string    `bson:"status"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func (m mongoRestaurant) toDomain() domain.Restaurant {
	return domain.Restaurant(m)
}

func (m mongoReservation) toDomain() domain.Reservation {
	return domain.Reservation{
		ID:              m.ID,
		RestaurantID:    m.RestaurantID,
		CustomerName:    m.CustomerName,
		Phone:           m.Phone,
		PartySize:       m.PartySize,
		At:              m.At,
		SpecialRequests: m.SpecialRequests,
		Status:          domain.ReservationStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (ms *MongoStore) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	var doc mongoRestaurant
	err := ms.restaurants.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Restaurant{}, err
	}
	return doc.toDomain(), nil
}

func (ms *MongoStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	cur, err := ms.restaurants.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Restaurant
	for cur.Next(ctx) {
		var doc mongoRestaurant
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (ms *MongoStore) SeedRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	count, err := ms.restaurants.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	docs := make([]any, 0, len(restaurants))
	for _, r := range restaurants {
		docs = append(docs, mongoRestaurant(r))
	}
	_, err = ms.restaurants.InsertMany(ctx, docs)
	return err
}

func (ms *MongoStore) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	id, err := ms.nextID(ctx)
	if err != nil {
		return domain.Reservation{}, err
	}
	now := time.Now().UTC()
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	doc := mongoReservation{
		ID:              r.ID,
		RestaurantID:    r.RestaurantID,
		CustomerName:    r.CustomerName,
		Phone:           r.Phone,
		PartySize:       r.PartySize,
		At:              r.At.UTC(),
		SpecialRequests: r.SpecialRequests,
		Status:          string(r.Status),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := ms.reservations.InsertOne(ctx, doc); err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

func (ms *MongoStore) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	var doc mongoReservation
	err := ms.reservations.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Reservation{}, err
	}
	return doc.toDomain(), nil
}

func (ms *MongoStore) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	res, err := ms.reservations.UpdateOne(ctx, bson.M{"_id": r.ID}, bson.M{"$set": bson.M{
		"party_size": r.PartySize,
		"at":         r.At.UTC(),
		"status":     string(r.Status),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (ms *MongoStore) ReservationsByPhone(ctx context.Context, phone string) ([]domain.Reservation, error) {
	cur, err := ms.reservations.Find(ctx, bson.M{"phone": phone}, options.Find().SetSort(bson.M{"at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Reservation
	for cur.Next(ctx) {
		var doc mongoReservation
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (ms *MongoStore) ActivePartySum(ctx context.Context, restaurantID int64, at time.Time) (int, error) {
	cur, err := ms.reservations.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"restaurant_id": restaurantID,
			"at":            at.UTC(),
			"status":        string(domain.StatusActive),
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$party_size"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var doc struct {
			Total int `bson:"total"`
		}
		if err := cur.Decode(&doc); err != nil {
			return 0, err
		}
		return doc.Total, nil
	}
	return 0, cur.Err()
}

func (ms *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return ms.client.Disconnect(ctx)
}

func (ms *MongoStore) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	res := ms.counters.FindOneAndUpdate(ctx, bson.M{"_id": "reservations"}, bson.M{"$inc": bson.M{"seq": 1}}, opts)
	if res.Err() != nil {
		return 0, res.Err()
	}
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

var _ Store = (*MongoStore)(nil)
