package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

type DeviceRepository struct {
	coll    *mongo.Collection
	seq     *sequence
	timeout time.Duration
}

type mongoDevice struct {
	ID           int64   `bson:"_id"`
	CustomerName string  `bson:"customer_name"`
	DeviceName   string  `bson:"device_name"`
	Amount       float64 `bson:"amount"`
	Date         string  `bson:"date"`
	Status       string  `bson:"status"`
	OwnerID      int64   `bson:"owner_id"`
}

func toMongoDevice(d *domain.Device) mongoDevice {
	return mongoDevice{
		ID:           d.ID,
		CustomerName: d.CustomerName,
		DeviceName:   d.DeviceName,
		Amount:       d.Amount,
		Date:         d.Date,
		Status:       string(d.Status),
		OwnerID:      d.OwnerID,
	}
}

func (m mongoDevice) toDomain() domain.Device {
	return domain.Device{
		ID:           m.ID,
		CustomerName: m.CustomerName,
		DeviceName:   m.DeviceName,
		Amount:       m.Amount,
		Date:         m.Date,
		Status:       domain.DeviceStatus(m.Status),
		OwnerID:      m.OwnerID,
	}
}

// ownedBy is the filter every single-device operation goes through.
func ownedBy(ownerID, id int64) bson.M {
	return bson.M{"_id": id, "owner_id": ownerID}
}

func (r *DeviceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	var docs []mongoDevice
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}

	devices := make([]domain.Device, 0, len(docs))
	for _, doc := range docs {
		devices = append(devices, doc.toDomain())
	}
	return devices, nil
}

func (r *DeviceRepository) Create(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}

	created := *d
	created.ID = id
	if _, err := r.coll.InsertOne(ctx, toMongoDevice(&created)); err != nil {
		return nil, fmt.Errorf("insert device: %w", err)
	}
	return &created, nil
}

func (r *DeviceRepository) Update(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"customer_name": d.CustomerName,
		"device_name":   d.DeviceName,
		"amount":        d.Amount,
		"date":          d.Date,
		"status":        string(d.Status),
	}}

	var doc mongoDevice
	err := r.coll.FindOneAndUpdate(ctx, ownedBy(d.OwnerID, d.ID), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("update device: %w", err)
	}

	updated := doc.toDomain()
	return &updated, nil
}

func (r *DeviceRepository) Delete(ctx context.Context, ownerID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, ownedBy(ownerID, id))
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}
