package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

func TestMongoDevice_RoundTrip(t *testing.T) {
	in := domain.Device{
		ID:           5,
		CustomerName: "Bob",
		DeviceName:   "Phone",
		Amount:       100,
		Date:         "2024-01-01",
		Status:       domain.StatusPending,
		OwnerID:      3,
	}

	raw, err := bson.Marshal(toMongoDevice(&in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["owner_id"] != int64(3) || doc["_id"] != int64(5) {
		t.Fatalf("unexpected document keys: %v", doc)
	}

	var back mongoDevice
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal device: %v", err)
	}
	if back.toDomain() != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", back.toDomain(), in)
	}
}

func TestOwnedBy_ScopesByOwnerAndID(t *testing.T) {
	f := ownedBy(3, 5)
	if f["_id"] != int64(5) || f["owner_id"] != int64(3) || len(f) != 2 {
		t.Fatalf("unexpected filter: %v", f)
	}
}
