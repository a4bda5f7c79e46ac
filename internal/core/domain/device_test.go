package domain

import (
	"errors"
	"strings"
	"testing"
)

func validFields() DeviceFields {
	return DeviceFields{
		CustomerName: "Bob",
		DeviceName:   "Phone",
		Amount:       100,
		Date:         "2024-01-01",
		Status:       StatusPending,
	}
}

func TestDeviceFields_Validate_OK(t *testing.T) {
	if err := validFields().Validate(); err != nil {
		t.Fatalf("expected valid fields, got %v", err)
	}
}

func TestDeviceFields_Validate_Errors(t *testing.T) {
	cases := map[string]struct {
		mutate func(*DeviceFields)
		want   string
	}{
		"blank customer": {func(f *DeviceFields) { f.CustomerName = "  " }, "customerName"},
		"blank device":   {func(f *DeviceFields) { f.DeviceName = "" }, "deviceName"},
		"negative":       {func(f *DeviceFields) { f.Amount = -1 }, "amount"},
		"bad date":       {func(f *DeviceFields) { f.Date = "01/02/2024" }, "date"},
		"bad status":     {func(f *DeviceFields) { f.Status = "Lost" }, "status"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := validFields()
			tc.mutate(&f)
			err := f.Validate()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected message to mention %q, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestDeviceStatus_Valid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Fatalf("status %q should be valid", s)
		}
	}
	if DeviceStatus("pending").Valid() {
		t.Fatalf("status matching is case-sensitive")
	}
}

func TestDeviceFields_Apply(t *testing.T) {
	d := validFields().Apply(7, 42)
	if d.OwnerID != 7 || d.ID != 42 || d.CustomerName != "Bob" || d.Status != StatusPending {
		t.Fatalf("unexpected device: %+v", d)
	}
}
