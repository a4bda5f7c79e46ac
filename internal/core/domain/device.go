package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeviceStatus is the repair/processing state of a tracked device.
type DeviceStatus string

const (
	StatusPending    DeviceStatus = "Pending"
	StatusInProgress DeviceStatus = "In Progress"
	StatusCompleted  DeviceStatus = "Completed"
	StatusCancelled  DeviceStatus = "Cancelled"
)

// DateLayout is the calendar-date format used for Device.Date.
const DateLayout = "2006-01-02"

var validStatuses = map[DeviceStatus]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is one of the predefined statuses.
func (s DeviceStatus) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

// Statuses lists the predefined statuses in display order.
func Statuses() []DeviceStatus {
	return []DeviceStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
}

// Device is a customer's device record owned by exactly one user.
type Device struct {
	ID           int64        `json:"id"`
	CustomerName string       `json:"customerName"`
	DeviceName   string       `json:"deviceName"`
	Amount       float64      `json:"amount"`
	Date         string       `json:"date"`
	Status       DeviceStatus `json:"status"`
	OwnerID      int64        `json:"userId"`
}

// DeviceFields holds the client-editable part of a device.
type DeviceFields struct {
	CustomerName string
	DeviceName   string
	Amount       float64
	Date         string
	Status       DeviceStatus
}

// Validate checks the fields and returns an error wrapping ErrValidation.
func (f DeviceFields) Validate() error {
	var problems []string
	if strings.TrimSpace(f.CustomerName) == "" {
		problems = append(problems, "customerName is required")
	}
	if strings.TrimSpace(f.DeviceName) == "" {
		problems = append(problems, "deviceName is required")
	}
	if f.Amount < 0 {
		problems = append(problems, "amount must not be negative")
	}
	if _, err := time.Parse(DateLayout, f.Date); err != nil {
		problems = append(problems, "date must be YYYY-MM-DD")
	}
	if !f.Status.Valid() {
		problems = append(problems, fmt.Sprintf("status must be one of %v", Statuses()))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// Apply returns a device with the given owner, id and fields.
func (f DeviceFields) Apply(ownerID, id int64) *Device {
	return &Device{
		ID:           id,
		CustomerName: f.CustomerName,
		DeviceName:   f.DeviceName,
		Amount:       f.Amount,
		Date:         f.Date,
		Status:       f.Status,
		OwnerID:      ownerID,
	}
}
