package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

type deviceRequest struct {
	CustomerName string      `json:"customerName" validate:"required"`
	DeviceName   string      `json:"deviceName"   validate:"required"`
	Amount       amountField `json:"amount"       validate:"gte=0"`
	Date         string      `json:"date"         validate:"required,datetime=2006-01-02"`
	Status       string      `json:"status"       validate:"required,device_status"`
}

func (r deviceRequest) toFields() domain.DeviceFields {
	return domain.DeviceFields{
		CustomerName: strings.TrimSpace(r.CustomerName),
		DeviceName:   strings.TrimSpace(r.DeviceName),
		Amount:       float64(r.Amount),
		Date:         r.Date,
		Status:       domain.DeviceStatus(r.Status),
	}
}

// amountField accepts 100, 100.5, "100" and "100.5". Form inputs arrive as strings.
type amountField float64

var errAmountNotNumber = errors.New("amount must be a number")

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errAmountNotNumber
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errAmountNotNumber
	}
	*a = amountField(f)
	return nil
}
