package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devtrack/device-tracker/internal/core/domain"
)

// Placeholders stay in ascending order: SQLite numbers $N parameters by
// first appearance, PostgreSQL by N.
const deviceColumns = `id, customer_name, device_name, amount, date, status, user_id`

type DeviceRepository struct {
	db      DBTX
	timeout time.Duration
}

func NewDeviceRepository(db DBTX, timeout time.Duration) *DeviceRepository {
	return &DeviceRepository{db: db, timeout: timeout}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (domain.Device, error) {
	var (
		d      domain.Device
		status string
	)
	err := row.Scan(&d.ID, &d.CustomerName, &d.DeviceName, &d.Amount, &d.Date, &status, &d.OwnerID)
	d.Status = domain.DeviceStatus(status)
	return d, err
}

func (r *DeviceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Device, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+deviceColumns+` FROM devices
		 WHERE user_id = $1
		 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	devices := []domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	return devices, nil
}

func (r *DeviceRepository) Create(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query :=
		`INSERT INTO devices (customer_name, device_name, amount, date, status, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	created := *d
	err := r.db.QueryRowContext(ctx, query,
		d.CustomerName, d.DeviceName, d.Amount, d.Date, string(d.Status), d.OwnerID).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert device: %w", err)
	}

	return &created, nil
}

func (r *DeviceRepository) Update(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query :=
		`UPDATE devices
		 SET customer_name = $1, device_name = $2, amount = $3, date = $4, status = $5
		 WHERE id = $6 AND user_id = $7
		 RETURNING ` + deviceColumns

	updated, err := scanDevice(r.db.QueryRowContext(ctx, query,
		d.CustomerName, d.DeviceName, d.Amount, d.Date, string(d.Status), d.ID, d.OwnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("update device: %w", err)
	}

	return &updated, nil
}

func (r *DeviceRepository) Delete(ctx context.Context, ownerID, id int64) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM devices WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if n == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}
