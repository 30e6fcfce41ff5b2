package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/jackc/pgx/v5"
)

// TryAddAlert inserts alert unless an active alert for the same
// (sensor_id, alert_type) already exists. The partial unique index on
// active alerts makes the check-and-insert atomic with respect to
// concurrent candidates; ON CONFLICT DO NOTHING turns the race loser
// into a no-op. Returns true when the row was inserted.
func (s *Storage) TryAddAlert(ctx context.Context, alert types.Alert) (bool, error) {
	if alert.ID == "" {
		return false, ErrNoID
	}

	args, err := alertArgs(alert)
	if err != nil {
		return false, err
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO alerts (alert_id, sensor_id, alert_type, severity, quality_level, message, data, is_active, created_at, expires_at)
		VALUES (@alert_id, @sensor_id, @alert_type, @severity, @quality_level, @message, @data, TRUE, @created_at, @expires_at)
		ON CONFLICT (sensor_id, alert_type) WHERE is_active DO NOTHING
	`, args)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	return tag.RowsAffected() == 1, nil
}

func alertArgs(alert types.Alert) (pgx.NamedArgs, error) {
	var data []byte
	if alert.Data != nil {
		var err error
		data, err = json.Marshal(alert.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
		}
	}

	return pgx.NamedArgs{
		"alert_id":      alert.ID,
		"sensor_id":     alert.SensorID,
		"alert_type":    alert.AlertType,
		"severity":      int(alert.Severity),
		"quality_level": alert.QualityLevel,
		"message":       alert.Message,
		"data":          data,
		"is_active":     alert.IsActive,
		"created_at":    alert.CreatedAt.UTC(),
		"expires_at":    alert.ExpiresAt.UTC(),
	}, nil
}

const alertColumns = `alert_id, sensor_id, alert_type, severity, quality_level, message, data, is_active, created_at, expires_at, acknowledged_by, acknowledged_at, resolved_by, resolved_at, resolution`

func scanAlert(row pgx.Row) (types.Alert, error) {
	var alert types.Alert
	var severity int
	var data []byte
	var ackBy, resBy, resolution *string

	err := row.Scan(&alert.ID, &alert.SensorID, &alert.AlertType, &severity, &alert.QualityLevel,
		&alert.Message, &data, &alert.IsActive, &alert.CreatedAt, &alert.ExpiresAt,
		&ackBy, &alert.AcknowledgedAt, &resBy, &alert.ResolvedAt, &resolution)
	if err != nil {
		return types.Alert{}, err
	}

	alert.Severity = types.Severity(severity)
	if data != nil {
		_ = json.Unmarshal(data, &alert.Data)
	}
	if ackBy != nil {
		alert.AcknowledgedBy = *ackBy
	}
	if resBy != nil {
		alert.ResolvedBy = *resBy
	}
	if resolution != nil {
		alert.Resolution = *resolution
	}

	return alert, nil
}

func (s *Storage) GetAlert(ctx context.Context, conditions ...ConditionFunc) (types.Alert, error) {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM alerts
		WHERE %s
		ORDER BY created_at DESC
		LIMIT 1
	`, alertColumns, condition.Where())

	alert, err := scanAlert(s.pool.QueryRow(ctx, query, condition.NamedArgs()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Alert{}, ErrNoRows
		}
		return types.Alert{}, err
	}

	return alert, nil
}

func (s *Storage) QueryAlerts(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.Alert], error) {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER () AS total
		FROM alerts
		WHERE %s
		ORDER BY %s %s
		%s
	`, alertColumns, condition.Where(), condition.SortBy(), condition.SortOrder(), condition.OffsetLimit())

	rows, err := s.pool.Query(ctx, query, condition.NamedArgs())
	if err != nil {
		return types.Collection[types.Alert]{}, err
	}
	defer rows.Close()

	var total int64
	alerts := make([]types.Alert, 0)

	for rows.Next() {
		var alert types.Alert
		var severity int
		var data []byte
		var ackBy, resBy, resolution *string

		err = rows.Scan(&alert.ID, &alert.SensorID, &alert.AlertType, &severity, &alert.QualityLevel,
			&alert.Message, &data, &alert.IsActive, &alert.CreatedAt, &alert.ExpiresAt,
			&ackBy, &alert.AcknowledgedAt, &resBy, &alert.ResolvedAt, &resolution, &total)
		if err != nil {
			return types.Collection[types.Alert]{}, err
		}

		alert.Severity = types.Severity(severity)
		if data != nil {
			_ = json.Unmarshal(data, &alert.Data)
		}
		if ackBy != nil {
			alert.AcknowledgedBy = *ackBy
		}
		if resBy != nil {
			alert.ResolvedBy = *resBy
		}
		if resolution != nil {
			alert.Resolution = *resolution
		}

		alerts = append(alerts, alert)
	}
	if rows.Err() != nil {
		return types.Collection[types.Alert]{}, rows.Err()
	}

	return types.Collection[types.Alert]{
		Data:       alerts,
		Count:      uint64(len(alerts)),
		Offset:     uint64(condition.Offset()),
		Limit:      uint64(condition.Limit()),
		TotalCount: uint64(total),
	}, nil
}

// AcknowledgeAlert stamps the actor on an active alert. Returns ErrNoRows
// when the alert is absent or already inactive.
func (s *Storage) AcknowledgeAlert(ctx context.Context, alertID, by string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts
		SET is_active = FALSE, acknowledged_by = @by, acknowledged_at = @at
		WHERE alert_id = @alert_id AND is_active = TRUE
	`, pgx.NamedArgs{"alert_id": alertID, "by": by, "at": at.UTC()})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// ResolveAlert stamps resolution on an alert that has not been resolved
// before. An alert that was merely acknowledged can still be resolved;
// one that is already resolved (or absent) yields ErrNoRows.
func (s *Storage) ResolveAlert(ctx context.Context, alertID, by, resolution string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts
		SET is_active = FALSE, resolved_by = @by, resolved_at = @at, resolution = @resolution
		WHERE alert_id = @alert_id AND resolved_at IS NULL
	`, pgx.NamedArgs{"alert_id": alertID, "by": by, "at": at.UTC(), "resolution": resolution})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// ExpireOverdueAlerts deactivates active alerts past their expires_at.
// Returns the number of alerts expired.
func (s *Storage) ExpireOverdueAlerts(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts
		SET is_active = FALSE, resolved_by = 'system', resolved_at = @now, resolution = 'expired'
		WHERE is_active = TRUE AND expires_at < @now
	`, pgx.NamedArgs{"now": now.UTC()})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteInactiveAlerts removes inactive alerts created before the horizon.
// Active alerts are never deleted here regardless of age.
func (s *Storage) DeleteInactiveAlerts(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM alerts
		WHERE is_active = FALSE AND created_at < @older_than
	`, pgx.NamedArgs{"older_than": olderThan.UTC()})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Storage) CountActiveAlerts(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM alerts WHERE is_active = TRUE`).Scan(&count)
	return count, err
}
