package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/jackc/pgx/v5"
)

// AddReading stores one sensor reading. Duplicate (sensor, timestamp)
// pairs are merged so re-polling the sensor network API is harmless.
func (s *Storage) AddReading(ctx context.Context, r types.SensorReading) error {
	if r.SensorID == "" {
		return ErrNoID
	}

	measurements, err := json.Marshal(r.Values)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	args := pgx.NamedArgs{
		"sensor_id":    r.SensorID,
		"observed_at":  r.Timestamp.UTC(),
		"measurements": measurements,
		"lon":          r.Location.Longitude,
		"lat":          r.Location.Latitude,
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO readings (sensor_id, observed_at, location, measurements)
		VALUES (@sensor_id, @observed_at, point(@lon, @lat), @measurements)
		ON CONFLICT (sensor_id, observed_at) DO UPDATE SET measurements = EXCLUDED.measurements
	`, args)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	return nil
}

// QueryReadings returns readings for one sensor observed after since,
// oldest first, bounded by limit.
func (s *Storage) QueryReadings(ctx context.Context, sensorID string, since time.Time, limit int) ([]types.SensorReading, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sensor_id, observed_at, location[0], location[1], measurements
		FROM readings
		WHERE sensor_id = @sensor_id AND observed_at > @since
		ORDER BY observed_at ASC
		LIMIT @limit
	`, pgx.NamedArgs{"sensor_id": sensorID, "since": since.UTC(), "limit": limit})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]types.SensorReading, 0)

	for rows.Next() {
		var r types.SensorReading
		var lon, lat *float64
		var measurements []byte

		if err := rows.Scan(&r.SensorID, &r.Timestamp, &lon, &lat, &measurements); err != nil {
			return nil, err
		}
		if lon != nil && lat != nil {
			r.Location = types.Location{Longitude: *lon, Latitude: *lat}
		}
		if err := json.Unmarshal(measurements, &r.Values); err != nil {
			return nil, err
		}

		readings = append(readings, r)
	}

	return readings, rows.Err()
}

// LastObservedBySensor reports the latest reading timestamp per known
// sensor. Silent sensors are found by comparing against a liveness window.
func (s *Storage) LastObservedBySensor(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sensor_id, max(observed_at)
		FROM readings
		GROUP BY sensor_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	observed := map[string]time.Time{}

	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		observed[id] = at
	}

	return observed, rows.Err()
}

// DeleteReadings removes readings observed before the horizon.
// Returns the number of rows removed.
func (s *Storage) DeleteReadings(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM readings WHERE observed_at < @older_than
	`, pgx.NamedArgs{"older_than": olderThan.UTC()})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Storage) CountReadings(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM readings`).Scan(&count)
	return count, err
}
