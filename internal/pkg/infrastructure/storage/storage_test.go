package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/google/uuid"
	"github.com/matryer/is"
)

func testSetup(t *testing.T) (context.Context, *Storage) {
	ctx := context.Background()

	config := Config{
		host:     "localhost",
		user:     "postgres",
		password: "password",
		port:     "5432",
		dbname:   "postgres",
		sslmode:  "disable",
	}

	s, err := New(ctx, config)
	if err != nil {
		t.SkipNow()
	}

	err = s.Initialize(ctx)
	if err != nil {
		t.SkipNow()
	}

	return ctx, s
}

func newAlert(sensorID string) types.Alert {
	now := time.Now().UTC()
	return types.Alert{
		ID:           uuid.NewString(),
		SensorID:     sensorID,
		AlertType:    types.AlertMultiPollutant,
		Severity:     types.SeverityUnhealthy,
		QualityLevel: "unhealthy",
		Message:      "pm25 84.0 µg/m³ exceeds 55.0",
		Data:         map[string]any{"pm25": 84.0},
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(types.SeverityUnhealthy.TimeToLive()),
	}
}

func TestTryAddAlertRoundtrip(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := newAlert("sensor-" + uuid.NewString())

	inserted, err := s.TryAddAlert(ctx, alert)
	is.NoErr(err)
	is.True(inserted)

	stored, err := s.GetAlert(ctx, WithAlertID(alert.ID))
	is.NoErr(err)
	is.Equal(alert.ID, stored.ID)
	is.Equal(alert.SensorID, stored.SensorID)
	is.Equal(types.SeverityUnhealthy, stored.Severity)
	is.Equal(84.0, stored.Data["pm25"])
	is.True(stored.IsActive)
}

func TestTryAddAlertRequiresID(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := newAlert("sensor-" + uuid.NewString())
	alert.ID = ""

	_, err := s.TryAddAlert(ctx, alert)
	is.True(errors.Is(err, ErrNoID))
}

func TestTryAddAlertDeduplicatesActive(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := "sensor-" + uuid.NewString()

	first := newAlert(sensorID)
	inserted, err := s.TryAddAlert(ctx, first)
	is.NoErr(err)
	is.True(inserted)

	// same sensor and type while the first is still active
	inserted, err = s.TryAddAlert(ctx, newAlert(sensorID))
	is.NoErr(err)
	is.True(!inserted)

	err = s.ResolveAlert(ctx, first.ID, "operator", "ventilation fixed", time.Now())
	is.NoErr(err)

	// resolving frees the slot for a fresh alert
	inserted, err = s.TryAddAlert(ctx, newAlert(sensorID))
	is.NoErr(err)
	is.True(inserted)
}

func TestConcurrentTryAddAlertInsertsExactlyOne(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := "sensor-" + uuid.NewString()

	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := s.TryAddAlert(ctx, newAlert(sensorID))
			if err != nil {
				t.Error(err)
				return
			}
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	is.Equal(1, insertedCount)

	c, err := s.QueryAlerts(ctx, WithSensorID(sensorID), WithActive(true))
	is.NoErr(err)
	is.Equal(1, len(c.Data))
}

func TestAcknowledgeAlert(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := newAlert("sensor-" + uuid.NewString())
	_, err := s.TryAddAlert(ctx, alert)
	is.NoErr(err)

	err = s.AcknowledgeAlert(ctx, alert.ID, "operator", time.Now())
	is.NoErr(err)

	stored, err := s.GetAlert(ctx, WithAlertID(alert.ID))
	is.NoErr(err)
	is.True(!stored.IsActive)
	is.Equal("operator", stored.AcknowledgedBy)

	// already inactive
	err = s.AcknowledgeAlert(ctx, alert.ID, "operator", time.Now())
	is.True(errors.Is(err, ErrNoRows))
}

func TestResolveUnknownAlert(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	err := s.ResolveAlert(ctx, uuid.NewString(), "operator", "n/a", time.Now())
	is.True(errors.Is(err, ErrNoRows))
}

func TestExpireOverdueAlerts(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := newAlert("sensor-" + uuid.NewString())
	alert.ExpiresAt = time.Now().Add(-time.Minute)

	_, err := s.TryAddAlert(ctx, alert)
	is.NoErr(err)

	expired, err := s.ExpireOverdueAlerts(ctx, time.Now())
	is.NoErr(err)
	is.True(expired >= 1)

	stored, err := s.GetAlert(ctx, WithAlertID(alert.ID))
	is.NoErr(err)
	is.True(!stored.IsActive)
	is.Equal("expired", stored.Resolution)
}

func TestQueryAlertsCreatedWindow(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := "sensor-" + uuid.NewString()
	alert := newAlert(sensorID)
	_, err := s.TryAddAlert(ctx, alert)
	is.NoErr(err)

	c, err := s.QueryAlerts(ctx, WithSensorID(sensorID), WithCreatedAfter(alert.CreatedAt.Add(-time.Minute)))
	is.NoErr(err)
	is.Equal(1, len(c.Data))

	c, err = s.QueryAlerts(ctx, WithSensorID(sensorID), WithCreatedBefore(alert.CreatedAt.Add(-time.Minute)))
	is.NoErr(err)
	is.Equal(0, len(c.Data))
}

func TestQueryAlertsSortedAscending(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := "sensor-" + uuid.NewString()

	older := newAlert(sensorID)
	older.AlertType = types.AlertSensorOffline
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err := s.TryAddAlert(ctx, older)
	is.NoErr(err)

	newer := newAlert(sensorID)
	_, err = s.TryAddAlert(ctx, newer)
	is.NoErr(err)

	c, err := s.QueryAlerts(ctx, WithSensorID(sensorID), WithSortBy("created_at", "ASC"))
	is.NoErr(err)
	is.Equal(2, len(c.Data))
	is.Equal(older.ID, c.Data[0].ID)
	is.Equal(newer.ID, c.Data[1].ID)
}

func TestReadingsRoundtrip(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := "sensor-" + uuid.NewString()
	observed := time.Now().UTC().Truncate(time.Millisecond)

	reading := types.SensorReading{
		SensorID:  sensorID,
		Location:  types.Location{Latitude: 62.39160, Longitude: 17.30723},
		Values:    map[string]float64{"pm25": 12.5, "co2": 420},
		Timestamp: observed,
	}

	is.NoErr(s.AddReading(ctx, reading))

	// re-polling delivers the same observation again
	reading.Values["pm25"] = 13.0
	is.NoErr(s.AddReading(ctx, reading))

	readings, err := s.QueryReadings(ctx, sensorID, observed.Add(-time.Minute), 10)
	is.NoErr(err)
	is.Equal(1, len(readings))
	is.Equal(13.0, readings[0].Values["pm25"])

	observedBy, err := s.LastObservedBySensor(ctx)
	is.NoErr(err)
	is.True(observedBy[sensorID].Equal(observed))
}

func TestDeleteReadings(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := "sensor-" + uuid.NewString()

	is.NoErr(s.AddReading(ctx, types.SensorReading{
		SensorID:  sensorID,
		Values:    map[string]float64{"pm25": 9},
		Timestamp: time.Now().UTC().Add(-48 * time.Hour),
	}))

	removed, err := s.DeleteReadings(ctx, time.Now().Add(-24*time.Hour))
	is.NoErr(err)
	is.True(removed >= 1)

	readings, err := s.QueryReadings(ctx, sensorID, time.Now().Add(-72*time.Hour), 10)
	is.NoErr(err)
	is.Equal(0, len(readings))
}
