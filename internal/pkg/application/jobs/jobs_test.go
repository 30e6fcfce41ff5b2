package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/application/alerts"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/storage"
	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/matryer/is"
)

type predictionClientFake struct {
	healthErr  error
	prediction *types.Prediction
	predictErr error
}

func (f *predictionClientFake) Predict(_ context.Context, _ string, _ []types.SensorReading) (*types.Prediction, error) {
	return f.prediction, f.predictErr
}

func (f *predictionClientFake) Health(_ context.Context) error {
	return f.healthErr
}

func TestServiceHealthCheckRaisesWhenUnreachable(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		TrySaveFunc: func(ctx context.Context, candidate alerts.CandidateAlert) (types.Alert, bool) {
			return types.Alert{ID: "alert-1"}, true
		},
	}

	job := ServiceHealthCheck(&predictionClientFake{healthErr: errors.New("connection refused")}, svc)

	// A failing probe produces an alert, not a job error.
	is.NoErr(job(context.Background()))

	is.Equal(1, len(svc.TrySaveCalls()))
	is.Equal(types.AlertServiceDown, svc.TrySaveCalls()[0].Candidate.AlertType)
	is.Equal("prediction-service", svc.TrySaveCalls()[0].Candidate.SensorID)
}

func TestServiceHealthCheckResolvesOnRecovery(t *testing.T) {
	is := is.New(t)

	active := types.Collection[types.Alert]{
		Data:  []types.Alert{{ID: "alert-1", AlertType: types.AlertServiceDown, IsActive: true}},
		Count: 1,
	}

	svc := &alerts.AlertServiceMock{
		QueryFunc: func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error) {
			return active, nil
		},
		ResolveFunc: func(ctx context.Context, alertID string, by string, resolution string) error {
			return nil
		},
	}

	job := ServiceHealthCheck(&predictionClientFake{}, svc)
	is.NoErr(job(context.Background()))

	is.Equal(1, len(svc.ResolveCalls()))
	is.Equal("alert-1", svc.ResolveCalls()[0].AlertID)
	is.Equal("system", svc.ResolveCalls()[0].By)
}

func TestAlertCleanupRunsBothPhases(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		ExpireOverdueFunc: func(ctx context.Context) (int64, error) {
			return 2, nil
		},
		CleanupFunc: func(ctx context.Context, retention time.Duration) (int64, error) {
			return 5, nil
		},
	}

	job := AlertCleanup(svc, 7*24*time.Hour)
	is.NoErr(job(context.Background()))

	is.Equal(1, len(svc.ExpireOverdueCalls()))
	is.Equal(1, len(svc.CleanupCalls()))
	is.Equal(7*24*time.Hour, svc.CleanupCalls()[0].Retention)
}

func TestAlertCleanupStopsOnExpireFailure(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		ExpireOverdueFunc: func(ctx context.Context) (int64, error) {
			return 0, errors.New("database unavailable")
		},
	}

	job := AlertCleanup(svc, time.Hour)
	is.True(job(context.Background()) != nil)
	is.Equal(0, len(svc.CleanupCalls()))
}
