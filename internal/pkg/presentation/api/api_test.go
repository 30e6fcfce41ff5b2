package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/application/alerts"
	"github.com/airlight/airquality-mgmt/internal/pkg/application/dispatcher"
	"github.com/airlight/airquality-mgmt/internal/pkg/application/jobs"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/router"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/storage"
	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

func testRouter(t *testing.T, svc alerts.AlertService) *chi.Mux {
	t.Helper()

	registry := jobs.NewRegistry(jobs.NewLog(16))
	err := registry.Register("noop", jobs.MustParseSchedule("@every 1h"), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	provider := alerts.NewThresholdProvider(alerts.DefaultThresholds())

	return RegisterHandlers(context.Background(), router.New("test"), svc, provider, registry, dispatcher.New())
}

func TestHealthEndpoint(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/health", nil))

	is.Equal(http.StatusNoContent, res.Code)
}

func TestQueryAlerts(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		QueryFunc: func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error) {
			return types.Collection[types.Alert]{
				Data:       []types.Alert{{ID: "alert-1", SensorID: "sensor-01", IsActive: true}},
				Count:      1,
				TotalCount: 1,
			}, nil
		},
	}

	mux := testRouter(t, svc)

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/alerts?sensorID=sensor-01&active=true", nil))

	is.Equal(http.StatusOK, res.Code)
	is.Equal(1, len(svc.QueryCalls()))

	var collection types.Collection[types.Alert]
	is.NoErr(json.Unmarshal(res.Body.Bytes(), &collection))
	is.Equal(1, len(collection.Data))
	is.Equal("alert-1", collection.Data[0].ID)
}

func TestQueryAlertsCreatedWindowAndSort(t *testing.T) {
	is := is.New(t)

	var captured []storage.ConditionFunc
	svc := &alerts.AlertServiceMock{
		QueryFunc: func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error) {
			captured = conditions
			return types.Collection[types.Alert]{}, nil
		},
	}

	mux := testRouter(t, svc)

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/alerts?createdAfter=2026-08-30T00:00:00Z&createdBefore=2026-08-31T00:00:00Z&sortBy=severity&sortOrder=asc", nil))

	is.Equal(http.StatusOK, res.Code)

	condition := &storage.Condition{}
	for _, f := range captured {
		f(condition)
	}
	is.Equal(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), condition.CreatedAfter)
	is.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), condition.CreatedBefore)
	is.Equal("severity", condition.SortBy())
	is.Equal("ASC", condition.SortOrder())
}

func TestQueryAlertsRejectsUnknownSortColumn(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/alerts?sortBy=message;drop", nil))

	is.Equal(http.StatusBadRequest, res.Code)
}

func TestQueryAlertsRejectsBadPaging(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/alerts?limit=banana", nil))

	is.Equal(http.StatusBadRequest, res.Code)
}

func TestGetAlertNotFound(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		GetByIDFunc: func(ctx context.Context, alertID string) (types.Alert, error) {
			return types.Alert{}, alerts.ErrAlertNotFound
		},
	}

	mux := testRouter(t, svc)

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/alerts/missing", nil))

	is.Equal(http.StatusNotFound, res.Code)
}

func TestAcknowledgeAlert(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		AcknowledgeFunc: func(ctx context.Context, alertID string, by string) error {
			return nil
		},
	}

	mux := testRouter(t, svc)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/alerts/alert-1/ack", strings.NewReader(`{"by":"operator"}`))
	mux.ServeHTTP(res, req)

	is.Equal(http.StatusNoContent, res.Code)
	is.Equal(1, len(svc.AcknowledgeCalls()))
	is.Equal("alert-1", svc.AcknowledgeCalls()[0].AlertID)
	is.Equal("operator", svc.AcknowledgeCalls()[0].By)
}

func TestAcknowledgeAlertRequiresActor(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/alerts/alert-1/ack", strings.NewReader(`{}`))
	mux.ServeHTTP(res, req)

	is.Equal(http.StatusBadRequest, res.Code)
}

func TestResolveAlert(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		ResolveFunc: func(ctx context.Context, alertID string, by string, resolution string) error {
			return nil
		},
	}

	mux := testRouter(t, svc)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/alerts/alert-1/resolve", strings.NewReader(`{"by":"operator","resolution":"false positive"}`))
	mux.ServeHTTP(res, req)

	is.Equal(http.StatusNoContent, res.Code)
	is.Equal("false positive", svc.ResolveCalls()[0].Resolution)
}

func TestBulkResolveAlerts(t *testing.T) {
	is := is.New(t)

	svc := &alerts.AlertServiceMock{
		BulkResolveFunc: func(ctx context.Context, alertIDs []string, by string, resolution string) alerts.BulkResult {
			return alerts.BulkResult{Requested: len(alertIDs), Modified: 2}
		},
	}

	mux := testRouter(t, svc)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/alerts/resolve", strings.NewReader(`{"alertIds":["a","b","c"],"by":"operator"}`))
	mux.ServeHTTP(res, req)

	is.Equal(http.StatusOK, res.Code)

	var result alerts.BulkResult
	is.NoErr(json.Unmarshal(res.Body.Bytes(), &result))
	is.Equal(3, result.Requested)
	is.Equal(2, result.Modified)
}

func TestListJobs(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/jobs", nil))

	is.Equal(http.StatusOK, res.Code)

	var status []jobs.Status
	is.NoErr(json.Unmarshal(res.Body.Bytes(), &status))
	is.Equal(1, len(status))
	is.Equal("noop", status[0].Name)
}

func TestRunUnknownJob(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/v0/jobs/missing/run", nil))

	is.Equal(http.StatusNotFound, res.Code)
}

func TestRunJobManually(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/v0/jobs/noop/run", nil))

	is.Equal(http.StatusOK, res.Code)

	var outcome map[string]string
	is.NoErr(json.Unmarshal(res.Body.Bytes(), &outcome))
	is.Equal("ok", outcome["outcome"])

	res = httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/joblog?level=info", nil))
	is.Equal(http.StatusOK, res.Code)

	var entries []jobs.LogEntry
	is.NoErr(json.Unmarshal(res.Body.Bytes(), &entries))
	is.True(len(entries) >= 2) // run started + run completed
	is.Equal("run completed", entries[len(entries)-1].Message)
}

func TestRunJobReportsFailure(t *testing.T) {
	is := is.New(t)

	registry := jobs.NewRegistry(jobs.NewLog(16))
	err := registry.Register("broken", jobs.MustParseSchedule("@every 1h"), func(ctx context.Context) error {
		return errors.New("upstream unavailable")
	})
	is.NoErr(err)

	provider := alerts.NewThresholdProvider(alerts.DefaultThresholds())
	mux := RegisterHandlers(context.Background(), router.New("test"), &alerts.AlertServiceMock{}, provider, registry, dispatcher.New())

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/v0/jobs/broken/run", nil))

	is.Equal(http.StatusInternalServerError, res.Code)

	var outcome map[string]string
	is.NoErr(json.Unmarshal(res.Body.Bytes(), &outcome))
	is.Equal("error", outcome["outcome"])
	is.Equal("upstream unavailable", outcome["error"])
}

func TestGetThresholds(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v0/thresholds", nil))

	is.Equal(http.StatusOK, res.Code)

	var body thresholdsResponse
	is.NoErr(json.Unmarshal(res.Body.Bytes(), &body))
	is.Equal("WHO-2021", body.Standard)
	is.Equal(3, len(body.Thresholds))
}

func TestUpdateThresholdsRejectsUnordered(t *testing.T) {
	is := is.New(t)

	mux := testRouter(t, &alerts.AlertServiceMock{})

	payload := `{"standard":"custom","thresholds":[{"pollutant":"pm25","moderate":90,"high":35,"critical":55}]}`

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodPut, "/api/v0/thresholds", strings.NewReader(payload)))

	is.Equal(http.StatusBadRequest, res.Code)
}

func TestUpdateThresholdsInstallsNewTable(t *testing.T) {
	is := is.New(t)

	registry := jobs.NewRegistry(nil)
	provider := alerts.NewThresholdProvider(alerts.DefaultThresholds())
	mux := RegisterHandlers(context.Background(), router.New("test"), &alerts.AlertServiceMock{}, provider, registry, dispatcher.New())

	payload := `{"standard":"custom","thresholds":[{"pollutant":"pm25","moderate":10,"high":25,"critical":50,"unit":"µg/m³"}]}`

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodPut, "/api/v0/thresholds", strings.NewReader(payload)))

	is.Equal(http.StatusOK, res.Code)
	is.Equal("custom", provider.Current().Standard)
	is.Equal(2, provider.Current().Version)

	pm25, ok := provider.Current().Get(types.PollutantPM25)
	is.True(ok)
	is.Equal(25.0, pm25.High)

	// evaluation picks up the new table on the next reading
	candidates := alerts.Evaluate(types.SensorReading{
		SensorID:  "sensor-01",
		Values:    map[string]float64{"pm25": 30},
		Timestamp: time.Now(),
	}, provider.Current(), alerts.EnvContext{})
	is.Equal(1, len(candidates))
	is.Equal("pm25_high", candidates[0].AlertType)
}
