package dispatcher

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/gorilla/websocket"
	"github.com/matryer/is"
)

func newTestServer(t *testing.T) (*Dispatcher, string) {
	t.Helper()

	d := New()
	srv := httptest.NewServer(d)
	t.Cleanup(srv.Close)

	return d, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func waitForObservers(t *testing.T, d *Dispatcher, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for d.Stats().Connected != n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d observers, have %d", n, d.Stats().Connected)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}
	return env
}

func TestPublishReachesWildcardObserver(t *testing.T) {
	is := is.New(t)
	d, url := newTestServer(t)

	conn := dial(t, url)
	waitForObservers(t, d, 1)

	d.PublishAlert(context.Background(), types.Alert{
		ID:       "alert-1",
		SensorID: "sensor-01",
		Severity: types.SeverityPoor,
	})

	env := readEnvelope(t, conn)
	is.Equal("new_alert", env.Event)
	is.Equal("sensor:sensor-01", env.Topic)
}

func TestTopicSubscriptionFiltersOtherSensors(t *testing.T) {
	is := is.New(t)
	d, url := newTestServer(t)

	conn := dial(t, url+"?topic=sensor:sensor-02")
	waitForObservers(t, d, 1)

	d.PublishAlert(context.Background(), types.Alert{ID: "a", SensorID: "sensor-01"})
	d.PublishAlert(context.Background(), types.Alert{ID: "b", SensorID: "sensor-02"})

	env := readEnvelope(t, conn)
	is.Equal("sensor:sensor-02", env.Topic)
}

func TestSubscribeControlFrame(t *testing.T) {
	is := is.New(t)
	d, url := newTestServer(t)

	conn := dial(t, url+"?topic=sensor:sensor-09")
	waitForObservers(t, d, 1)

	err := conn.WriteJSON(map[string]string{"action": "subscribe", "topic": "sensor:sensor-01"})
	is.NoErr(err)

	deadline := time.Now().Add(2 * time.Second)
	for d.Stats().ByTopic["sensor:sensor-01"] != 1 {
		if time.Now().After(deadline) {
			t.Fatal("subscription was never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	d.PublishAlert(context.Background(), types.Alert{ID: "a", SensorID: "sensor-01"})

	env := readEnvelope(t, conn)
	is.Equal("sensor:sensor-01", env.Topic)
}

func TestPublishWithoutObserversDoesNotBlock(t *testing.T) {
	d := New()

	done := make(chan struct{})
	go func() {
		d.PublishAlert(context.Background(), types.Alert{ID: "a", SensorID: "sensor-01"})
		d.PublishStats(context.Background(), types.SystemStats{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with zero observers")
	}
}

func TestResolutionGoesToWildcardOnly(t *testing.T) {
	is := is.New(t)
	d, url := newTestServer(t)

	wildcard := dial(t, url)
	scoped := dial(t, url+"?topic=sensor:sensor-01")
	waitForObservers(t, d, 2)

	resolvedAt := time.Now().UTC()
	d.PublishResolution(context.Background(), types.Alert{ID: "alert-1", ResolvedBy: "operator", ResolvedAt: &resolvedAt})

	env := readEnvelope(t, wildcard)
	is.Equal("alert_resolved", env.Event)

	scoped.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := scoped.ReadMessage()
	is.True(err != nil) // scoped observer sees nothing
}

func TestPublishSurvivesObserverRemoval(t *testing.T) {
	is := is.New(t)
	d := New()

	o := &observer{
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
		subbed: map[string]struct{}{TopicAll: {}},
	}
	d.register(o)

	// Fill the buffer so publishers hit the slow-observer path and race
	// the explicit removal below.
	for i := 0; i < sendBufSize; i++ {
		o.send <- []byte("{}")
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.PublishAlert(context.Background(), types.Alert{ID: "a", SensorID: "sensor-01"})
			}
		}()
	}
	go d.unregister(o)
	wg.Wait()

	is.Equal(0, d.Stats().Connected)

	select {
	case <-o.done:
	default:
		t.Fatal("removed observer was never signalled to close")
	}
}

func TestStatsTracksTopics(t *testing.T) {
	is := is.New(t)
	d, url := newTestServer(t)

	dial(t, url)
	dial(t, url+"?topic=sensor:sensor-01")
	waitForObservers(t, d, 2)

	stats := d.Stats()
	is.Equal(2, stats.Connected)
	is.Equal(1, stats.ByTopic[TopicAll])
	is.Equal(1, stats.ByTopic["sensor:sensor-01"])
}
