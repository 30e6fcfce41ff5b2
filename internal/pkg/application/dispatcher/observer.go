package dispatcher

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeTimeout is the deadline for a single write to an observer.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-observer outgoing message buffer depth.
	sendBufSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin checks are handled by the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// controlFrame is the inbound message observers use to manage their
// topic subscriptions.
type controlFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// observer is one connected websocket client and the set of topics it
// listens to.
type observer struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	stop sync.Once

	mu     sync.RWMutex
	subbed map[string]struct{}
}

// close signals the write pump to finish. The send channel itself is
// never closed: a publisher that raced the removal must land on a live
// channel, not panic.
func (o *observer) close() {
	o.stop.Do(func() { close(o.done) })
}

// ServeHTTP upgrades the connection and serves the observer. New observers
// start subscribed to the wildcard topic; a ?topic= query parameter narrows
// the initial subscription. Blocks until the connection closes.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	o := &observer{
		conn:   conn,
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
		subbed: make(map[string]struct{}),
	}

	if topic := r.URL.Query().Get("topic"); topic != "" {
		o.subbed[topic] = struct{}{}
	} else {
		o.subbed[TopicAll] = struct{}{}
	}

	d.register(o)
	defer d.unregister(o)

	go o.writePump()
	o.readPump() // blocks until connection closes
}

func (o *observer) subscribedTo(topic string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if _, ok := o.subbed[TopicAll]; ok {
		return true
	}
	if topic == "" {
		return false
	}
	_, ok := o.subbed[topic]
	return ok
}

func (o *observer) topics() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	result := make([]string, 0, len(o.subbed))
	for t := range o.subbed {
		result = append(result, t)
	}
	return result
}

func (o *observer) handleControl(msg []byte) {
	frame := controlFrame{}
	if err := json.Unmarshal(msg, &frame); err != nil || frame.Topic == "" {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	switch frame.Action {
	case "subscribe":
		o.subbed[frame.Topic] = struct{}{}
	case "unsubscribe":
		delete(o.subbed, frame.Topic)
	}
}

// writePump drains the observer's send channel and forwards frames to the
// connection, interleaved with periodic pings. Runs in its own goroutine.
func (o *observer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		o.conn.Close()
	}()

	for {
		select {
		case <-o.done:
			// Dispatcher shut down or the observer was removed.
			o.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			o.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			return

		case msg := <-o.send:
			o.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := o.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			o.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads inbound frames to process subscription changes and detect
// disconnects. Blocks until the connection closes.
func (o *observer) readPump() {
	defer o.conn.Close()
	o.conn.SetReadLimit(512)
	o.conn.SetReadDeadline(time.Now().Add(pongWait))
	o.conn.SetPongHandler(func(string) error {
		o.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := o.conn.ReadMessage()
		if err != nil {
			break
		}
		o.handleControl(msg)
	}
}
