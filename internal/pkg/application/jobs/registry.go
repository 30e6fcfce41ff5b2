package jobs

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/metrics"
)

var (
	ErrJobNotFound = errors.New("no such job")
	ErrJobBusy     = errors.New("job is already running")
)

// JobFunc is a job body. It must honor ctx cancellation; errors are
// recorded in the job log but never stop the schedule.
type JobFunc func(ctx context.Context) error

// Status is the externally visible state of one registered job.
type Status struct {
	Name        string    `json:"name"`
	Schedule    string    `json:"schedule"`
	Started     bool      `json:"started"`
	Busy        bool      `json:"busy"`
	Runs        int64     `json:"runs"`
	LastRun     time.Time `json:"lastRun"`
	LastOutcome string    `json:"lastOutcome,omitempty"`
	NextRun     time.Time `json:"nextRun"`
}

type job struct {
	name     string
	schedule Schedule
	fn       JobFunc

	mu          sync.Mutex
	started     bool
	cancel      context.CancelFunc
	busy        bool
	runs        int64
	lastRun     time.Time
	lastOutcome string
	nextRun     time.Time
}

// Registry owns the registered jobs and their timer goroutines. Manual
// runs and scheduled ticks share the same execution path, including the
// single slot guard: a job never runs concurrently with itself.
type Registry struct {
	mu    sync.RWMutex
	jobs  map[string]*job
	order []string

	log *Log
	wg  sync.WaitGroup
}

func NewRegistry(log *Log) *Registry {
	if log == nil {
		log = NewLog(0)
	}
	return &Registry{
		jobs: make(map[string]*job),
		log:  log,
	}
}

// Log returns the shared job log.
func (r *Registry) Log() *Log {
	return r.log
}

// Register adds a job under a unique name. Registering the same name twice
// is a programming error.
func (r *Registry) Register(name string, schedule Schedule, fn JobFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("job %s is already registered", name)
	}

	r.jobs[name] = &job{name: name, schedule: schedule, fn: fn}
	r.order = append(r.order, name)
	return nil
}

// Start launches the timer goroutine for one job. Starting an already
// started job is a no-op.
func (r *Registry) Start(ctx context.Context, name string) error {
	j, err := r.get(name)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	j.started = true
	j.cancel = cancel
	j.nextRun = j.schedule.Next(time.Now())

	r.wg.Add(1)
	go r.loop(loopCtx, j)

	log := logging.GetLoggerFromContext(ctx)
	log.Info().Str("job", name).Str("schedule", j.schedule.String()).Msg("job started")
	return nil
}

// Stop cancels one job's timer goroutine. An in-flight execution finishes;
// no further ticks fire. Stopping an already stopped job is a no-op.
func (r *Registry) Stop(ctx context.Context, name string) error {
	j, err := r.get(name)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.started {
		return nil
	}

	j.cancel()
	j.started = false
	j.cancel = nil
	j.nextRun = time.Time{}

	log := logging.GetLoggerFromContext(ctx)
	log.Info().Str("job", name).Msg("job stopped")
	return nil
}

// StartAll starts every registered job in registration order.
func (r *Registry) StartAll(ctx context.Context) error {
	for _, name := range r.names() {
		if err := r.Start(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// StopAll stops all jobs and waits for their goroutines to exit.
func (r *Registry) StopAll(ctx context.Context) {
	for _, name := range r.names() {
		r.Stop(ctx, name) //nolint:errcheck
	}
	r.wg.Wait()
}

// RunManually triggers one execution of a job outside its schedule and
// returns its outcome: the body's error, or ErrJobBusy when the job is
// already executing, exactly as an overlapping tick would be skipped.
// The job does not need to be started.
func (r *Registry) RunManually(ctx context.Context, name string) error {
	j, err := r.get(name)
	if err != nil {
		return err
	}

	return r.runOnce(ctx, j, "manual")
}

// Status reports all jobs in registration order.
func (r *Registry) Status() []Status {
	names := r.names()
	result := make([]Status, 0, len(names))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range names {
		j := r.jobs[name]
		j.mu.Lock()
		result = append(result, Status{
			Name:        j.name,
			Schedule:    j.schedule.String(),
			Started:     j.started,
			Busy:        j.busy,
			Runs:        j.runs,
			LastRun:     j.lastRun,
			LastOutcome: j.lastOutcome,
			NextRun:     j.nextRun,
		})
		j.mu.Unlock()
	}

	return result
}

func (r *Registry) get(name string) (*job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return j, nil
}

func (r *Registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) loop(ctx context.Context, j *job) {
	defer r.wg.Done()

	for {
		j.mu.Lock()
		next := j.nextRun
		j.mu.Unlock()

		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			r.runOnce(ctx, j, "schedule") //nolint:errcheck

			j.mu.Lock()
			j.nextRun = j.schedule.Next(time.Now())
			j.mu.Unlock()
		}
	}
}

// runOnce is the single execution path for scheduled ticks and manual
// triggers. It acquires the job's slot, records start/outcome in the job
// log, and recovers panics so one bad run never takes the process down.
// The body's error (or ErrJobBusy for a skipped run) is returned so a
// manual trigger can report the outcome to its caller.
func (r *Registry) runOnce(ctx context.Context, j *job, trigger string) error {
	log := logging.GetLoggerFromContext(ctx)

	j.mu.Lock()
	if j.busy {
		j.mu.Unlock()
		r.log.Append(j.name, LevelWarn, "run skipped, previous run still in progress", map[string]any{"trigger": trigger})
		metrics.JobRunsTotal.WithLabelValues(j.name, "skipped").Inc()
		log.Warn().Str("job", j.name).Msg("skipping tick, previous run still in progress")
		return ErrJobBusy
	}
	j.busy = true
	j.mu.Unlock()

	started := time.Now()
	r.log.Append(j.name, LevelInfo, "run started", map[string]any{"trigger": trigger})

	err := r.execute(ctx, j)

	took := time.Since(started)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		r.log.Append(j.name, LevelError, err.Error(), map[string]any{"trigger": trigger, "took": took.String()})
		log.Error().Err(err).Str("job", j.name).Msg("job run failed")
	} else {
		r.log.Append(j.name, LevelInfo, "run completed", map[string]any{"trigger": trigger, "took": took.String()})
	}

	metrics.JobRunsTotal.WithLabelValues(j.name, outcome).Inc()
	metrics.JobDuration.WithLabelValues(j.name).Observe(took.Seconds())

	j.mu.Lock()
	j.busy = false
	j.runs++
	j.lastRun = started
	j.lastOutcome = outcome
	j.mu.Unlock()

	return err
}

func (r *Registry) execute(ctx context.Context, j *job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.PanicsRecovered.WithLabelValues(j.name).Inc()
			log := logging.GetLoggerFromContext(ctx)
			log.Error().Str("job", j.name).Bytes("stack", debug.Stack()).Msgf("recovered from panic: %v", rec)
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return j.fn(ctx)
}
