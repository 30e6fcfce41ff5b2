package alerts

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v2"
)

// ThresholdTable is an immutable snapshot of per-pollutant boundaries.
// Updates never mutate a table in place; a new snapshot is swapped in so
// every evaluation sees a consistent set of boundaries.
type ThresholdTable struct {
	Version    int
	Standard   string
	thresholds map[string]types.Threshold
}

func NewThresholdTable(standard string, version int, thresholds ...types.Threshold) (ThresholdTable, error) {
	m := make(map[string]types.Threshold, len(thresholds))
	for _, t := range thresholds {
		if err := t.Validate(); err != nil {
			return ThresholdTable{}, err
		}
		m[t.Pollutant] = t
	}

	return ThresholdTable{
		Version:    version,
		Standard:   standard,
		thresholds: m,
	}, nil
}

func (t ThresholdTable) Get(pollutant string) (types.Threshold, bool) {
	th, ok := t.thresholds[pollutant]
	return th, ok
}

func (t ThresholdTable) Thresholds() []types.Threshold {
	out := make([]types.Threshold, 0, len(t.thresholds))
	for _, p := range types.MonitoredPollutants {
		if th, ok := t.thresholds[p]; ok {
			out = append(out, th)
		}
	}
	return out
}

// DefaultThresholds returns the built-in table derived from the WHO 2021
// air quality guidelines (24h means for particulates, indoor guidance
// levels for CO2).
func DefaultThresholds() ThresholdTable {
	table, _ := NewThresholdTable("WHO-2021", 1,
		types.Threshold{Pollutant: types.PollutantPM25, Moderate: 15, High: 35, Critical: 55, Unit: "µg/m³"},
		types.Threshold{Pollutant: types.PollutantPM10, Moderate: 45, High: 100, Critical: 150, Unit: "µg/m³"},
		types.Threshold{Pollutant: types.PollutantCO2, Moderate: 1000, High: 2000, Critical: 5000, Unit: "ppm"},
	)
	return table
}

type thresholdFile struct {
	Standard   string            `yaml:"standard"`
	Thresholds []types.Threshold `yaml:"thresholds"`
}

func ParseThresholds(r io.Reader, version int) (ThresholdTable, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return ThresholdTable{}, err
	}

	var f thresholdFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return ThresholdTable{}, fmt.Errorf("could not parse threshold configuration: %w", err)
	}
	if len(f.Thresholds) == 0 {
		return ThresholdTable{}, fmt.Errorf("threshold configuration contains no thresholds")
	}

	return NewThresholdTable(f.Standard, version, f.Thresholds...)
}

// ThresholdProvider hands out the current table and swaps in replacements
// atomically. Readers never block on an update.
type ThresholdProvider struct {
	current atomic.Pointer[ThresholdTable]
}

func NewThresholdProvider(initial ThresholdTable) *ThresholdProvider {
	p := &ThresholdProvider{}
	p.current.Store(&initial)
	return p
}

func (p *ThresholdProvider) Current() ThresholdTable {
	return *p.current.Load()
}

// Update validates and installs a new snapshot, bumping the version.
func (p *ThresholdProvider) Update(standard string, thresholds []types.Threshold) (ThresholdTable, error) {
	next, err := NewThresholdTable(standard, p.Current().Version+1, thresholds...)
	if err != nil {
		return ThresholdTable{}, err
	}

	p.current.Store(&next)
	return next, nil
}

// Watch reloads the threshold file each time it is written. A failed
// reload keeps the previous snapshot active. Blocks until ctx is done.
func (p *ThresholdProvider) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	log := logging.GetLoggerFromContext(ctx)
	log.Info().Str("path", path).Msg("watching threshold configuration for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, which surfaces as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			table, err := p.reloadFromFile(path)
			if err != nil {
				log.Error().Err(err).Str("path", path).Msg("threshold reload failed, keeping previous snapshot")
				continue
			}

			p.current.Store(&table)
			log.Info().Int("version", table.Version).Str("standard", table.Standard).Msg("thresholds reloaded")

			// Re-add the path in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("threshold watcher error")
		}
	}
}

func (p *ThresholdProvider) reloadFromFile(path string) (ThresholdTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return ThresholdTable{}, err
	}
	defer f.Close()

	return ParseThresholds(f, p.Current().Version+1)
}

// Season classification used as environmental context during evaluation.
const (
	SeasonDry   = "dry"
	SeasonRainy = "rainy"
	SeasonMild  = "mild"
)

// SeasonForMonth follows the regional pattern the platform was built for:
// dry season November through March, rainy season June through September.
func SeasonForMonth(m time.Month) string {
	switch {
	case m >= time.November || m <= time.March:
		return SeasonDry
	case m >= time.June && m <= time.September:
		return SeasonRainy
	default:
		return SeasonMild
	}
}
