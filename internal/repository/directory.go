package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"intern_assistant/internal/entities"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Dataset is the raw content of the three directory relations, in source order.
type Dataset struct {
	Interns      []entities.Intern      `json:"interns" yaml:"interns"`
	Destinations []entities.Destination `json:"destinations" yaml:"destinations"`
	FAQs         []entities.FAQ         `json:"faqs" yaml:"faqs"`
}

// Source loads a full dataset. Implementations: FileSource, PostgresSource.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Name() string
}

// DirectoryStats summarizes the snapshot currently served.
type DirectoryStats struct {
	Source        string    `json:"source"`
	Interns       int       `json:"interns"`
	Destinations  int       `json:"destinations"`
	FAQs          int       `json:"faqs"`
	OrphanInterns int       `json:"orphan_interns"`
	Skipped       int       `json:"skipped_records"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// snapshot is never modified after it has been published.
type snapshot struct {
	interns      []entities.Intern
	byPhone      map[string]int
	destinations map[string]entities.Destination
	faqs         map[string][]entities.FAQ
	stats        DirectoryStats
}

// Directory serves lookups from an immutable snapshot. Reload builds a new
// snapshot and publishes it with a single pointer swap, so readers see either
// the old or the new data set, never a mix.
type Directory struct {
	source   Source
	current  atomic.Pointer[snapshot]
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewDirectory(source Source, logger zerolog.Logger) *Directory {
	d := &Directory{
		source:   source,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "directory").Logger(),
	}
	d.current.Store(d.build(&Dataset{}))
	return d
}

// Reload fetches the whole dataset from the source and swaps it in. On error
// the previous snapshot stays in place.
func (d *Directory) Reload(ctx context.Context) error {
	data, err := d.source.Load(ctx)
	if err != nil {
		d.logger.Error().Err(err).Str("source", d.source.Name()).Msg("directory reload failed, keeping previous data")
		return fmt.Errorf("reload directory from %s: %w", d.source.Name(), err)
	}
	snap := d.build(data)
	d.current.Store(snap)
	d.logger.Info().
		Int("interns", snap.stats.Interns).
		Int("destinations", snap.stats.Destinations).
		Int("faqs", snap.stats.FAQs).
		Int("orphans", snap.stats.OrphanInterns).
		Int("skipped", snap.stats.Skipped).
		Msg("directory loaded")
	return nil
}

func (d *Directory) FindInternByPhone(phone string) (entities.Intern, bool) {
	snap := d.current.Load()
	i, ok := snap.byPhone[entities.NormalizePhone(phone)]
	if !ok {
		return entities.Intern{}, false
	}
	return snap.interns[i], true
}

func (d *Directory) FindDestination(id string) (entities.Destination, bool) {
	dest, ok := d.current.Load().destinations[id]
	return dest, ok
}

// FindFAQs returns the destination's FAQs in source order.
func (d *Directory) FindFAQs(destinationID string) []entities.FAQ {
	return d.current.Load().faqs[destinationID]
}

func (d *Directory) Interns() []entities.Intern {
	return d.current.Load().interns
}

func (d *Directory) Stats() DirectoryStats {
	return d.current.Load().stats
}

func (d *Directory) build(data *Dataset) *snapshot {
	snap := &snapshot{
		byPhone:      make(map[string]int),
		destinations: make(map[string]entities.Destination),
		faqs:         make(map[string][]entities.FAQ),
		stats:        DirectoryStats{Source: d.source.Name(), LoadedAt: time.Now()},
	}

	for _, dest := range data.Destinations {
		if err := d.validate.Struct(dest); err != nil {
			d.skip("destination", dest.ID, err, &snap.stats)
			continue
		}
		if _, dup := snap.destinations[dest.ID]; dup {
			d.logger.Warn().Str("destination_id", dest.ID).Msg("duplicate destination, keeping first")
			continue
		}
		// Contact details the replies do not depend on are only reported.
		if email := dest.Coordinator.Email; email != "" {
			if err := d.validate.Var(email, "email"); err != nil {
				d.logger.Warn().Str("destination_id", dest.ID).Str("email", email).Msg("coordinator email looks malformed")
			}
		}
		snap.destinations[dest.ID] = dest
	}

	for _, intern := range data.Interns {
		intern.Phone = entities.NormalizePhone(intern.Phone)
		if err := d.validate.Struct(intern); err != nil {
			d.skip("intern", intern.Phone, err, &snap.stats)
			continue
		}
		if _, dup := snap.byPhone[intern.Phone]; dup {
			d.logger.Warn().Str("phone", intern.Phone).Msg("duplicate intern phone, keeping first")
			continue
		}
		if _, ok := snap.destinations[intern.DestinationID]; !ok {
			snap.stats.OrphanInterns++
			d.logger.Warn().Str("phone", intern.Phone).Str("destination_id", intern.DestinationID).
				Msg("intern references unknown destination")
		}
		snap.byPhone[intern.Phone] = len(snap.interns)
		snap.interns = append(snap.interns, intern)
	}

	for _, faq := range data.FAQs {
		if err := d.validate.Struct(faq); err != nil {
			d.skip("faq", faq.ID, err, &snap.stats)
			continue
		}
		snap.faqs[faq.DestinationID] = append(snap.faqs[faq.DestinationID], faq)
		snap.stats.FAQs++
	}

	snap.stats.Interns = len(snap.interns)
	snap.stats.Destinations = len(snap.destinations)
	return snap
}

func (d *Directory) skip(kind, id string, err error, stats *DirectoryStats) {
	stats.Skipped++
	d.logger.Warn().Err(err).Str("kind", kind).Str("id", id).Msg("skipping invalid record")
}
