package repository

import (
	"context"
	"fmt"
	"time"

	"intern_assistant/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Seeder copies a dataset (usually from FileSource) into Postgres.
type Seeder struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewSeeder(db *pgxpool.Pool, logger zerolog.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Sync upserts every record of the source and returns how many rows were written.
// Upserts run in one transaction so a reload never sees half a seed.
func (s *Seeder) Sync(ctx context.Context, source Source) (int, error) {
	data, err := source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load seed data: %w", err)
	}

	written := 0
	err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, d := range data.Destinations {
			_, err := tx.Exec(ctx, `
				INSERT INTO destinations (id, name, coordinator, accommodation, local_tips, emergency_info)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name,
					coordinator = EXCLUDED.coordinator,
					accommodation = EXCLUDED.accommodation,
					local_tips = EXCLUDED.local_tips,
					emergency_info = EXCLUDED.emergency_info,
					updated_at = CURRENT_TIMESTAMP`,
				d.ID, d.Name, d.Coordinator, d.Accommodation, d.LocalTips, d.EmergencyInfo)
			if err != nil {
				return fmt.Errorf("upsert destination %s: %w", d.ID, err)
			}
			written++
		}

		for _, i := range data.Interns {
			var startDate *time.Time
			if i.StartDate != "" {
				t, err := time.Parse("2006-01-02", i.StartDate)
				if err != nil {
					return fmt.Errorf("intern %s: invalid start_date %q: %w", i.Phone, i.StartDate, err)
				}
				startDate = &t
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO interns (phone, name, destination_id, start_date)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (phone) DO UPDATE
				SET name = EXCLUDED.name,
					destination_id = EXCLUDED.destination_id,
					start_date = EXCLUDED.start_date`,
				entities.NormalizePhone(i.Phone), i.Name, i.DestinationID, startDate)
			if err != nil {
				return fmt.Errorf("upsert intern %s: %w", i.Phone, err)
			}
			written++
		}

		for pos, f := range data.FAQs {
			_, err := tx.Exec(ctx, `
				INSERT INTO faqs (id, destination_id, question, answer, keywords, position)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE
				SET destination_id = EXCLUDED.destination_id,
					question = EXCLUDED.question,
					answer = EXCLUDED.answer,
					keywords = EXCLUDED.keywords,
					position = EXCLUDED.position`,
				f.ID, f.DestinationID, f.Question, f.Answer, f.Keywords, pos)
			if err != nil {
				return fmt.Errorf("upsert faq %s: %w", f.ID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Str("source", source.Name()).Int("rows", written).Msg("directory seeded")
	return written, nil
}
