package repository

import (
	"context"
	"fmt"

	"intern_assistant/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource loads the directory from the interns, destinations and faqs
// tables created by infrastructure.PostgresClient.Migrate.
type PostgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) (*Dataset, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("begin directory snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	var data Dataset
	if data.Destinations, err = loadDestinations(ctx, tx); err != nil {
		return nil, err
	}
	if data.Interns, err = loadInterns(ctx, tx); err != nil {
		return nil, err
	}
	if data.FAQs, err = loadFAQs(ctx, tx); err != nil {
		return nil, err
	}
	return &data, nil
}

func loadInterns(ctx context.Context, tx pgx.Tx) ([]entities.Intern, error) {
	rows, err := tx.Query(ctx, `
		SELECT phone, name, destination_id, COALESCE(to_char(start_date, 'YYYY-MM-DD'), '')
		FROM interns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query interns: %w", err)
	}
	defer rows.Close()

	var interns []entities.Intern
	for rows.Next() {
		var i entities.Intern
		if err := rows.Scan(&i.Phone, &i.Name, &i.DestinationID, &i.StartDate); err != nil {
			return nil, fmt.Errorf("scan intern: %w", err)
		}
		interns = append(interns, i)
	}
	return interns, rows.Err()
}

func loadDestinations(ctx context.Context, tx pgx.Tx) ([]entities.Destination, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, coordinator, accommodation, local_tips, emergency_info
		FROM destinations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query destinations: %w", err)
	}
	defer rows.Close()

	var destinations []entities.Destination
	for rows.Next() {
		var d entities.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Coordinator, &d.Accommodation, &d.LocalTips, &d.EmergencyInfo); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

func loadFAQs(ctx context.Context, tx pgx.Tx) ([]entities.FAQ, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, destination_id, question, answer, keywords
		FROM faqs ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query faqs: %w", err)
	}
	defer rows.Close()

	var faqs []entities.FAQ
	for rows.Next() {
		var f entities.FAQ
		if err := rows.Scan(&f.ID, &f.DestinationID, &f.Question, &f.Answer, &f.Keywords); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}
