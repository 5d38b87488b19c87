package repository

import (
	"context"
	"errors"
	"time"

	"intern_assistant/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const writeTimeout = 3 * time.Second

// ResolutionRecord is one row of the resolution log.
type ResolutionRecord struct {
	ID            int64     `json:"id"`
	CorrelationID string    `json:"correlation_id"`
	Phone         string    `json:"phone"`
	Message       string    `json:"message"`
	Reply         string    `json:"reply"`
	Status        string    `json:"status"`
	ResponseType  string    `json:"response_type,omitempty"`
	FAQID         string    `json:"faq_id,omitempty"`
	Delivered     bool      `json:"delivered"`
	DeliveryError string    `json:"delivery_error,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResolutionRepository persists every resolution for the admin dashboard.
type ResolutionRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewResolutionRepository(db *pgxpool.Pool, logger zerolog.Logger) *ResolutionRepository {
	return &ResolutionRepository{db: db, logger: logger}
}

// Observe implements interfaces.ResolutionObserver.
func (r *ResolutionRepository) Observe(ctx context.Context, msg entities.InboundMessage, res entities.Resolution) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := r.Create(ctx, toRecord(msg, res)); err != nil {
		r.logger.Error().Err(err).Str("correlation_id", msg.CorrelationID).Msg("failed to store resolution")
	}
}

func (r *ResolutionRepository) Create(ctx context.Context, rec ResolutionRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO resolutions (correlation_id, phone, message, reply, status, response_type, faq_id, delivered, delivery_error, duration_ms)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, NULLIF($9, ''), $10)`,
		rec.CorrelationID, rec.Phone, rec.Message, rec.Reply, rec.Status,
		rec.ResponseType, rec.FAQID, rec.Delivered, rec.DeliveryError, rec.DurationMS)
	return err
}

// Recent returns the latest resolutions, newest first.
func (r *ResolutionRepository) Recent(ctx context.Context, limit int) ([]ResolutionRecord, error) {
	if limit <= 0 || limit > 500 {
		return nil, errors.New("limit must be between 1 and 500")
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, correlation_id, phone, message, reply, status,
			COALESCE(response_type, ''), COALESCE(faq_id, ''), delivered,
			COALESCE(delivery_error, ''), duration_ms, created_at
		FROM resolutions ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ResolutionRecord
	for rows.Next() {
		var rec ResolutionRecord
		err := rows.Scan(&rec.ID, &rec.CorrelationID, &rec.Phone, &rec.Message, &rec.Reply, &rec.Status,
			&rec.ResponseType, &rec.FAQID, &rec.Delivered, &rec.DeliveryError, &rec.DurationMS, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func toRecord(msg entities.InboundMessage, res entities.Resolution) ResolutionRecord {
	rec := ResolutionRecord{
		CorrelationID: res.CorrelationID,
		Phone:         res.Recipient,
		Message:       msg.Text,
		Reply:         res.Reply(),
		Status:        string(res.Status()),
		ResponseType:  string(res.ResponseType()),
		FAQID:         res.MatchedFAQID(),
		Delivered:     res.Delivered(),
		DurationMS:    res.Duration.Milliseconds(),
	}
	if res.DeliveryErr != nil {
		rec.DeliveryError = res.DeliveryErr.Error()
	}
	return rec
}
