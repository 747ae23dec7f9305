// Package repository persists lawyer applications and newsletter signups.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Application is a lawyer's request to join the directory.
type Application struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	FirmName         string
	BarNumber        string
	YearsExperience  int
	Website          *string
	Street           string
	City             string
	State            string
	Zip              string
	PracticeAreas    []string
	ClientTypes      []string
	ConsultationType string
	SponsorshipTier  string
	Comments         *string
	CreatedAt        time.Time
}

// Store is the signup datastore.
type Store interface {
	// CreateApplication persists a directory application.
	CreateApplication(ctx context.Context, app Application) error

	// SubscribeNewsletter records an email subscription. Returns false
	// when the email was already subscribed; resubscribing is not an error.
	SubscribeNewsletter(ctx context.Context, email string, at time.Time) (bool, error)
}

// Repository provides database operations for signups.
type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

// New creates a new signup repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateApplication(ctx context.Context, app Application) error {
	query := `
		INSERT INTO lawyer_applications (
			id, first_name, last_name, email, phone,
			firm_name, bar_number, years_experience, website,
			street, city, state, zip,
			practice_areas, client_types, consultation_type,
			sponsorship_tier, comments, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19
		)
	`

	_, err := r.pool.Exec(ctx, query,
		app.ID,
		app.FirstName,
		app.LastName,
		app.Email,
		app.Phone,
		app.FirmName,
		app.BarNumber,
		app.YearsExperience,
		app.Website,
		app.Street,
		app.City,
		app.State,
		app.Zip,
		app.PracticeAreas,
		app.ClientTypes,
		app.ConsultationType,
		app.SponsorshipTier,
		app.Comments,
		app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (r *Repository) SubscribeNewsletter(ctx context.Context, email string, at time.Time) (bool, error) {
	query := `
		INSERT INTO newsletter_subscribers (email, subscribed_at)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, email, at)
	if err != nil {
		return false, fmt.Errorf("subscribe newsletter: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
