// Package repository persists directory records and sponsorships.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lawyerNotFoundMsg = "lawyer not found"
const sponsorshipNotFoundMsg = "sponsorship not found"

const lawyerColumns = `
	google_place_id, name, address, rating, review_count, photo_url,
	phone, website, profile_created_at, search_lat, search_lng,
	first_seen, last_seen, search_count,
	sponsored, sponsorship_tier, verified,
	targeting_score, is_new_practice, has_no_website, has_low_reviews
`

// Repository provides database operations for the directory.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new directory repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByPlaceID(ctx context.Context, placeID string) (domain.Lawyer, error) {
	query := `SELECT ` + lawyerColumns + ` FROM lawyers WHERE google_place_id = $1`

	lawyer, err := scanLawyer(r.pool.QueryRow(ctx, query, placeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lawyer{}, apperr.NotFound(lawyerNotFoundMsg)
		}
		return domain.Lawyer{}, fmt.Errorf("get lawyer: %w", err)
	}
	return lawyer, nil
}

// Capture runs the whole merge as a single INSERT ... ON CONFLICT so two
// concurrent captures of the same place id serialize on the row: both
// increments land and neither null overwrite loses data. (xmax = 0)
// distinguishes a fresh insert from a conflict update.
//
// On conflict the targeting signals re-derive from the merged row, never
// from the incoming candidate: a search result carries no website or
// profile age, so is_new_practice and has_no_website keep their stored
// values and the score is recomputed with the scoring package's weights.
func (r *Repository) Capture(ctx context.Context, params CaptureParams) (domain.Lawyer, bool, error) {
	query := `
		INSERT INTO lawyers (
			google_place_id, name, address, rating, review_count, photo_url,
			search_lat, search_lng, first_seen, last_seen, search_count,
			sponsored, sponsorship_tier, verified,
			targeting_score, is_new_practice, has_no_website, has_low_reviews
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $9, 1,
			false, '', false,
			$10, $11, $12, $13
		)
		ON CONFLICT (google_place_id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			rating = COALESCE(EXCLUDED.rating, lawyers.rating),
			review_count = COALESCE(EXCLUDED.review_count, lawyers.review_count),
			photo_url = COALESCE(EXCLUDED.photo_url, lawyers.photo_url),
			search_lat = EXCLUDED.search_lat,
			search_lng = EXCLUDED.search_lng,
			last_seen = GREATEST(lawyers.last_seen, EXCLUDED.last_seen),
			search_count = lawyers.search_count + 1,
			has_low_reviews = COALESCE(COALESCE(EXCLUDED.review_count, lawyers.review_count) < 5, false),
			targeting_score = LEAST(100,
				(CASE WHEN lawyers.is_new_practice THEN 40 ELSE 0 END)
				+ (CASE WHEN lawyers.has_no_website THEN 20 ELSE 0 END)
				+ (CASE WHEN COALESCE(COALESCE(EXCLUDED.review_count, lawyers.review_count) < 5, false) THEN 20 ELSE 0 END)
				+ (CASE WHEN lawyers.sponsored THEN 0 ELSE 10 END)
				+ 10)
		RETURNING ` + lawyerColumns + `, (xmax = 0) AS created
	`

	cand := params.Candidate
	row := r.pool.QueryRow(ctx, query,
		cand.PlaceID,
		cand.Name,
		cand.Address,
		cand.Rating,
		cand.ReviewCount,
		cand.PhotoURL,
		cand.Origin.Lat,
		cand.Origin.Lng,
		params.CaptureTime,
		params.TargetingScore,
		params.IsNewPractice,
		params.HasNoWebsite,
		params.HasLowReviews,
	)

	var lawyer domain.Lawyer
	var created bool
	if err := row.Scan(
		&lawyer.PlaceID,
		&lawyer.Name,
		&lawyer.Address,
		&lawyer.Rating,
		&lawyer.ReviewCount,
		&lawyer.PhotoURL,
		&lawyer.Phone,
		&lawyer.Website,
		&lawyer.ProfileCreatedAt,
		&lawyer.SearchLat,
		&lawyer.SearchLng,
		&lawyer.FirstSeen,
		&lawyer.LastSeen,
		&lawyer.SearchCount,
		&lawyer.Sponsored,
		&lawyer.SponsorshipTier,
		&lawyer.Verified,
		&lawyer.TargetingScore,
		&lawyer.IsNewPractice,
		&lawyer.HasNoWebsite,
		&lawyer.HasLowReviews,
		&created,
	); err != nil {
		return domain.Lawyer{}, false, fmt.Errorf("capture lawyer: %w", err)
	}

	return lawyer, created, nil
}

func (r *Repository) UpdateDetails(ctx context.Context, placeID string, update DetailUpdate) error {
	query := `
		UPDATE lawyers
		SET phone = COALESCE($2, phone),
			website = COALESCE($3, website),
			profile_created_at = COALESCE($4, profile_created_at),
			has_no_website = CASE WHEN $3::text IS NOT NULL THEN false ELSE has_no_website END,
			targeting_score = COALESCE($5, targeting_score),
			is_new_practice = COALESCE($6, is_new_practice)
		WHERE google_place_id = $1
	`

	result, err := r.pool.Exec(ctx, query, placeID,
		update.Phone, update.Website, update.ProfileCreatedAt,
		update.TargetingScore, update.IsNewPractice)
	if err != nil {
		return fmt.Errorf("update lawyer details: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(lawyerNotFoundMsg)
	}
	return nil
}

func (r *Repository) ListSponsoredNear(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Lawyer, error) {
	// Haversine over the last capture origin. Fine at city scale; a
	// geospatial index would only pay off well past this dataset size.
	query := `
		SELECT ` + lawyerColumns + `
		FROM lawyers
		WHERE sponsored = true
			AND 6371 * acos(
				least(1.0, cos(radians($1)) * cos(radians(search_lat))
					* cos(radians(search_lng) - radians($2))
					+ sin(radians($1)) * sin(radians(search_lat)))
			) <= $3
		ORDER BY
			CASE sponsorship_tier
				WHEN 'featured' THEN 0
				WHEN 'premium' THEN 1
				WHEN 'basic' THEN 2
				ELSE 3
			END,
			first_seen ASC
	`

	rows, err := r.pool.Query(ctx, query, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("list sponsored lawyers: %w", err)
	}
	defer rows.Close()

	return collectLawyers(rows)
}

func (r *Repository) ListTopTargets(ctx context.Context, limit int) ([]domain.Lawyer, error) {
	if limit < 1 {
		limit = 20
	}

	query := `
		SELECT ` + lawyerColumns + `
		FROM lawyers
		WHERE sponsored = false
		ORDER BY targeting_score DESC, search_count DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list top targets: %w", err)
	}
	defer rows.Close()

	return collectLawyers(rows)
}

func (r *Repository) CreateSponsorship(ctx context.Context, s Sponsorship) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create sponsorship: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO sponsorships (
			id, google_place_id, tier, start_date, end_date, amount_usd,
			status, custom_badge, custom_description,
			contact_email, contact_phone, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12
		)
	`
	if _, err := tx.Exec(ctx, insert,
		s.ID,
		s.PlaceID,
		s.Tier,
		s.StartDate,
		s.EndDate,
		s.AmountUSD,
		s.Status,
		s.CustomBadge,
		s.CustomDescription,
		s.ContactEmail,
		s.ContactPhone,
		s.CreatedAt,
	); err != nil {
		return fmt.Errorf("create sponsorship: %w", err)
	}

	flag := `
		UPDATE lawyers
		SET sponsored = true, sponsorship_tier = $2
		WHERE google_place_id = $1
	`
	result, err := tx.Exec(ctx, flag, s.PlaceID, s.Tier)
	if err != nil {
		return fmt.Errorf("flag sponsored lawyer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(lawyerNotFoundMsg)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("create sponsorship: %w", err)
	}
	return nil
}

func (r *Repository) ExpireSponsorship(ctx context.Context, id uuid.UUID) (Sponsorship, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sponsorship{}, fmt.Errorf("expire sponsorship: %w", err)
	}
	defer tx.Rollback(ctx)

	expire := `
		UPDATE sponsorships
		SET status = 'expired'
		WHERE id = $1 AND status = 'active'
		RETURNING id, google_place_id, tier, start_date, end_date, amount_usd,
			status, custom_badge, custom_description,
			contact_email, contact_phone, created_at
	`

	var s Sponsorship
	err = tx.QueryRow(ctx, expire, id).Scan(
		&s.ID,
		&s.PlaceID,
		&s.Tier,
		&s.StartDate,
		&s.EndDate,
		&s.AmountUSD,
		&s.Status,
		&s.CustomBadge,
		&s.CustomDescription,
		&s.ContactEmail,
		&s.ContactPhone,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sponsorship{}, apperr.NotFound(sponsorshipNotFoundMsg)
		}
		return Sponsorship{}, fmt.Errorf("expire sponsorship: %w", err)
	}

	// Another active sponsorship for the same place keeps the flag set.
	unflag := `
		UPDATE lawyers
		SET sponsored = EXISTS(
				SELECT 1 FROM sponsorships
				WHERE google_place_id = $1 AND status = 'active'
			),
			sponsorship_tier = COALESCE((
				SELECT tier FROM sponsorships
				WHERE google_place_id = $1 AND status = 'active'
				ORDER BY CASE tier
					WHEN 'featured' THEN 0
					WHEN 'premium' THEN 1
					ELSE 2
				END
				LIMIT 1
			), '')
		WHERE google_place_id = $1
	`
	if _, err := tx.Exec(ctx, unflag, s.PlaceID); err != nil {
		return Sponsorship{}, fmt.Errorf("unflag sponsored lawyer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Sponsorship{}, fmt.Errorf("expire sponsorship: %w", err)
	}
	return s, nil
}

func (r *Repository) ListSponsorshipsDue(ctx context.Context, now time.Time) ([]Sponsorship, error) {
	query := `
		SELECT id, google_place_id, tier, start_date, end_date, amount_usd,
			status, custom_badge, custom_description,
			contact_email, contact_phone, created_at
		FROM sponsorships
		WHERE status = 'active' AND end_date <= $1
		ORDER BY end_date ASC
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list due sponsorships: %w", err)
	}
	defer rows.Close()

	due := make([]Sponsorship, 0)
	for rows.Next() {
		var s Sponsorship
		if err := rows.Scan(
			&s.ID,
			&s.PlaceID,
			&s.Tier,
			&s.StartDate,
			&s.EndDate,
			&s.AmountUSD,
			&s.Status,
			&s.CustomBadge,
			&s.CustomDescription,
			&s.ContactEmail,
			&s.ContactPhone,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sponsorship: %w", err)
		}
		due = append(due, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sponsorships: %w", err)
	}

	return due, nil
}

func scanLawyer(row pgx.Row) (domain.Lawyer, error) {
	var lawyer domain.Lawyer
	err := row.Scan(
		&lawyer.PlaceID,
		&lawyer.Name,
		&lawyer.Address,
		&lawyer.Rating,
		&lawyer.ReviewCount,
		&lawyer.PhotoURL,
		&lawyer.Phone,
		&lawyer.Website,
		&lawyer.ProfileCreatedAt,
		&lawyer.SearchLat,
		&lawyer.SearchLng,
		&lawyer.FirstSeen,
		&lawyer.LastSeen,
		&lawyer.SearchCount,
		&lawyer.Sponsored,
		&lawyer.SponsorshipTier,
		&lawyer.Verified,
		&lawyer.TargetingScore,
		&lawyer.IsNewPractice,
		&lawyer.HasNoWebsite,
		&lawyer.HasLowReviews,
	)
	return lawyer, err
}

func collectLawyers(rows pgx.Rows) ([]domain.Lawyer, error) {
	lawyers := make([]domain.Lawyer, 0)
	for rows.Next() {
		lawyer, err := scanLawyer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lawyer: %w", err)
		}
		lawyers = append(lawyers, lawyer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lawyers: %w", err)
	}
	return lawyers, nil
}
