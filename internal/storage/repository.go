package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasarini/trip-planner/internal/activity"
	"github.com/tasarini/trip-planner/internal/itinerary"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for itineraries and activity POIs.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// GetItinerary retrieves a saved itinerary by ID.
// Returns nil, nil when the itinerary does not exist.
func (r *Repository) GetItinerary(ctx context.Context, id string) (*itinerary.Saved, error) {
	const q = `
		SELECT id, title, data, created_at, updated_at
		FROM itineraries
		WHERE id = $1
	`

	var s itinerary.Saved
	var dataJSON []byte

	err := r.q.QueryRow(ctx, q, id).Scan(
		&s.ID,
		&s.Title,
		&dataJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying itinerary %s: %w", id, err)
	}

	if err := json.Unmarshal(dataJSON, &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshaling itinerary %s: %w", id, err)
	}

	return &s, nil
}

// CreateItinerary inserts a new itinerary record and fills in the
// database-assigned timestamps on s.
func (r *Repository) CreateItinerary(ctx context.Context, s *itinerary.Saved) error {
	dataJSON, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("marshaling itinerary %s: %w", s.ID, err)
	}

	const q = `
		INSERT INTO itineraries (id, title, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if err := r.q.QueryRow(ctx, q, s.ID, s.Title, dataJSON).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("inserting itinerary %s: %w", s.ID, err)
	}

	return nil
}

// UpdateItinerary replaces the stored plan for an existing itinerary and
// returns the saved record carrying the database timestamps.
// Returns nil, nil when the itinerary does not exist.
func (r *Repository) UpdateItinerary(ctx context.Context, id, title string, data itinerary.Itinerary) (*itinerary.Saved, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling itinerary %s: %w", id, err)
	}

	const q = `
		UPDATE itineraries
		SET title = $2, data = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	s := &itinerary.Saved{ID: id, Title: title, Data: data}
	err = r.q.QueryRow(ctx, q, id, title, dataJSON).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("updating itinerary %s: %w", id, err)
	}

	return s, nil
}

// DeleteItinerary removes a stored itinerary.
// Reports whether a row was actually deleted.
func (r *Repository) DeleteItinerary(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting itinerary %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetActivityPOIsInRadius returns activity POIs within radiusKm of the given
// center. A bounding-box prefilter runs in SQL; the precise great-circle
// distance check happens in Go.
func (r *Repository) GetActivityPOIsInRadius(ctx context.Context, lat, lon, radiusKm float64) ([]activity.POI, error) {
	// One degree of latitude is ~111 km; longitude degrees shrink with
	// latitude, so use the equatorial bound as the loose prefilter.
	degrees := radiusKm / 111.0

	const q = `
		SELECT id, name, COALESCE(description, ''), latitude, longitude,
		       COALESCE(rating, 0), is_activity,
		       activity_categories, activity_interests, activity_avoidances,
		       COALESCE(activity_intensity_level_id, ''),
		       COALESCE(activity_difficulty_level_id, ''),
		       COALESCE(activity_duration_minutes, 0),
		       tags, COALESCE(price_range, '')
		FROM pois
		WHERE is_activity
		AND latitude BETWEEN $1 - $3 AND $1 + $3
		AND longitude BETWEEN $2 - $3 AND $2 + $3
	`

	rows, err := r.q.Query(ctx, q, lat, lon, degrees)
	if err != nil {
		return nil, fmt.Errorf("querying activity POIs: %w", err)
	}
	defer rows.Close()

	var results []activity.POI
	for rows.Next() {
		var p activity.POI
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Latitude,
			&p.Longitude,
			&p.Rating,
			&p.IsActivity,
			&p.Categories,
			&p.Interests,
			&p.Avoidances,
			&p.IntensityLevelID,
			&p.DifficultyLevelID,
			&p.DurationMinutes,
			&p.Tags,
			&p.PriceRange,
		); err != nil {
			return nil, fmt.Errorf("scanning POI row: %w", err)
		}

		if activity.HaversineKm(lat, lon, p.Latitude, p.Longitude) <= radiusKm {
			results = append(results, p)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating POI rows: %w", err)
	}

	return results, nil
}
