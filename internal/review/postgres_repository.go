package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL review repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new review.
func (r *PostgresRepository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, object_id, user_id, rating, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.ObjectID,
		review.UserID,
		review.Rating,
		review.Text,
		review.CreatedAt,
	)
	return err
}

// ListByObject returns the newest reviews for a destination, capped at limit.
func (r *PostgresRepository) ListByObject(ctx context.Context, objectID string, limit int) ([]Review, error) {
	query := `
		SELECT r.id, r.object_id, r.user_id, u.nickname, r.rating, r.text, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.object_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, objectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(
			&rev.ID,
			&rev.ObjectID,
			&rev.UserID,
			&rev.Nickname,
			&rev.Rating,
			&rev.Text,
			&rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}

	return reviews, rows.Err()
}

// Delete removes a review owned by the given user.
func (r *PostgresRepository) Delete(ctx context.Context, reviewID, userID string) (string, error) {
	query := `
		DELETE FROM reviews
		WHERE id = $1 AND user_id = $2
		RETURNING object_id
	`

	var objectID string
	err := r.pool.QueryRow(ctx, query, reviewID, userID).Scan(&objectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrReviewNotFound
		}
		return "", err
	}
	return objectID, nil
}

// Summarize computes the review count and average rating for a destination.
func (r *PostgresRepository) Summarize(ctx context.Context, objectID string) (*Summary, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE object_id = $1
	`

	summary := Summary{ObjectID: objectID}
	err := r.pool.QueryRow(ctx, query, objectID).Scan(&summary.Count, &summary.AvgRating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &summary, nil
		}
		return nil, err
	}

	return &summary, nil
}

// CountByUser returns the number of reviews a user has left.
func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reviews
		WHERE user_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ObjectIDs returns the distinct destination IDs that have reviews.
func (r *PostgresRepository) ObjectIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT object_id
		FROM reviews
		ORDER BY object_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// UpsertSummary materializes a summary row for a destination.
func (r *PostgresRepository) UpsertSummary(ctx context.Context, summary *Summary) error {
	query := `
		INSERT INTO review_summaries (object_id, review_count, avg_rating, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (object_id) DO UPDATE
		SET review_count = EXCLUDED.review_count,
		    avg_rating = EXCLUDED.avg_rating,
		    updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, summary.ObjectID, summary.Count, summary.AvgRating)
	return err
}
