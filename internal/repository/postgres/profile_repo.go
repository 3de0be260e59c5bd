package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, main_email, tee_shirt_size
		FROM profiles
		WHERE user_id = $1
	`
	p := &domain.Profile{}
	var size string
	err := r.DB.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.DisplayName, &p.MainEmail, &size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.TeeShirtSize = domain.TeeShirtSize(size)
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	// Lazy first-access creation may race with itself; the conflict clause
	// keeps the first write.
	query := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, p.UserID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize))
	return err
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, tee_shirt_size = $3
		WHERE user_id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, p.UserID, p.DisplayName, string(p.TeeShirtSize))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepository) GetMulti(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, main_email, tee_shirt_size
		FROM profiles
		WHERE user_id = ANY($1)
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles := make(map[string]*domain.Profile)
	for rows.Next() {
		p := &domain.Profile{}
		var size string
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.MainEmail, &size); err != nil {
			return nil, err
		}
		p.TeeShirtSize = domain.TeeShirtSize(size)
		profiles[p.UserID] = p
	}
	return profiles, rows.Err()
}

func (r *profileRepository) ListAttendingConferenceIDs(ctx context.Context, userID string) ([]int64, error) {
	return r.listIDs(ctx, `
		SELECT conference_id FROM conference_attendance
		WHERE user_id = $1
		ORDER BY conference_id
	`, userID)
}

func (r *profileRepository) ListWishlistSessionIDs(ctx context.Context, userID string) ([]int64, error) {
	return r.listIDs(ctx, `
		SELECT session_id FROM wishlists
		WHERE user_id = $1
		ORDER BY session_id
	`, userID)
}

func (r *profileRepository) listIDs(ctx context.Context, query, userID string) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
