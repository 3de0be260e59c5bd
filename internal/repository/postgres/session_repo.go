package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const sessionColumns = "id, conference_id, name, highlights, speaker, duration, type_of_session, day_of_conf, start_time, wishlisted"

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (conference_id, name, highlights, speaker, duration, type_of_session, day_of_conf, start_time, wishlisted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.ConferenceID, s.Name, s.Highlights, s.Speaker, s.Duration,
		string(s.TypeOfSession), s.DayOfConf, s.StartTime, s.Wishlisted,
	).Scan(&s.ID)
}

func scanSession(row interface {
	Scan(dest ...any) error
}) (*domain.Session, error) {
	s := &domain.Session{}
	var typeOfSession string
	err := row.Scan(
		&s.ID, &s.ConferenceID, &s.Name, &s.Highlights, &s.Speaker,
		&s.Duration, &typeOfSession, &s.DayOfConf, &s.StartTime, &s.Wishlisted,
	)
	if err != nil {
		return nil, err
	}
	s.TypeOfSession = domain.SessionType(typeOfSession)
	return s, nil
}

func (r *sessionRepository) querySessions(ctx context.Context, stmt string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Session, error) {
	sessions, err := r.querySessions(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
	}
	// Preserve the requested order; absent ids are skipped.
	ordered := make([]*domain.Session, 0, len(sessions))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

func (r *sessionRepository) ListByConferenceID(ctx context.Context, conferenceID int64) ([]*domain.Session, error) {
	// Creation (store-default) order.
	return r.querySessions(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE conference_id = $1 ORDER BY id`, conferenceID)
}

func (r *sessionRepository) Query(ctx context.Context, q *domain.Query) ([]*domain.Session, error) {
	stmt := `SELECT ` + sessionColumns + ` FROM sessions`
	if where := q.WhereSQL(); where != "" {
		stmt += " WHERE " + where
	}
	stmt += " ORDER BY " + q.OrderSQL()
	if q.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return r.querySessions(ctx, stmt, q.Args...)
}

func (r *sessionRepository) TopWishlisted(ctx context.Context, limit int) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + ` FROM sessions
		WHERE wishlisted > 0
		ORDER BY wishlisted DESC, name
		LIMIT $1
	`
	return r.querySessions(ctx, query, limit)
}

func (r *sessionRepository) TopSpeaker(ctx context.Context, conferenceID int64) (string, int, error) {
	query := `
		SELECT speaker, COUNT(*) AS sessions_count FROM sessions
		WHERE conference_id = $1 AND speaker <> ''
		GROUP BY speaker
		ORDER BY sessions_count DESC, speaker
		LIMIT 1
	`
	var speaker string
	var count int
	err := r.DB.QueryRowContext(ctx, query, conferenceID).Scan(&speaker, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, domain.ErrNotFound
		}
		return "", 0, err
	}
	return speaker, count, nil
}

func (r *sessionRepository) ListNamesBySpeaker(ctx context.Context, conferenceID int64, speaker string) ([]string, error) {
	query := `
		SELECT name FROM sessions
		WHERE conference_id = $1 AND speaker = $2
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID, speaker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
