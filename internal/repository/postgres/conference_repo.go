package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const conferenceColumns = "id, owner_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available"

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (owner_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var startDate, endDate sql.NullTime
	if c.StartDate != nil {
		startDate = sql.NullTime{Time: *c.StartDate, Valid: true}
	}
	if c.EndDate != nil {
		endDate = sql.NullTime{Time: *c.EndDate, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		c.OwnerID, c.Name, c.Description, pq.Array(c.Topics), c.City,
		startDate, endDate, c.Month, c.MaxAttendees, c.SeatsAvailable,
	).Scan(&c.ID)
}

func scanConference(row interface {
	Scan(dest ...any) error
}) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, pq.Array(&c.Topics), &c.City,
		&startNull, &endNull, &c.Month, &c.MaxAttendees, &c.SeatsAvailable,
	)
	if err != nil {
		return nil, err
	}
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	return c, nil
}

func (r *conferenceRepository) GetByID(ctx context.Context, id int64) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byID := make(map[int64]*domain.Conference)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Preserve the requested order; absent ids are skipped.
	confs := make([]*domain.Conference, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			confs = append(confs, c)
		}
	}
	return confs, nil
}

func (r *conferenceRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE owner_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func (r *conferenceRepository) Query(ctx context.Context, q *domain.Query) ([]*domain.Conference, error) {
	stmt := `SELECT ` + conferenceColumns + ` FROM conferences`
	if where := q.WhereSQL(); where != "" {
		stmt += " WHERE " + where
	}
	stmt += " ORDER BY " + q.OrderSQL()
	if q.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	rows, err := r.DB.QueryContext(ctx, stmt, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func (r *conferenceRepository) ListNearlySoldOutNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name FROM conferences
		WHERE seats_available > 0 AND seats_available <= 5
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
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

func (r *conferenceRepository) UpdateOwned(ctx context.Context, id int64, requesterID string, upd *domain.ConferenceUpdate) (*domain.Conference, error) {
	var updated *domain.Conference
	err := runTx(ctx, r.DB, 0, func(tx *sql.Tx) error {
		var ownerID string
		err := tx.QueryRowContext(ctx, `SELECT owner_id FROM conferences WHERE id = $1 FOR UPDATE`, id).Scan(&ownerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if ownerID != requesterID {
			return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
		}

		setClauses := []string{}
		args := []any{}
		n := 1
		addSet := func(column string, value any) {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
			args = append(args, value)
			n++
		}
		if upd.Name != nil {
			addSet("name", *upd.Name)
		}
		if upd.Description != nil {
			addSet("description", *upd.Description)
		}
		if upd.Topics != nil {
			addSet("topics", pq.Array(upd.Topics))
		}
		if upd.City != nil {
			addSet("city", *upd.City)
		}
		if upd.StartDate != nil {
			addSet("start_date", *upd.StartDate)
		}
		if upd.EndDate != nil {
			addSet("end_date", *upd.EndDate)
		}
		if upd.Month != nil {
			addSet("month", *upd.Month)
		}
		if upd.MaxAttendees != nil {
			addSet("max_attendees", *upd.MaxAttendees)
		}

		if n == 1 {
			// Nothing to apply; return the current row.
			c, err := scanConference(tx.QueryRowContext(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1`, id))
			if err != nil {
				return err
			}
			updated = c
			return nil
		}

		args = append(args, id)
		query := fmt.Sprintf(`
			UPDATE conferences SET %s
			WHERE id = $%d
			RETURNING %s
		`, strings.Join(setClauses, ", "), n, conferenceColumns)
		c, err := scanConference(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
