package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conferencecentral/internal/domain"
)

// wishlistTxRetries bounds automatic retries of the wishlist transaction on
// transient contention before surfacing the failure.
const wishlistTxRetries = 2

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) Register(ctx context.Context, userID string, conferenceID int64) error {
	return runTx(ctx, r.DB, 0, func(tx *sql.Tx) error {
		var seats int
		err := tx.QueryRowContext(ctx,
			`SELECT seats_available FROM conferences WHERE id = $1 FOR UPDATE`,
			conferenceID).Scan(&seats)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: no conference with id %d", domain.ErrNotFound, conferenceID)
			}
			return err
		}

		var registered bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM conference_attendance WHERE user_id = $1 AND conference_id = $2)`,
			userID, conferenceID).Scan(&registered)
		if err != nil {
			return err
		}
		if registered {
			return fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict)
		}
		if seats <= 0 {
			return fmt.Errorf("%w: there are no seats available", domain.ErrConflict)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conference_attendance (user_id, conference_id) VALUES ($1, $2)`,
			userID, conferenceID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE conferences SET seats_available = seats_available - 1 WHERE id = $1`,
			conferenceID)
		return err
	})
}

func (r *registrationRepository) Unregister(ctx context.Context, userID string, conferenceID int64) (bool, error) {
	var removed bool
	err := runTx(ctx, r.DB, 0, func(tx *sql.Tx) error {
		removed = false
		var seats int
		err := tx.QueryRowContext(ctx,
			`SELECT seats_available FROM conferences WHERE id = $1 FOR UPDATE`,
			conferenceID).Scan(&seats)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: no conference with id %d", domain.ErrNotFound, conferenceID)
			}
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM conference_attendance WHERE user_id = $1 AND conference_id = $2`,
			userID, conferenceID)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			// Not registered: a successful no-op, not a failure.
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE conferences SET seats_available = seats_available + 1 WHERE id = $1`,
			conferenceID)
		if err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *registrationRepository) AddToWishlist(ctx context.Context, userID string, sessionID int64) error {
	return runTx(ctx, r.DB, wishlistTxRetries, func(tx *sql.Tx) error {
		var wishlisted int
		err := tx.QueryRowContext(ctx,
			`SELECT wishlisted FROM sessions WHERE id = $1 FOR UPDATE`,
			sessionID).Scan(&wishlisted)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: no session with id %d", domain.ErrNotFound, sessionID)
			}
			return err
		}

		var present bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM wishlists WHERE user_id = $1 AND session_id = $2)`,
			userID, sessionID).Scan(&present)
		if err != nil {
			return err
		}
		if present {
			return fmt.Errorf("%w: session is already on your wishlist", domain.ErrConflict)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wishlists (user_id, session_id) VALUES ($1, $2)`,
			userID, sessionID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE sessions SET wishlisted = wishlisted + 1 WHERE id = $1`,
			sessionID)
		return err
	})
}
