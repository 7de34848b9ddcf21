package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartSlot = (*SlotRepository)(nil)

// The slot key is fixed: the storefront persists exactly one value per
// session, the serialized cart.
const cartSlotKey = "cart"

// SlotRepository is the durable slot store. Change signals are
// broadcast in-process only, cross-tab notification stays best-effort.
type SlotRepository struct {
	sqldb sqldb
	hub   *updateHub
}

func NewSlotRepository(sqldb sqldb) *SlotRepository {
	return &SlotRepository{sqldb: sqldb, hub: newUpdateHub()}
}

func (r *SlotRepository) Load(
	ctx context.Context, sessionID string,
) ([]byte, bool, error) {
	const op = "SlotRepository.Load"

	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT payload FROM slots
		WHERE session_id = $1 AND slot_key = $2;`

	var payload []byte
	err := r.sqldb.QueryRowContext(
		ctx, query, sessionID, cartSlotKey,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return payload, true, nil
}

func (r *SlotRepository) Store(
	ctx context.Context, sessionID string, payload []byte,
) error {
	const op = "SlotRepository.Store"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO slots (session_id, slot_key, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, slot_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at;`

	_, err := r.sqldb.ExecContext(ctx, query, sessionID, cartSlotKey, payload)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}

	r.hub.broadcast(sessionID)
	return nil
}

func (r *SlotRepository) Clear(ctx context.Context, sessionID string) error {
	const op = "SlotRepository.Clear"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM slots WHERE session_id = $1 AND slot_key = $2;`

	_, err := r.sqldb.ExecContext(ctx, query, sessionID, cartSlotKey)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}

	r.hub.broadcast(sessionID)
	return nil
}

func (r *SlotRepository) Updates(
	ctx context.Context, sessionID string,
) <-chan struct{} {
	return r.hub.subscribe(ctx, sessionID)
}
