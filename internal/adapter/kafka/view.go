package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.SessionActivityReader = (*SessionActivityView)(nil)

// SessionActivityView serves the session-activity group table.
type SessionActivityView struct {
	gv *goka.View
}

func NewSessionActivityView(
	seedBrokers []string, group string,
) (SessionActivityView, error) {
	const op = "NewSessionActivityView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		ActivityCountCodec{},
	)
	if err != nil {
		return SessionActivityView{}, opErr(err, op)
	}

	return SessionActivityView{gv}, nil
}

func (v SessionActivityView) Run(ctx context.Context) {
	const op = "SessionActivityView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

func (v SessionActivityView) SessionEvents(sessionID string) (int64, error) {
	const op = "SessionActivityView.SessionEvents"

	val, err := v.gv.Get(sessionID)
	if err != nil {
		return 0, opErr(err, op)
	}
	if val == nil {
		return 0, nil
	}

	cnt, ok := val.(ActivityCount)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, val), op)
	}
	return int64(cnt), nil
}
