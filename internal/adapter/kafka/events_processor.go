package kafka

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/pkg/schema"
)

type checkoutEventCodec struct {
	serde Serde
}

func newCheckoutEventCodec(s Serde) checkoutEventCodec {
	return checkoutEventCodec{s}
}

func (c checkoutEventCodec) Encode(v any) ([]byte, error) {
	const op = "checkoutEventCodec.Encode"
	if _, ok := v.(schema.CheckoutEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c checkoutEventCodec) Decode(data []byte) (any, error) {
	const op = "checkoutEventCodec.Decode"
	var s schema.CheckoutEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// ActivityCount is the per-session fold state of the group table.
type ActivityCount int64

type ActivityCountCodec struct{}

func (ActivityCountCodec) Encode(v any) ([]byte, error) {
	const op = "ActivityCountCodec.Encode"
	cnt, ok := v.(ActivityCount)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt([]byte(nil), int64(cnt), 10), nil
}

func (ActivityCountCodec) Decode(data []byte) (any, error) {
	const op = "ActivityCountCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return ActivityCount(n), nil
}

// SessionActivityProcessor folds the checkout-events stream into a
// per-session event count table.
type SessionActivityProcessor struct {
	gp *goka.Processor
}

func NewSessionActivityProcessor(
	seedBrokers []string, stream, group string, eventSerde Serde,
) (SessionActivityProcessor, error) {
	const op = "NewSessionActivityProcessor"

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(stream),
			newCheckoutEventCodec(eventSerde),
			processEvent,
		),
		goka.Persist(ActivityCountCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return SessionActivityProcessor{}, opErr(err, op)
	}

	return SessionActivityProcessor{gp}, nil
}

func processEvent(ctx goka.Context, msg any) {
	var cnt ActivityCount
	if v := ctx.Value(); v != nil {
		cnt = v.(ActivityCount)
	}
	ctx.SetValue(cnt + 1)
}

func (p SessionActivityProcessor) Run(ctx context.Context) {
	const op = "SessionActivityProcessor.Run"
	log := slog.With("op", op)

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p SessionActivityProcessor) Close() {
	const op = "SessionActivityProcessor.Close"
	log := slog.With("op", op)

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}
