package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.CheckoutEventsProducer = (*CheckoutEventsProducer)(nil)

// A CheckoutEventsProducer produces [domain.CheckoutEvent] keyed by
// session id, so one session's events land in one partition in order.
type CheckoutEventsProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewCheckoutEventsProducer(
	opts ...ProducerOpt,
) (CheckoutEventsProducer, error) {
	const op = "NewCheckoutEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return CheckoutEventsProducer{}, opErr(err, op)
		}
	}
	return CheckoutEventsProducer{options.cl, options.encoder}, nil
}

func (p CheckoutEventsProducer) Close() {
	const op = "CheckoutEventsProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p CheckoutEventsProducer) ProduceEvent(
	ctx context.Context, evt domain.CheckoutEvent,
) error {
	const op = "CheckoutEventsProducer.ProduceEvent"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	r, err := p.createRecord(evt)
	if err != nil {
		return opErr(err, op)
	}

	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, op)
	}

	return nil
}

func (p CheckoutEventsProducer) createRecord(
	evt domain.CheckoutEvent,
) (*kgo.Record, error) {
	const op = "CheckoutEventsProducer.createRecord"

	s := p.toSchema(evt)
	v, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return &kgo.Record{Key: []byte(s.SessionID), Value: v}, nil
}

func (CheckoutEventsProducer) toSchema(
	evt domain.CheckoutEvent,
) (s schema.CheckoutEventV1) {
	s.SessionID = evt.SessionID
	s.EventType = string(evt.Type)
	s.ProductID = int64(evt.ProductID)
	s.AmountCents = evt.AmountCents
	s.UnixMS = evt.At.UnixMilli()
	return s
}
