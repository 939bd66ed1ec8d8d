package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/twmb/franz-go/pkg/kgo"
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A SearchEventsProducer used for produce [domain.SearchEvent]
type SearchEventsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewSearchEventsProducer(
	opts ...ProducerOpt,
) (SearchEventsProducer, error) {
	const op = "NewSearchEventsProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return SearchEventsProducer{}, opErr(err, op)
		}
	}

	if options.cl == nil || options.encoder == nil {
		if options.cl != nil {
			options.cl.Close()
		}
		return SearchEventsProducer{}, opErr(ErrTooFewOpts, op)
	}

	opPrefix := "SearchEventsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return SearchEventsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p SearchEventsProducer) Close() {
	p.producer.close()
}

// ProduceSearchEvent blocks until the broker acknowledges the record.
func (p SearchEventsProducer) ProduceSearchEvent(
	ctx context.Context, v domain.SearchEvent,
) error {
	const op = "ProduceSearchEvent"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p SearchEventsProducer) createRecord(
	v domain.SearchEvent,
) (*kgo.Record, error) {
	const op = "createRecord"

	s := searchEventToSchemaV1(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.Query), Value: b}, nil
}
