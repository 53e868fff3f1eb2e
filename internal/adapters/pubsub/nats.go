package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/pkg/logger"
)

const (
	defaultStream  = "OFFSEASON"
	connectTimeout = 5 * time.Second
)

// NATSPublisher writes events to a JetStream stream. Each event lands on
// <subject>.<event type> and carries its id as the JetStream message id, so
// a retried publish is stored once.
type NATSPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	stream  string
	maxAge  time.Duration
	storage nats.StorageType
	log     logger.Logger

	// embedded is shut down with the publisher when set.
	embedded *EmbeddedServer
}

// NewNATSPublisher connects to url and makes sure the stream exists.
func NewNATSPublisher(url, subject string, opts ...Option) (*NATSPublisher, error) {
	p := &NATSPublisher{
		subject: strings.TrimSuffix(subject, "."),
		stream:  defaultStream,
		storage: nats.FileStorage,
		log:     logger.Named("pubsub.nats"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrStream)
	}

	nc, err := nats.Connect(url, nats.Name("offseason"), nats.Timeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, url, err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w: jetstream context: %w", ErrConnect, err)
	}
	p.nc, p.js = nc, js

	if err := p.ensureStream(); err != nil {
		nc.Close()
		return nil, err
	}
	p.log.Info(context.Background(), "nats publisher ready",
		logger.String("url", url), logger.String("stream", p.stream), logger.String("subject", p.subject))
	return p, nil
}

func (p *NATSPublisher) ensureStream() error {
	_, err := p.js.StreamInfo(p.stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrStream, p.stream, err)
	}
	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:     p.stream,
		Subjects: []string{p.subject + ".>"},
		Storage:  p.storage,
		MaxAge:   p.maxAge,
	})
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStream, p.stream, err)
	}
	return nil
}

func (p *NATSPublisher) Name() string { return "nats" }

// SubjectFor returns the subject an event type is published on.
func (p *NATSPublisher) SubjectFor(t model.EventType) string {
	return p.subject + "." + string(t)
}

func (p *NATSPublisher) Publish(ctx context.Context, e model.Event) error { //nolint:gocritic // events travel by value
	if p.nc == nil || p.nc.IsClosed() {
		return ErrClosed
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.EventID, err)
	}
	opts := []nats.PubOpt{nats.Context(ctx)}
	if e.EventID != "" {
		opts = append(opts, nats.MsgId(e.EventID))
	}
	if _, err := p.js.Publish(p.SubjectFor(e.Type), data, opts...); err != nil {
		return fmt.Errorf("publish event %s: %w", e.EventID, err)
	}
	return nil
}

// Subscribe attaches a durable consumer to every event subject. The handler
// sees events in stream order; messages that fail to decode are terminated.
func (p *NATSPublisher) Subscribe(durable string, handler func(model.Event)) (*nats.Subscription, error) {
	sub, err := p.js.Subscribe(p.subject+".>", func(msg *nats.Msg) {
		var e model.Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			p.log.Error(context.Background(), "dropping undecodable event",
				logger.String("subject", msg.Subject), logger.Error(err))
			_ = msg.Term()
			return
		}
		handler(e)
		_ = msg.Ack()
	}, nats.Durable(durable), nats.ManualAck(), nats.DeliverAll())
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", durable, err)
	}
	return sub, nil
}

// Close drains the connection and stops an owned embedded server.
func (p *NATSPublisher) Close() error {
	var err error
	if p.nc != nil && !p.nc.IsClosed() {
		err = p.nc.Drain()
	}
	if p.embedded != nil {
		p.embedded.Shutdown()
	}
	return err
}
