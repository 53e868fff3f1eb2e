package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/okian/offseason/pkg/logger"
)

const readyTimeout = 10 * time.Second

// EmbeddedNATS is the nats_url value that starts an in-process server.
const EmbeddedNATS = "embedded"

// EmbeddedServer is a JetStream-enabled NATS server running in process.
type EmbeddedServer struct {
	srv *server.Server
}

// StartEmbedded starts a server on a random local port. An empty storeDir
// lets the server pick a temporary directory.
func StartEmbedded(storeDir string) (*EmbeddedServer, error) {
	srv, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      server.RANDOM_PORT,
		JetStream: true,
		StoreDir:  storeDir,
		NoSigs:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedded nats: %w", err)
	}
	srv.SetLogger(natsLogger{log: logger.Named("nats")}, false, false)

	go srv.Start()
	if !srv.ReadyForConnections(readyTimeout) {
		srv.Shutdown()
		return nil, fmt.Errorf("embedded nats not ready after %s", readyTimeout)
	}
	return &EmbeddedServer{srv: srv}, nil
}

// URL is the client URL of the server.
func (e *EmbeddedServer) URL() string { return e.srv.ClientURL() }

// Shutdown stops the server and waits for it.
func (e *EmbeddedServer) Shutdown() {
	e.srv.Shutdown()
	e.srv.WaitForShutdown()
}

// Open returns the publisher for url: the memory publisher when url is
// empty, an in-process server when it is EmbeddedNATS, a NATS connection
// otherwise.
func Open(url, subject, stream string) (Publisher, error) {
	switch url {
	case "":
		return NewMemoryPublisher(0), nil
	case EmbeddedNATS:
		srv, err := StartEmbedded("")
		if err != nil {
			return nil, err
		}
		p, err := NewNATSPublisher(srv.URL(), subject, WithStream(stream), WithMemoryStorage())
		if err != nil {
			srv.Shutdown()
			return nil, err
		}
		p.embedded = srv
		return p, nil
	}
	return NewNATSPublisher(url, subject, WithStream(stream))
}

// natsLogger routes server logs into pkg/logger.
type natsLogger struct {
	log logger.Logger
}

func (l natsLogger) Noticef(format string, v ...any) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, v...))
}

func (l natsLogger) Warnf(format string, v ...any) {
	l.log.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (l natsLogger) Fatalf(format string, v ...any) {
	l.log.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (l natsLogger) Errorf(format string, v ...any) {
	l.log.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (l natsLogger) Debugf(format string, v ...any) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, v...))
}

func (l natsLogger) Tracef(format string, v ...any) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, v...))
}
