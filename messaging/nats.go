package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"mycareerlist/config"
	"mycareerlist/service"
)

// publisher the part of *nats.Conn the Publisher needs
type publisher interface {
	Publish(subject string, data []byte) error
}

// Publisher sends outbound mail requests and job events to NATS subjects.
// Mail delivery and social posting are done by the subscribers.
type Publisher struct {
	conn           publisher
	nc             *nats.Conn
	emailSubject   string
	publishSubject string
}

func NewPublisher(cfg config.NatsConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("mycareerlist"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{
		conn:           nc,
		nc:             nc,
		emailSubject:   cfg.EmailSubject,
		publishSubject: cfg.PublishSubject,
	}, nil
}

func (p *Publisher) SendEmail(_ context.Context, msg service.EmailMessage) error {
	return p.publish(p.emailSubject, msg)
}

func (p *Publisher) JobPublished(_ context.Context, event service.JobPublishedEvent) error {
	return p.publish(p.publishSubject, event)
}

func (p *Publisher) publish(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}
