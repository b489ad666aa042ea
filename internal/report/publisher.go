package report

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const verdictSubject = "connectivity.verdicts"

// Publisher pushes verdict reports onto the event bus.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(natsURL string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Verifier connected to NATS at %s", natsURL)

	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(verdictSubject, data); err != nil {
		return err
	}

	log.Printf("Published verdict to event bus [%s passed=%t]", r.Target, r.Passed)
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		log.Printf("Verifier disconnected from NATS")
	}
}

func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}
