// Package notify contains NotificationChannel adapters. The scoring core
// treats delivery as fire-and-forget; adapters own transport concerns.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"foodshare/internal/errs"
	"foodshare/internal/ports"
)

// NATSChannel publishes expiry alerts to a NATS subject. Downstream
// consumers (email sender, in-app inbox) subscribe independently.
type NATSChannel struct {
	conn          *nats.Conn
	subjectPrefix string
}

var _ ports.NotificationChannel = (*NATSChannel)(nil)

func NewNATSChannel(url string, subjectPrefix string) (*NATSChannel, error) {
	conn, err := nats.Connect(url, nats.Name("foodshare-risk"))
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %q", url)
	}

	if subjectPrefix == "" {
		subjectPrefix = "expiry.alerts"
	}

	return &NATSChannel{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}, nil
}

func (c *NATSChannel) Publish(ctx context.Context, alert ports.ExpiryAlert) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return errs.Wrap(err, "marshal expiry alert")
	}

	subject := fmt.Sprintf("%s.%d", c.subjectPrefix, alert.SupplierID)
	if err := c.conn.Publish(subject, payload); err != nil {
		return errs.Wrapf(err, "publish expiry alert to %q", subject)
	}
	return nil
}

func (c *NATSChannel) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
