// Package webhook delivers a run's terminal summary to an external HTTP
// endpoint, the same "final POST once everything settles" shape a CI
// integration or a chat notifier would want.
package webhook

import (
	"bytes"
	"context"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/vmihailenco/msgpack/v5"
	"resty.dev/v3"
)

// Summary is the payload delivered to the webhook endpoint once a run's
// loop in internal/macro has exited.
type Summary struct {
	Name       string `msgpack:"name"`
	Cycles     int    `msgpack:"cycles"`
	Successful bool   `msgpack:"successful"`
	Path       string `msgpack:"path"`
}

// Sender delivers a Summary. Implementations must treat ctx's deadline as
// authoritative and must not retry past it.
type Sender interface {
	Send(ctx context.Context, summary Summary) error
}

// restySender posts a gzip-compressed msgpack-encoded Summary, the same
// binary-body-over-HTTP shape the teacher's http_client runner posts JSON
// bodies with, swapped to a smaller wire format for a payload that is
// emitted once per run rather than once per request.
type restySender struct {
	client *resty.Client
	url    string
}

// NewResty returns a Sender that posts to url using client. Passing nil
// for client builds a new resty.Client with resty's own defaults.
func NewResty(client *resty.Client, url string) Sender {
	if client == nil {
		client = resty.New()
	}
	return &restySender{client: client, url: url}
}

func (s *restySender) Send(ctx context.Context, summary Summary) error {
	encoded, err := msgpack.Marshal(summary)
	if err != nil {
		return fmt.Errorf("webhook: encode summary: %w", err)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(encoded); err != nil {
		return fmt.Errorf("webhook: compress summary: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("webhook: compress summary: %w", err)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/msgpack").
		SetHeader("Content-Encoding", "gzip").
		SetBody(buf.Bytes()).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("webhook: post summary: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook: server rejected summary: %s", resp.Status())
	}
	return nil
}
