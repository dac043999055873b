package report

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/parttracker/internal/ctxlog"
	"github.com/vk/parttracker/internal/part"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// namespace is the fixed socket.io namespace every dashboard connects on.
const namespace = "/part-tracker"

// socketIO is a Reporter backed by a single long-lived socket.io client
// connection, the same connect-once-reuse-forever shape the teacher's
// socketio_client asset uses for its CreateSocketIOClient handler.
type socketIO struct {
	io *socket.Socket
}

// NewSocketIO connects to a socket.io server at addr and returns a Reporter
// that emits one event per call on the /part-tracker namespace. The
// connection attempt is bounded the same way the teacher's
// CreateSocketIOClient bounds its own handshake.
func NewSocketIO(ctx context.Context, addr string) (Reporter, error) {
	parsedURL, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("report: parse socket.io address: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if parsedURL.Scheme == "wss" || parsedURL.Scheme == "https" {
		opts.SetTLSClientConfig(&tls.Config{})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		connectChan <- err
	})

	io.Connect()
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("report: socket.io connection failed: %w", err)
		}
		return &socketIO{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("report: context cancelled while connecting: %w", ctx.Err())
	case <-time.After(15 * time.Second):
		io.Disconnect()
		return nil, fmt.Errorf("report: timed out after 15s waiting for socket.io connection")
	}
}

func (s *socketIO) CycleStarted(ctx context.Context, runID string, cycle int) {
	s.emit(ctx, "cycle_started", map[string]any{"run_id": runID, "cycle": cycle})
}

func (s *socketIO) TrackerOpened(ctx context.Context, runID, path string, kind part.Kind) {
	s.emit(ctx, "tracker_opened", map[string]any{"run_id": runID, "path": path, "kind": kind.String()})
}

func (s *socketIO) TrackerClosed(ctx context.Context, runID, path string, state part.RunState) {
	s.emit(ctx, "tracker_closed", map[string]any{"run_id": runID, "path": path, "state": state.String()})
}

func (s *socketIO) RunCompleted(ctx context.Context, runID string, summary Summary) {
	s.emit(ctx, "run_completed", map[string]any{
		"run_id":     runID,
		"name":       summary.Name,
		"cycles":     summary.Cycles,
		"successful": summary.Successful,
		"path":       summary.Path,
	})
}

func (s *socketIO) emit(ctx context.Context, event string, data map[string]any) {
	ctxlog.FromContext(ctx).Debug("report: emitting event", "event", event)
	s.io.Emit(event, data)
}

// Close disconnects the underlying socket.io client.
func (s *socketIO) Close() {
	s.io.Disconnect()
}
