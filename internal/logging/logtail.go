package logging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// logtailSender posts log lines to the Better Stack ingest API from a
// background goroutine. The buffered channel decouples workers from sink
// latency; when it fills, lines are dropped rather than blocking the
// pipeline.
type logtailSender struct {
	endpoint   string
	token      string
	httpClient *http.Client
	lines      chan []byte
	done       chan struct{}
}

// NewLogtailHandler returns a slog.Handler that delivers JSON records to the
// remote sink, and a close func that drains pending lines.
func NewLogtailHandler(endpoint, token string, level slog.Level) (slog.Handler, func()) {
	s := &logtailSender{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		lines: make(chan []byte, 1024),
		done:  make(chan struct{}),
	}
	go s.deliverLoop()
	h := slog.NewJSONHandler(s, &slog.HandlerOptions{Level: level})
	return h, s.close
}

// Write enqueues one encoded record. It implements io.Writer so the stock
// JSON handler does all the formatting.
func (s *logtailSender) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case s.lines <- line:
	default:
		fmt.Fprintf(os.Stderr, "logtail queue full, dropping log line\n")
	}
	return len(p), nil
}

func (s *logtailSender) deliverLoop() {
	defer close(s.done)
	for line := range s.lines {
		s.deliver(line)
	}
}

func (s *logtailSender) deliver(line []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewReader(line))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logtail request creation failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logtail delivery failed: %v\n", err)
		return
	}
	resp.Body.Close()
}

func (s *logtailSender) close() {
	close(s.lines)
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
	}
}
