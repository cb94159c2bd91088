package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"diary-app/src/feed"

	"github.com/sirupsen/logrus"
)

// ErrStreamReset means the server dropped the subscription; reload and resubscribe
var ErrStreamReset = errors.New("change stream was reset by the server")

// Stream is an open change subscription to one table.
// C is closed when the stream ends; Err then tells why.
type Stream struct {
	Table string
	C     <-chan feed.Event

	body   io.ReadCloser
	once   sync.Once
	mu     sync.Mutex
	err    error
	logger *logrus.Logger
}

// Subscribe opens the change stream of table. It returns once the server has
// registered the subscription, so a snapshot loaded afterwards misses nothing.
func (c *Client) Subscribe(ctx context.Context, table string) (*Stream, error) {
	path := "/api/feed/" + table
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	r := bufio.NewReader(resp.Body)
	if err := awaitReady(r); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("subscribe %s: %w", table, err)
	}

	ch := make(chan feed.Event, 64)
	s := &Stream{Table: table, C: ch, body: resp.Body, logger: c.logger}
	go s.run(ctx, r, ch)
	return s, nil
}

// Err returns why the stream ended; nil while it is open
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the stream
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() { err = s.body.Close() })
	return err
}

func (s *Stream) run(ctx context.Context, r *bufio.Reader, ch chan<- feed.Event) {
	defer close(ch)
	defer s.Close()

	for {
		msg, err := readMessage(r)
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			s.finish(err)
			return
		}

		switch msg.event {
		case feed.StreamPing, feed.StreamReady:
			continue
		case feed.StreamReset:
			s.finish(ErrStreamReset)
			return
		}

		var ev feed.Event
		if err := json.Unmarshal([]byte(msg.data), &ev); err != nil || !ev.Type.IsValid() {
			s.logger.WithFields(logrus.Fields{
				"table": s.Table,
				"event": msg.event,
			}).Warn("変更イベントを解釈できません")
			continue
		}

		select {
		case ch <- ev:
		case <-ctx.Done():
			s.finish(ctx.Err())
			return
		}
	}
}

func (s *Stream) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func awaitReady(r *bufio.Reader) error {
	for {
		msg, err := readMessage(r)
		if err != nil {
			return err
		}
		switch msg.event {
		case feed.StreamReady:
			return nil
		case feed.StreamPing:
			continue
		default:
			return fmt.Errorf("expected %q event, got %q", feed.StreamReady, msg.event)
		}
	}
}

type message struct {
	event string
	data  string
}

// readMessage reads one server-sent event; multi-line data is joined with "\n"
func readMessage(r *bufio.Reader) (message, error) {
	var msg message
	var data []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return message{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if msg.event == "" && len(data) == 0 {
				continue
			}
			msg.data = strings.Join(data, "\n")
			if msg.event == "" {
				msg.event = "message"
			}
			return msg, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			msg.event = value
		case "data":
			data = append(data, value)
		}
	}
}
