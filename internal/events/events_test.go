package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	k "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-web/internal/logx"
)

type captureWriter struct {
	msgs []k.Message
	err  error
}

func (c *captureWriter) WriteMessages(ctx context.Context, msgs ...k.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.msgs = append(c.msgs, msgs...)
	return c.err
}

func (c *captureWriter) Close() error { return nil }

func TestKafkaPublishKeysByPost(t *testing.T) {
	w := &captureWriter{}
	p := &Kafka{w: w}
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, p.Publish(context.Background(), Event{Type: CommentCreated, PostID: "p1", CommentID: "c1", At: at}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "p1", string(w.msgs[0].Key))
	assert.Equal(t, at, w.msgs[0].Time)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "comment.created", got["type"])
	assert.Equal(t, "c1", got["commentId"])
	assert.NotContains(t, got, "parentId")
}

func TestNewWithoutBrokersIsNop(t *testing.T) {
	p, err := New("  ", "frontend.activity")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)

	_, err = NewKafka(" , ", "t")
	assert.Error(t, err)
	_, err = NewKafka("localhost:9092", "")
	assert.Error(t, err)
}

func TestEmitLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.NewEntry(logx.NewWithOutput(&buf, "debug", "json"))
	w := &captureWriter{err: errors.New("broker down")}

	Emit(context.Background(), &Kafka{w: w}, log, Event{Type: PostDeleted, PostID: "p9"})

	require.Len(t, w.msgs, 1)
	assert.False(t, w.msgs[0].Time.IsZero())
	assert.Contains(t, buf.String(), "broker down")
	assert.Contains(t, buf.String(), "post.deleted")
}

type stalledWriter struct{ done chan error }

func (s *stalledWriter) WriteMessages(ctx context.Context, _ ...k.Message) error {
	<-ctx.Done()
	s.done <- ctx.Err()
	return ctx.Err()
}

func (s *stalledWriter) Close() error { return nil }

func TestEmitGivesUpOnStalledBroker(t *testing.T) {
	prev := publishTimeout
	publishTimeout = 20 * time.Millisecond
	t.Cleanup(func() { publishTimeout = prev })

	var buf bytes.Buffer
	log := logrus.NewEntry(logx.NewWithOutput(&buf, "debug", "json"))
	w := &stalledWriter{done: make(chan error, 1)}

	start := time.Now()
	Emit(context.Background(), &Kafka{w: w}, log, Event{Type: PostCreated, PostID: "p1"})

	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, <-w.done, context.DeadlineExceeded)
	assert.Contains(t, buf.String(), "publish activity event")
}

func TestEmitSurvivesCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &captureWriter{}

	Emit(ctx, &Kafka{w: w}, logrus.NewEntry(logrus.New()), Event{Type: CommentDeleted, PostID: "p2"})

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "p2", string(w.msgs[0].Key))
}
