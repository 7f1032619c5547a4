package events

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Type string

const (
	PostCreated    Type = "post.created"
	PostUpdated    Type = "post.updated"
	PostDeleted    Type = "post.deleted"
	CommentCreated Type = "comment.created"
	CommentUpdated Type = "comment.updated"
	CommentDeleted Type = "comment.deleted"
)

// Event describes one successful mutation made through the frontend.
type Event struct {
	Type      Type      `json:"type"`
	PostID    string    `json:"postId"`
	CommentID string    `json:"commentId,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
	ActorID   string    `json:"actorId,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// publishTimeout bounds how long a request waits on the broker.
var publishTimeout = 2 * time.Second

// Emit publishes e and only logs a failure; activity events never fail the
// user's action. The publish outlives a cancelled request but is cut off
// after publishTimeout.
func Emit(ctx context.Context, p Publisher, log *logrus.Entry, e Event) {
	if p == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, e); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"event": e.Type, "post_id": e.PostID}).Warn("publish activity event")
	}
}
