package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"social-web/internal/apiclient"
	"social-web/internal/events"
	"social-web/internal/user"
)

var (
	ErrEmptyContent = errors.New("comment: empty content")
	ErrNotOwner     = errors.New("comment: not the owner")
	ErrNotConfirmed = errors.New("comment: deletion not confirmed")
)

// API is the slice of the REST client the comment operations need.
type API interface {
	Post(ctx context.Context, path string, in, out any) error
	Patch(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Service struct {
	api API
	pub events.Publisher
	log *logrus.Entry
}

func NewService(api API, pub events.Publisher, log *logrus.Entry) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{api: api, pub: pub, log: log.WithField("component", "comment")}
}

// Draft is a comment being written; ParentID is empty for a top-level one.
type Draft struct {
	Content  string
	ParentID string
}

// Submit creates a comment or a reply. Whitespace-only content is rejected
// before any request is made.
func (s *Service) Submit(ctx context.Context, postID string, d Draft) (string, error) {
	content := strings.TrimSpace(d.Content)
	if content == "" {
		return "", ErrEmptyContent
	}
	var created struct {
		ID string `json:"id"`
	}
	err := s.api.Post(ctx, apiclient.Path("posts", postID, "comments"), createReq{Content: content, ParentID: d.ParentID}, &created)
	if err != nil {
		return "", fmt.Errorf("create comment: %w", err)
	}
	events.Emit(ctx, s.pub, s.log, events.Event{Type: events.CommentCreated, PostID: postID, CommentID: created.ID, ParentID: d.ParentID})
	return created.ID, nil
}

func (s *Service) Update(ctx context.Context, actor *user.User, postID string, target Comment, content string) error {
	if !actor.Owns(target.User.ID) {
		return ErrNotOwner
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	if err := s.api.Patch(ctx, apiclient.Path("posts", postID, "comments", target.ID), updateReq{Content: content}, nil); err != nil {
		return fmt.Errorf("update comment %s: %w", target.ID, err)
	}
	events.Emit(ctx, s.pub, s.log, events.Event{Type: events.CommentUpdated, PostID: postID, CommentID: target.ID, ActorID: actor.ID})
	return nil
}

func (s *Service) Delete(ctx context.Context, actor *user.User, postID string, target Comment, confirmed bool) error {
	if !actor.Owns(target.User.ID) {
		return ErrNotOwner
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := s.api.Delete(ctx, apiclient.Path("posts", postID, "comments", target.ID), nil); err != nil {
		return fmt.Errorf("delete comment %s: %w", target.ID, err)
	}
	events.Emit(ctx, s.pub, s.log, events.Event{Type: events.CommentDeleted, PostID: postID, CommentID: target.ID, ActorID: actor.ID})
	return nil
}
