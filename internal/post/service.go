package post

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"social-web/internal/apiclient"
	"social-web/internal/events"
	"social-web/internal/images"
	"social-web/internal/user"
)

var (
	ErrNotOwner     = errors.New("post: not the owner")
	ErrNotConfirmed = errors.New("post: deletion not confirmed")
)

type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Patch(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Service struct {
	api  API
	sink images.Sink
	pub  events.Publisher
	log  *logrus.Entry
}

func NewService(api API, sink images.Sink, pub events.Publisher, log *logrus.Entry) *Service {
	if sink == nil {
		sink = images.DataURL{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{api: api, sink: sink, pub: pub, log: log.WithField("component", "post")}
}

// List returns the feed. Anything but a JSON array is treated as no posts.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "posts", &raw); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		s.log.WithField("body_prefix", prefix(raw)).Warn("posts response is not a list")
		return []Post{}, nil
	}
	var posts []Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", &apiclient.Error{Kind: apiclient.KindMalformed, Method: "GET", Path: "posts", Err: err})
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	var p Post
	if err := s.api.Get(ctx, apiclient.Path("posts", id), &p); err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &p, nil
}

// Create stores each upload through the image sink, in submission order,
// and creates the post.
func (s *Service) Create(ctx context.Context, actor *user.User, caption string, uploads []images.Upload) (string, error) {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := s.sink.Store(ctx, u)
		if err != nil {
			s.discard(ctx, urls)
			return "", fmt.Errorf("store image: %w", err)
		}
		urls = append(urls, url)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := s.api.Post(ctx, "posts", newWriteReq(caption, urls), &created); err != nil {
		s.discard(ctx, urls)
		return "", fmt.Errorf("create post: %w", err)
	}
	s.emit(ctx, events.PostCreated, created.ID, actor)
	return created.ID, nil
}

// Update rewrites the caption. Existing images are resubmitted in display
// order with sortOrder renumbered from zero.
func (s *Service) Update(ctx context.Context, actor *user.User, p *Post, caption string) error {
	if !actor.Owns(p.User.ID) {
		return ErrNotOwner
	}
	imgs := p.SortedImages()
	urls := make([]string, len(imgs))
	for i, img := range imgs {
		urls[i] = img.ImageURL
	}
	if err := s.api.Patch(ctx, apiclient.Path("posts", p.ID), newUpdateReq(caption, urls), nil); err != nil {
		return fmt.Errorf("update post %s: %w", p.ID, err)
	}
	s.emit(ctx, events.PostUpdated, p.ID, actor)
	return nil
}

func (s *Service) Delete(ctx context.Context, actor *user.User, p *Post, confirmed bool) error {
	if !actor.Owns(p.User.ID) {
		return ErrNotOwner
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := s.api.Delete(ctx, apiclient.Path("posts", p.ID), nil); err != nil {
		return fmt.Errorf("delete post %s: %w", p.ID, err)
	}
	s.emit(ctx, events.PostDeleted, p.ID, actor)
	return nil
}

func (s *Service) emit(ctx context.Context, t events.Type, postID string, actor *user.User) {
	e := events.Event{Type: t, PostID: postID}
	if actor != nil {
		e.ActorID = actor.ID
	}
	events.Emit(ctx, s.pub, s.log, e)
}

func (s *Service) discard(ctx context.Context, urls []string) {
	d, ok := s.sink.(images.Discarder)
	if !ok || len(urls) == 0 {
		return
	}
	if err := d.Discard(ctx, urls); err != nil {
		s.log.WithError(err).Warn("discard uploaded images")
	}
}

func prefix(b []byte) string {
	if len(b) > 64 {
		b = b[:64]
	}
	return string(b)
}
