package comment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-web/internal/apiclient"
	"social-web/internal/events"
	"social-web/internal/logx"
	"social-web/internal/user"
)

type call struct {
	Method string
	Path   string
	Body   map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newService(t *testing.T, status int, body string) (*Service, *recordingPublisher, func() []call) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []call
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cl := call{Method: r.Method, Path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&cl.Body)
		mu.Lock()
		calls = append(calls, cl)
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}, logx.Discard())
	require.NoError(t, err)
	pub := &recordingPublisher{}
	return NewService(client, pub, logx.Discard()), pub, func() []call {
		mu.Lock()
		defer mu.Unlock()
		return append([]call(nil), calls...)
	}
}

var (
	owner    = &user.User{ID: "u1"}
	stranger = &user.User{ID: "u2"}
	mine     = Comment{ID: "c1", Content: "hi", User: user.User{ID: "u1"}}
)

func TestSubmitWhitespaceSendsNothing(t *testing.T) {
	svc, pub, calls := newService(t, http.StatusCreated, `{}`)
	for _, content := range []string{"", "   ", "\n\t "} {
		_, err := svc.Submit(context.Background(), "p1", Draft{Content: content})
		assert.ErrorIs(t, err, ErrEmptyContent)
	}
	assert.Empty(t, calls())
	assert.Empty(t, pub.events)
}

func TestSubmitTopLevelAndReply(t *testing.T) {
	svc, pub, calls := newService(t, http.StatusCreated, `{"success":true,"data":{"id":"new-1"}}`)

	id, err := svc.Submit(context.Background(), "p1", Draft{Content: "  first!  "})
	require.NoError(t, err)
	assert.Equal(t, "new-1", id)
	_, err = svc.Submit(context.Background(), "p1", Draft{Content: "reply", ParentID: "c1"})
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPost, got[0].Method)
	assert.Equal(t, "/posts/p1/comments", got[0].Path)
	assert.Equal(t, map[string]any{"content": "first!"}, got[0].Body)
	assert.Equal(t, map[string]any{"content": "reply", "parentId": "c1"}, got[1].Body)

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.CommentCreated, pub.events[1].Type)
	assert.Equal(t, "c1", pub.events[1].ParentID)
}

func TestUpdateOwnerOnly(t *testing.T) {
	svc, _, calls := newService(t, http.StatusOK, `{}`)

	err := svc.Update(context.Background(), stranger, "p1", mine, "hacked")
	assert.ErrorIs(t, err, ErrNotOwner)
	err = svc.Update(context.Background(), nil, "p1", mine, "hacked")
	assert.ErrorIs(t, err, ErrNotOwner)
	err = svc.Update(context.Background(), owner, "p1", mine, "  ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Empty(t, calls())

	require.NoError(t, svc.Update(context.Background(), owner, "p1", mine, "edited"))
	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPatch, got[0].Method)
	assert.Equal(t, "/posts/p1/comments/c1", got[0].Path)
	assert.Equal(t, "edited", got[0].Body["content"])
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	svc, pub, calls := newService(t, http.StatusOK, ``)

	assert.ErrorIs(t, svc.Delete(context.Background(), owner, "p1", mine, false), ErrNotConfirmed)
	assert.ErrorIs(t, svc.Delete(context.Background(), stranger, "p1", mine, true), ErrNotOwner)
	assert.Empty(t, calls(), "no DELETE without confirmation")

	require.NoError(t, svc.Delete(context.Background(), owner, "p1", mine, true))
	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodDelete, got[0].Method)
	assert.Equal(t, "/posts/p1/comments/c1", got[0].Path)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.CommentDeleted, pub.events[0].Type)
}

func TestMutationErrorsKeepAPIError(t *testing.T) {
	svc, pub, _ := newService(t, http.StatusForbidden, `{"statusCode":403,"message":"권한이 없습니다."}`)

	err := svc.Update(context.Background(), owner, "p1", mine, "edited")
	require.Error(t, err)
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "권한이 없습니다.", apiErr.Message)
	assert.Empty(t, pub.events)
}
