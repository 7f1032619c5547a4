package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"social-web/internal/apiclient"
	"social-web/internal/comment"
	"social-web/internal/post"
	"social-web/internal/user"
)

// postPage is the post view. The UI state the browser version kept in memory
// (reply target, edit mode, pending confirmation) comes from the query string
// or, after a failed submit, from the submitted form.
type postPage struct {
	Post     *post.Post
	Me       *user.User
	Images   []post.Image
	Thread   *comment.Forest
	MaxDepth int

	ReplyTo              *comment.Node
	Draft                string
	EditPost             bool
	Caption              string
	EditComment          string
	CommentDraft         string
	ConfirmDeletePost    bool
	ConfirmDeleteComment *comment.Node

	Error    string
	Blocking string
}

func (p *postPage) Self() string { return postURL(p.Post.ID) }

func (p *postPage) OwnsPost() bool { return p.Me.Owns(p.Post.User.ID) }

func (p *postPage) Roots() []commentView {
	return p.views(p.Thread.Roots, 0)
}

func (p *postPage) views(nodes []*comment.Node, depth int) []commentView {
	out := make([]commentView, len(nodes))
	for i, n := range nodes {
		out[i] = commentView{Node: n, Depth: depth, Page: p}
	}
	return out
}

type commentView struct {
	Node  *comment.Node
	Depth int
	Page  *postPage
}

func (v commentView) Children() []commentView { return v.Page.views(v.Node.Children, v.Depth+1) }

// Indented reports whether this node sits one level deeper than its parent.
// Past MaxDepth replies stay at the parent's indent.
func (v commentView) Indented() bool {
	return v.Depth > 0 && (v.Page.MaxDepth <= 0 || v.Depth <= v.Page.MaxDepth)
}

func (v commentView) Owned() bool   { return v.Page.Me.Owns(v.Node.User.ID) }
func (v commentView) Editing() bool { return v.Owned() && v.Page.EditComment == v.Node.ID }

func postURL(id string) string { return "/dashboard/posts/" + url.PathEscape(id) }

// load fetches the current user and the post. On failure it has already
// written the response.
func (s *Server) load(w http.ResponseWriter, r *http.Request, h handlers) (*postPage, bool) {
	id := chi.URLParam(r, "id")
	me, err := h.auth.Me(r.Context())
	var p *post.Post
	if err == nil {
		p, err = h.posts.Get(r.Context(), id)
	}
	if err != nil {
		if toLogin(w, r, err) {
			return nil, false
		}
		s.log.WithError(err).WithField("post_id", id).Warn("load post")
		if apiclient.StatusOf(err) == http.StatusNotFound {
			s.renderError(w, http.StatusNotFound, s.msgs.T("post.not_found"))
		} else {
			s.renderError(w, statusFor(err), s.msgs.T("post.load_failed"))
		}
		return nil, false
	}
	if p.ID == "" {
		p.ID = id
	}
	thread := p.Thread()
	if len(thread.Orphans) > 0 {
		ids := make([]string, len(thread.Orphans))
		for i, o := range thread.Orphans {
			ids[i] = o.ID
		}
		s.log.WithField("post_id", id).WithField("comment_ids", ids).Warn("dropped comments with unknown parent")
	}
	return &postPage{
		Post:     p,
		Me:       me,
		Images:   p.SortedImages(),
		Thread:   thread,
		MaxDepth: s.maxDepth,
		Caption:  p.CaptionText(),
	}, true
}

func (s *Server) showPost(w http.ResponseWriter, r *http.Request) {
	page, ok := s.load(w, r, s.bind(r))
	if !ok {
		return
	}
	q := r.URL.Query()
	if n, ok := page.Thread.Find(q.Get("reply")); ok {
		page.ReplyTo = n
	}
	switch edit := q.Get("edit"); {
	case edit == "post":
		page.EditPost = page.OwnsPost()
	case edit != "":
		if n, ok := page.Thread.Find(edit); ok && page.Me.Owns(n.User.ID) {
			page.EditComment, page.CommentDraft = n.ID, n.Content
		}
	}
	switch q.Get("confirm") {
	case "delete-post":
		page.ConfirmDeletePost = page.OwnsPost()
	case "delete-comment":
		if n, ok := page.Thread.Find(q.Get("comment")); ok && page.Me.Owns(n.User.ID) {
			page.ConfirmDeleteComment = n
		}
	}
	s.render(w, http.StatusOK, "post", page)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	h := s.bind(r)
	page, ok := s.load(w, r, h)
	if !ok {
		return
	}
	caption := r.PostFormValue("caption")
	err := h.posts.Update(r.Context(), page.Me, page.Post, caption)
	switch {
	case err == nil:
		http.Redirect(w, r, page.Self(), http.StatusSeeOther)
	case errors.Is(err, post.ErrNotOwner):
		s.renderError(w, http.StatusForbidden, s.msgs.T("error.forbidden"))
	case toLogin(w, r, err):
	default:
		s.log.WithError(err).Warn("update post")
		page.EditPost, page.Caption = true, caption
		page.Error = s.describe(err, "post.update_failed", "post.update_failed")
		s.render(w, statusFor(err), "post", page)
	}
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	h := s.bind(r)
	page, ok := s.load(w, r, h)
	if !ok {
		return
	}
	err := h.posts.Delete(r.Context(), page.Me, page.Post, r.PostFormValue("confirm") == "yes")
	switch {
	case err == nil:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case errors.Is(err, post.ErrNotConfirmed):
		http.Redirect(w, r, page.Self()+"?confirm=delete-post", http.StatusSeeOther)
	case errors.Is(err, post.ErrNotOwner):
		s.renderError(w, http.StatusForbidden, s.msgs.T("error.forbidden"))
	case toLogin(w, r, err):
	default:
		s.log.WithError(err).Warn("delete post")
		page.Blocking = s.describe(err, "post.delete_failed", "post.delete_failed")
		s.render(w, statusFor(err), "post", page)
	}
}

func (s *Server) submitComment(w http.ResponseWriter, r *http.Request) {
	h := s.bind(r)
	postID := chi.URLParam(r, "id")
	draft := comment.Draft{Content: r.PostFormValue("content"), ParentID: r.PostFormValue("parent_id")}

	var page *postPage
	if draft.ParentID != "" && strings.TrimSpace(draft.Content) != "" {
		var ok bool
		if page, ok = s.load(w, r, h); !ok {
			return
		}
		if _, found := page.Thread.Find(draft.ParentID); !found {
			page.Draft, page.Error = draft.Content, s.msgs.T("comment.parent_missing")
			s.render(w, http.StatusUnprocessableEntity, "post", page)
			return
		}
	}

	id, err := h.comments.Submit(r.Context(), postID, draft)
	switch {
	case err == nil:
		http.Redirect(w, r, postURL(postID)+"#comment-"+url.PathEscape(id), http.StatusSeeOther)
		return
	case errors.Is(err, comment.ErrEmptyContent):
		back := postURL(postID)
		if draft.ParentID != "" {
			back += "?reply=" + url.QueryEscape(draft.ParentID)
		}
		http.Redirect(w, r, back+"#comment-input", http.StatusSeeOther)
		return
	case toLogin(w, r, err):
		return
	}

	s.log.WithError(err).Warn("submit comment")
	if page == nil {
		var ok bool
		if page, ok = s.load(w, r, h); !ok {
			return
		}
	}
	if n, ok := page.Thread.Find(draft.ParentID); ok {
		page.ReplyTo = n
	}
	page.Draft = draft.Content
	page.Error = s.describe(err, "comment.create_failed", "error.unknown")
	s.render(w, statusFor(err), "post", page)
}

// target resolves the {cid} comment in the loaded post.
func (s *Server) target(w http.ResponseWriter, r *http.Request, page *postPage) (*comment.Node, bool) {
	n, ok := page.Thread.Find(chi.URLParam(r, "cid"))
	if !ok {
		s.renderError(w, http.StatusNotFound, s.msgs.T("comment.not_found"))
	}
	return n, ok
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	h := s.bind(r)
	page, ok := s.load(w, r, h)
	if !ok {
		return
	}
	n, ok := s.target(w, r, page)
	if !ok {
		return
	}
	content := r.PostFormValue("content")
	err := h.comments.Update(r.Context(), page.Me, page.Post.ID, n.Comment, content)
	switch {
	case err == nil:
		http.Redirect(w, r, page.Self()+"#comment-"+url.PathEscape(n.ID), http.StatusSeeOther)
	case errors.Is(err, comment.ErrNotOwner):
		s.renderError(w, http.StatusForbidden, s.msgs.T("error.forbidden"))
	case errors.Is(err, comment.ErrEmptyContent):
		http.Redirect(w, r, page.Self()+"?edit="+url.QueryEscape(n.ID)+"#comment-"+url.PathEscape(n.ID), http.StatusSeeOther)
	case toLogin(w, r, err):
	default:
		s.log.WithError(err).Warn("update comment")
		page.EditComment, page.CommentDraft = n.ID, content
		page.Error = s.describe(err, "comment.update_failed", "comment.update_failed")
		s.render(w, statusFor(err), "post", page)
	}
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	h := s.bind(r)
	page, ok := s.load(w, r, h)
	if !ok {
		return
	}
	n, ok := s.target(w, r, page)
	if !ok {
		return
	}
	err := h.comments.Delete(r.Context(), page.Me, page.Post.ID, n.Comment, r.PostFormValue("confirm") == "yes")
	switch {
	case err == nil:
		http.Redirect(w, r, page.Self(), http.StatusSeeOther)
	case errors.Is(err, comment.ErrNotConfirmed):
		http.Redirect(w, r, page.Self()+"?confirm=delete-comment&comment="+url.QueryEscape(n.ID)+"#comment-"+url.PathEscape(n.ID), http.StatusSeeOther)
	case errors.Is(err, comment.ErrNotOwner):
		s.renderError(w, http.StatusForbidden, s.msgs.T("error.forbidden"))
	case toLogin(w, r, err):
	default:
		s.log.WithError(err).Warn("delete comment")
		page.Blocking = s.describe(err, "comment.delete_failed", "comment.delete_failed")
		s.render(w, statusFor(err), "post", page)
	}
}
