package web

import (
	"errors"
	"net/http"

	"social-web/internal/apiclient"
	"social-web/internal/images"
	"social-web/internal/post"
	"social-web/internal/session"
	"social-web/internal/user"
)

type dashboardPage struct {
	Me    *user.User
	Posts []post.Post
	Error string
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	h := s.bind(r)
	me, err := h.auth.Me(r.Context())
	var posts []post.Post
	if err == nil {
		posts, err = h.posts.List(r.Context())
	}
	if err == nil {
		s.render(w, http.StatusOK, "dashboard", dashboardPage{Me: me, Posts: posts})
		return
	}

	if apiclient.IsUnauthorized(err) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.log.WithError(err).Warn("load dashboard")
	page := dashboardPage{Me: me, Error: s.msgs.T("dashboard.load_failed")}
	if apiclient.StatusOf(err) == http.StatusInternalServerError {
		page.Error = s.describe(err, "dashboard.server_error", "dashboard.load_failed")
	}
	s.render(w, statusFor(err), "dashboard", page)
}

type createPage struct {
	Caption string
	Error   string
}

func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "create", createPage{})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	// room for the per-file limit on a handful of images plus the caption
	r.Body = http.MaxBytesReader(w, r.Body, 10*s.maxImage+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.render(w, http.StatusRequestEntityTooLarge, "create", createPage{Error: s.msgs.T("create.image_too_large")})
		return
	}
	caption := r.FormValue("caption")
	page := createPage{Caption: caption}

	var uploads []images.Upload
	if r.MultipartForm != nil {
		var err error
		uploads, err = images.FromForm(r.MultipartForm.File["images"], s.maxImage)
		switch {
		case errors.Is(err, images.ErrTooLarge):
			page.Error = s.msgs.T("create.image_too_large")
		case err != nil:
			page.Error = s.msgs.T("create.image_invalid")
		}
		if err != nil {
			s.render(w, http.StatusUnprocessableEntity, "create", page)
			return
		}
	}

	h := s.bind(r)
	_, err := h.posts.Create(r.Context(), actorOf(r, h.sess), caption, uploads)
	if err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if toLogin(w, r, err) {
		return
	}
	s.log.WithError(err).Warn("create post")
	page.Error = s.describe(err, "create.failed", "error.unknown")
	s.render(w, statusFor(err), "create", page)
}

// actorOf identifies the user for activity events from the token's subject,
// without another API round trip.
func actorOf(r *http.Request, sess *session.Session) *user.User {
	tok, err := sess.AccessToken(r.Context())
	if err != nil || tok == "" {
		return nil
	}
	return &user.User{ID: session.Subject(tok)}
}
