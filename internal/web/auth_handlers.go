package web

import (
	"errors"
	"net/http"

	"social-web/internal/auth"
	"social-web/internal/session"
)

type authPage struct {
	Email    string
	Nickname string
	Fields   map[string]string
	Error    string
	Notice   string
}

// fieldMessages maps validation failures to the form's per-field text. Every
// rule on a field shares one message, as the forms only ever show one.
var fieldMessages = map[string]string{
	"Email":           "validation.email",
	"Password":        "validation.password_min",
	"Nickname":        "validation.nickname_min",
	"ConfirmPassword": "validation.password_mismatch",
}

func (s *Server) fieldErrors(err error) (map[string]string, bool) {
	var inv *auth.InvalidError
	if !errors.As(err, &inv) {
		return nil, false
	}
	out := make(map[string]string, len(inv.Fields))
	for _, f := range inv.Fields {
		if _, seen := out[f.Field]; !seen {
			out[f.Field] = s.msgs.T(fieldMessages[f.Field])
		}
	}
	return out, true
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Authenticated(r.Context()) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	page := authPage{}
	if r.URL.Query().Get("registered") != "" {
		page.Notice = s.msgs.T("login.registered")
	}
	s.render(w, http.StatusOK, "login", page)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	req := auth.LoginRequest{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	h := s.bind(r)
	err := h.auth.Login(r.Context(), req)
	if err == nil {
		if _, err := s.sessions.Renew(r.Context(), w, h.sess); err != nil {
			s.log.WithError(err).Error("renew session after login")
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	page := authPage{Email: req.Email}
	status := statusFor(err)
	if fields, ok := s.fieldErrors(err); ok {
		page.Fields, status = fields, http.StatusUnprocessableEntity
	} else if errors.Is(err, auth.ErrNoAccessToken) {
		page.Error, status = s.msgs.T("login.no_token"), http.StatusBadGateway
	} else {
		page.Error = s.describe(err, "login.failed", "error.unknown")
		s.log.WithError(err).Info("login failed")
	}
	s.render(w, status, "login", page)
}

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register", authPage{})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	req := auth.RegisterRequest{
		Email:           r.PostFormValue("email"),
		Nickname:        r.PostFormValue("nickname"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	err := s.bind(r).auth.Register(r.Context(), req)
	if err == nil {
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
		return
	}

	page := authPage{Email: req.Email, Nickname: req.Nickname}
	status := statusFor(err)
	if fields, ok := s.fieldErrors(err); ok {
		page.Fields, status = fields, http.StatusUnprocessableEntity
	} else {
		page.Error = s.describe(err, "register.failed", "error.unknown")
		s.log.WithError(err).Info("registration failed")
	}
	s.render(w, status, "register", page)
}

func (s *Server) forgotForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "forgot", authPage{})
}

// forgot validates the form and explains that the API offers no reset flow.
func (s *Server) forgot(w http.ResponseWriter, r *http.Request) {
	req := auth.ForgotPasswordRequest{Email: r.PostFormValue("email")}
	page := authPage{Email: req.Email}
	if fields, ok := s.fieldErrors(s.bind(r).auth.ForgotPassword(req)); ok {
		page.Fields = fields
		s.render(w, http.StatusUnprocessableEntity, "forgot", page)
		return
	}
	page.Error = s.msgs.T("forgot.unsupported")
	s.render(w, http.StatusOK, "forgot", page)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	h := s.bind(r)
	if err := h.auth.Logout(r.Context()); err != nil {
		s.log.WithError(err).Error("drop session")
	}
	if _, err := s.sessions.Renew(r.Context(), w, h.sess); err != nil {
		s.log.WithError(err).Error("renew session after logout")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
