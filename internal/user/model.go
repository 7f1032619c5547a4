package user

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type ProfileImage struct {
	ImageURL string `json:"imageUrl"`
}

type User struct {
	ID               string        `json:"id"`
	Email            string        `json:"email,omitempty"`
	Nickname         *string       `json:"nickname,omitempty"`
	UserProfileImage *ProfileImage `json:"userProfileImage,omitempty"`
}

func (u User) nickname() string {
	if u.Nickname == nil {
		return ""
	}
	return strings.TrimSpace(*u.Nickname)
}

// DisplayName is the nickname, then the email, then anonymous.
func (u User) DisplayName(anonymous string) string {
	if n := u.nickname(); n != "" {
		return n
	}
	if u.Email != "" {
		return u.Email
	}
	return anonymous
}

// Initial is the upper-cased first rune of the nickname or email, else "U".
func (u User) Initial() string {
	src := u.nickname()
	if src == "" {
		src = strings.TrimSpace(u.Email)
	}
	r, _ := utf8.DecodeRuneInString(src)
	if r == utf8.RuneError {
		return "U"
	}
	return string(unicode.ToUpper(r))
}

func (u User) AvatarURL() string {
	if u.UserProfileImage == nil {
		return ""
	}
	return u.UserProfileImage.ImageURL
}

// Owns reports whether u is the owner identified by ownerID. An empty id never
// owns anything.
func (u *User) Owns(ownerID string) bool {
	return u != nil && u.ID != "" && u.ID == ownerID
}
