package post

import (
	"sort"
	"strings"
	"time"

	"social-web/internal/comment"
	"social-web/internal/user"
)

type Image struct {
	ID        string `json:"id"`
	ImageURL  string `json:"imageUrl"`
	SortOrder int    `json:"sortOrder"`
}

type Post struct {
	ID         string            `json:"id"`
	Caption    *string           `json:"caption"`
	CreatedAt  time.Time         `json:"createdAt"`
	User       user.User         `json:"user"`
	PostImages []Image           `json:"postImages"`
	Comments   []comment.Comment `json:"comments"`
}

func (p Post) CaptionText() string {
	if p.Caption == nil {
		return ""
	}
	return *p.Caption
}

// SortedImages returns the images ordered by sortOrder, stable on ties.
func (p Post) SortedImages() []Image {
	out := append([]Image(nil), p.PostImages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// CoverURL is the first image in display order, or "".
func (p Post) CoverURL() string {
	imgs := p.SortedImages()
	if len(imgs) == 0 {
		return ""
	}
	return imgs[0].ImageURL
}

// Thread normalizes the post's comments.
func (p Post) Thread() *comment.Forest {
	return comment.Normalize(p.Comments)
}

type ImageInput struct {
	ImageURL  string `json:"imageUrl"`
	SortOrder int    `json:"sortOrder"`
}

type writeReq struct {
	Caption string       `json:"caption,omitempty"`
	Images  []ImageInput `json:"images,omitempty"`
}

func newWriteReq(caption string, urls []string) writeReq {
	req := writeReq{Caption: strings.TrimSpace(caption)}
	for i, u := range urls {
		req.Images = append(req.Images, ImageInput{ImageURL: u, SortOrder: i})
	}
	return req
}

// updateReq always carries images so the server replaces the set, even
// when it is empty.
type updateReq struct {
	Caption string       `json:"caption,omitempty"`
	Images  []ImageInput `json:"images"`
}

func newUpdateReq(caption string, urls []string) updateReq {
	w := newWriteReq(caption, urls)
	req := updateReq{Caption: w.Caption, Images: w.Images}
	if req.Images == nil {
		req.Images = []ImageInput{}
	}
	return req
}
