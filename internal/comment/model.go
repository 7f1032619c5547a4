package comment

import (
	"time"

	"social-web/internal/user"
)

// Comment is one node as the API returns it: replies are nested in place.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	User      user.User `json:"user"`
	ParentID  *string   `json:"parentId,omitempty"`
	Replies   []Comment `json:"replies"`
}

func (c Comment) ParentRef() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

type createReq struct {
	Content  string `json:"content"`
	ParentID string `json:"parentId,omitempty"`
}

type updateReq struct {
	Content string `json:"content"`
}
