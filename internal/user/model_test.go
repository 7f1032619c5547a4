package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDisplayNameAndInitial(t *testing.T) {
	cases := []struct {
		name    string
		u       User
		display string
		initial string
	}{
		{"nickname", User{ID: "1", Nickname: ptr("minji"), Email: "m@x.io"}, "minji", "M"},
		{"hangul nickname", User{ID: "1", Nickname: ptr("한결")}, "한결", "한"},
		{"blank nickname falls back to email", User{ID: "1", Nickname: ptr("  "), Email: "zed@x.io"}, "zed@x.io", "Z"},
		{"nothing", User{ID: "1"}, "anon", "U"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.display, tc.u.DisplayName("anon"))
			assert.Equal(t, tc.initial, tc.u.Initial())
		})
	}
}

func TestOwns(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.Owns("u1"))
	assert.False(t, (&User{}).Owns(""))
	assert.True(t, (&User{ID: "u1"}).Owns("u1"))
	assert.False(t, (&User{ID: "u1"}).Owns("u2"))
}

func TestDecodeProfileImage(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","nickname":null,"userProfileImage":{"imageUrl":"https://cdn/x.png"}}`), &u))
	assert.Nil(t, u.Nickname)
	assert.Equal(t, "https://cdn/x.png", u.AvatarURL())
}
