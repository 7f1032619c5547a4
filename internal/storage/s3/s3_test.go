package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/media/posts/a%20b.png",
		ObjectURL("https://cdn.example.com/", "media", "posts/a b.png"))
}

func TestNewDefaultsPublicURL(t *testing.T) {
	st, err := New(Config{Endpoint: "http://minio:9000", AccessKey: "k", SecretKey: "s", Bucket: "media"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/media/posts/x.jpg", st.URL("posts/x.jpg"))

	st, err = New(Config{Endpoint: "minio:9000", UseSSL: true, Bucket: "media", PublicURL: "https://img.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/media/posts/x.jpg", st.URL("posts/x.jpg"))
}
