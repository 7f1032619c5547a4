package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCatalogFallbacks(t *testing.T) {
	ko := NewCatalog("fr")
	assert.Equal(t, "ko", ko.Locale())
	assert.Equal(t, "댓글 3개", ko.T("comment.heading", 3))
	assert.Equal(t, "no.such.key", ko.T("no.such.key"))

	en := NewCatalog("en")
	assert.Equal(t, "3 comments", en.T("dashboard.comments", 3))
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for key := range catalogs["ko"] {
		_, ok := catalogs["en"][key]
		assert.True(t, ok, "en is missing %s", key)
	}
}

func TestCatalogDates(t *testing.T) {
	at := time.Date(2025, 2, 28, 20, 0, 0, 0, time.UTC)
	ko := NewCatalog("ko")
	assert.Equal(t, "2025. 3. 1.", ko.Date(at))
	assert.Equal(t, "2025년 3월 1일", ko.LongDate(at))
	assert.Equal(t, "February 28, 2025", NewCatalog("en").LongDate(at))
	assert.Empty(t, ko.Date(time.Time{}))
}

func TestImageSrc(t *testing.T) {
	assert.IsType(t, "", imageSrc("https://img.test/a.png"))
	assert.IsType(t, "", imageSrc("data:text/html;base64,PHNjcmlwdD4="))
	assert.NotEqual(t, "", imageSrc("data:image/png;base64,AAAA"))
	_, isString := imageSrc("data:image/png;base64,AAAA").(string)
	assert.False(t, isString)
}
