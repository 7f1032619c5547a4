package comment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func c(id string, replies ...Comment) Comment {
	return Comment{ID: id, Content: "text " + id, Replies: replies}
}

func withParent(cm Comment, parent string) Comment {
	cm.ParentID = strptr(parent)
	return cm
}

func order(f *Forest, maxDepth int) ([]string, []int) {
	var ids []string
	var depths []int
	f.Walk(maxDepth, func(n *Node, depth int) {
		ids = append(ids, n.ID)
		depths = append(depths, depth)
	})
	return ids, depths
}

func TestWalkDepthFirstPreservesOrder(t *testing.T) {
	f := Normalize([]Comment{
		c("a", c("a1", c("a1x")), c("a2")),
		c("b"),
		c("c", c("c1")),
	})

	ids, depths := order(f, 0)
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b", "c", "c1"}, ids)
	assert.Equal(t, []int{0, 1, 2, 1, 0, 0, 1}, depths)
	assert.Equal(t, 7, f.Count())
	assert.Equal(t, 3, f.TopLevel())
	assert.Empty(t, f.Orphans)
}

func TestWalkClampsDepth(t *testing.T) {
	f := Normalize([]Comment{c("1", c("2", c("3", c("4"))))})
	ids, depths := order(f, 2)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
	assert.Equal(t, []int{0, 1, 2, 2}, depths)
}

func TestNormalizeNestsByParentID(t *testing.T) {
	// the API repeated the reply at top level as well
	f := Normalize([]Comment{
		c("root", withParent(c("r1"), "root")),
		withParent(c("r1"), "root"),
		withParent(c("late"), "root"),
		c("other"),
	})

	ids, depths := order(f, 0)
	assert.Equal(t, []string{"root", "r1", "late", "other"}, ids)
	assert.Equal(t, []int{0, 1, 1, 0}, depths)
	for _, n := range f.Roots {
		assert.Nil(t, n.ParentID, "a comment with parentId never sits at top level")
	}

	late, ok := f.Find("late")
	require.True(t, ok)
	assert.Equal(t, "root", late.Parent.ID)
}

func TestNormalizeTopLevelCopyDefersToNested(t *testing.T) {
	f := Normalize([]Comment{
		c("x"),
		c("p", c("x")),
	})
	ids, depths := order(f, 0)
	assert.Equal(t, []string{"p", "x"}, ids)
	assert.Equal(t, []int{0, 1}, depths)
	assert.Len(t, f.Roots, 1)
}

func TestNormalizeDropsOrphansAndCycles(t *testing.T) {
	f := Normalize([]Comment{
		c("ok"),
		withParent(c("lost"), "deleted-parent"),
		withParent(c("loop-a"), "loop-b"),
		withParent(c("loop-b"), "loop-a"),
		withParent(c("self"), "self"),
	})

	ids, _ := order(f, 0)
	assert.Equal(t, []string{"ok"}, ids)
	assert.Equal(t, 1, f.Count())

	var orphans []string
	for _, o := range f.Orphans {
		orphans = append(orphans, o.ID)
	}
	assert.Equal(t, []string{"lost", "loop-a", "loop-b", "self"}, orphans)
	_, ok := f.Find("lost")
	assert.False(t, ok)
}

func TestNormalizeDuplicateInReplyListKeepsFirst(t *testing.T) {
	first := c("d")
	first.Content = "first"
	second := c("d")
	second.Content = "second"

	f := Normalize([]Comment{c("p", first, second)})
	n, ok := f.Find("d")
	require.True(t, ok)
	assert.Equal(t, "first", n.Content)
	assert.Len(t, f.Roots[0].Children, 1)
}

func TestNormalizeFromJSON(t *testing.T) {
	raw := `[
	  {"id":"c1","content":"top","createdAt":"2025-02-01T10:00:00.000Z","user":{"id":"u1","nickname":"kim"},
	   "replies":[{"id":"c2","content":"reply","createdAt":"2025-02-01T10:05:00.000Z","user":{"id":"u2","nickname":null},"parentId":"c1","replies":[]}]}
	]`
	var roots []Comment
	require.NoError(t, json.Unmarshal([]byte(raw), &roots))

	f := Normalize(roots)
	ids, depths := order(f, 0)
	assert.Equal(t, []string{"c1", "c2"}, ids)
	assert.Equal(t, []int{0, 1}, depths)
	n, _ := f.Find("c2")
	assert.Equal(t, "u2", n.User.ID)
	assert.Nil(t, n.Replies)
}

func TestNilForest(t *testing.T) {
	var f *Forest
	assert.Zero(t, f.Count())
	assert.Zero(t, f.TopLevel())
	_, ok := f.Find("x")
	assert.False(t, ok)
	f.Walk(0, func(*Node, int) { t.Fatal("visited") })
}
