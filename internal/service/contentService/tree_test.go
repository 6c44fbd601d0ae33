package contentService

import (
	"testing"

	"clouddrive/internal/model/content"

	"github.com/stretchr/testify/assert"
)

func ptr(id int64) *int64 { return &id }

func TestTreePostOrder(t *testing.T) {
	nodes := []*content.Content{
		{ID: 1, ParentID: ptr(100), Name: "root"},
		{ID: 2, ParentID: ptr(1), Name: "a"},
		{ID: 3, ParentID: ptr(1), Name: "b"},
		{ID: 4, ParentID: ptr(2), Name: "a1"},
		{ID: 5, ParentID: ptr(4), Name: "a11"},
	}
	order := newTree(1, nodes).postOrder()

	pos := make(map[int64]int)
	for i, n := range order {
		pos[n.ID] = i
	}
	assert.Len(t, order, 5)
	for _, n := range nodes[1:] {
		assert.Less(t, pos[n.ID], pos[*n.ParentID], n.Name)
	}
	assert.Equal(t, int64(1), order[len(order)-1].ID)
}

func TestTreeCollectPrunes(t *testing.T) {
	nodes := []*content.Content{
		{ID: 1, Name: "root"},
		{ID: 2, ParentID: ptr(1), Name: "live"},
		{ID: 3, ParentID: ptr(1), Name: "gone", IsDeleted: true},
		{ID: 4, ParentID: ptr(3), Name: "under-gone"},
	}
	got := newTree(1, nodes).collect(func(n *content.Content) bool { return !n.IsDeleted })

	var ids []int64
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []int64{1, 2}, ids)
	assert.Nil(t, newTree(42, nodes).collect(func(*content.Content) bool { return true }))
}

func TestDeepTree(t *testing.T) {
	const depth = 100000
	nodes := make([]*content.Content, 0, depth)
	nodes = append(nodes, &content.Content{ID: 1})
	for i := int64(2); i <= depth; i++ {
		nodes = append(nodes, &content.Content{ID: i, ParentID: ptr(i - 1)})
	}
	order := newTree(1, nodes).postOrder()
	assert.Len(t, order, depth)
	assert.Equal(t, int64(depth), order[0].ID)
}
