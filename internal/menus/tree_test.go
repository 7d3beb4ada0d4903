package menus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menu(id, parent int64, order int32) Menu {
	return Menu{ID: id, ParentID: parent, OrderNum: order, IsActive: true, IsVisible: true}
}

func TestBuildTreeNestsChildrenUnderParents(t *testing.T) {
	forest := BuildTree([]Menu{
		menu(1, 0, 1),
		menu(2, 1, 1),
		menu(3, 1, 2),
		menu(4, 2, 1),
	})

	require.Len(t, forest, 1)
	assert.Equal(t, int64(1), forest[0].ID)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, int64(2), forest[0].Children[0].ID)
	assert.Equal(t, int64(3), forest[0].Children[1].ID)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, int64(4), forest[0].Children[0].Children[0].ID)
}

func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	forest := BuildTree([]Menu{
		menu(1, 0, 2),
		menu(5, 99, 1),
	})

	require.Len(t, forest, 2)
	// Siblings sort by order_num first.
	assert.Equal(t, int64(5), forest[0].ID)
	assert.Equal(t, int64(1), forest[1].ID)
}

func TestBuildTreeSortsByOrderNumThenID(t *testing.T) {
	forest := BuildTree([]Menu{
		menu(3, 0, 2),
		menu(1, 0, 2),
		menu(2, 0, 1),
	})

	require.Len(t, forest, 3)
	assert.Equal(t, int64(2), forest[0].ID)
	assert.Equal(t, int64(1), forest[1].ID)
	assert.Equal(t, int64(3), forest[2].ID)
}

func TestBuildTreeCycleMembersBecomeRoots(t *testing.T) {
	// 10 and 11 reference each other; neither reaches a root.
	forest := BuildTree([]Menu{
		menu(1, 0, 1),
		menu(10, 11, 1),
		menu(11, 10, 2),
	})

	require.Len(t, forest, 3)
	ids := []int64{forest[0].ID, forest[1].ID, forest[2].ID}
	assert.Contains(t, ids, int64(1))
	assert.Contains(t, ids, int64(10))
	assert.Contains(t, ids, int64(11))
	for _, root := range forest {
		if root.ID == 10 || root.ID == 11 {
			assert.Empty(t, root.Children)
		}
	}
}

func TestBuildTreeDeepChain(t *testing.T) {
	items := make([]Menu, 0, 32)
	for i := int64(1); i <= 32; i++ {
		items = append(items, menu(i, i-1, 1))
	}

	forest := BuildTree(items)
	require.Len(t, forest, 1)

	depth := 0
	node := forest[0]
	for {
		depth++
		if len(node.Children) == 0 {
			break
		}
		require.Len(t, node.Children, 1)
		node = node.Children[0]
	}
	assert.Equal(t, 32, depth)
}

func TestBuildTreeEmptyInput(t *testing.T) {
	forest := BuildTree(nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}
