package comments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artist-atlas/backend/internal/models"
)

func intPtr(v int) *int { return &v }

func comment(id int, parentID *int, createdAt time.Time) models.Comment {
	return models.Comment{
		ID:        id,
		Text:      "comment",
		AuthorID:  1,
		ArtistID:  1,
		ParentID:  parentID,
		CreatedAt: createdAt,
	}
}

func countNodes(nodes []*ThreadNode) int {
	total := 0
	for _, node := range nodes {
		total += 1 + countNodes(node.Children)
	}
	return total
}

func TestBuildForestNesting(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	input := []models.Comment{
		comment(1, nil, base),
		comment(2, intPtr(1), base.Add(time.Minute)),
		comment(3, intPtr(2), base.Add(2*time.Minute)),
		comment(4, intPtr(1), base.Add(3*time.Minute)),
		comment(5, nil, base.Add(4*time.Minute)),
	}

	forest := BuildForest(input)

	require.Len(t, forest, 2)
	assert.Equal(t, len(input), countNodes(forest))

	// Roots come back newest first.
	assert.Equal(t, 5, forest[0].ID)
	assert.Equal(t, 1, forest[1].ID)

	// Children keep the order they were appended in.
	require.Len(t, forest[1].Children, 2)
	assert.Equal(t, 2, forest[1].Children[0].ID)
	assert.Equal(t, 4, forest[1].Children[1].ID)

	require.Len(t, forest[1].Children[0].Children, 1)
	assert.Equal(t, 3, forest[1].Children[0].Children[0].ID)
}

func TestBuildForestOrphanBecomesRoot(t *testing.T) {
	base := time.Now().UTC()
	// Comment 2 replies to a comment that is not in the input — its parent
	// was never loaded or was hard-deleted upstream.
	input := []models.Comment{
		comment(1, nil, base),
		comment(2, intPtr(99), base.Add(time.Minute)),
	}

	forest := BuildForest(input)

	require.Len(t, forest, 2)
	assert.Equal(t, len(input), countNodes(forest))
}

func TestBuildForestEmptyInput(t *testing.T) {
	assert.Empty(t, BuildForest(nil))
	assert.Empty(t, BuildForest([]models.Comment{}))
}

func TestBuildForestNoNodeIsItsOwnAncestor(t *testing.T) {
	base := time.Now().UTC()
	input := []models.Comment{
		comment(1, nil, base),
		comment(2, intPtr(1), base.Add(time.Minute)),
		comment(3, intPtr(2), base.Add(2*time.Minute)),
	}

	forest := BuildForest(input)

	var walk func(node *ThreadNode, ancestors map[int]bool)
	walk = func(node *ThreadNode, ancestors map[int]bool) {
		require.False(t, ancestors[node.ID], "comment %d is its own ancestor", node.ID)
		ancestors[node.ID] = true
		for _, child := range node.Children {
			walk(child, ancestors)
		}
		delete(ancestors, node.ID)
	}
	for _, root := range forest {
		walk(root, map[int]bool{})
	}
}

func TestBuildForestSelfParentBecomesRoot(t *testing.T) {
	base := time.Now().UTC()
	input := []models.Comment{
		comment(1, intPtr(1), base),
		comment(2, intPtr(1), base.Add(time.Minute)),
	}

	forest := BuildForest(input)

	assert.Equal(t, len(input), countNodes(forest))
	require.Len(t, forest, 1)
	assert.Equal(t, 1, forest[0].ID)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, 2, forest[0].Children[0].ID)
}

func TestBuildForestBreaksParentCycles(t *testing.T) {
	base := time.Now().UTC()
	// 1 and 2 point at each other; 3 hangs off the ring.
	input := []models.Comment{
		comment(1, intPtr(2), base),
		comment(2, intPtr(1), base.Add(time.Minute)),
		comment(3, intPtr(2), base.Add(2*time.Minute)),
	}

	forest := BuildForest(input)

	// Nothing is lost: one ring member is promoted to root and the rest of
	// the ring hangs off it.
	assert.Equal(t, len(input), countNodes(forest))
	require.Len(t, forest, 1)
	assert.Contains(t, []int{1, 2}, forest[0].ID)

	var walk func(node *ThreadNode, ancestors map[int]bool)
	walk = func(node *ThreadNode, ancestors map[int]bool) {
		require.False(t, ancestors[node.ID], "comment %d is its own ancestor", node.ID)
		ancestors[node.ID] = true
		for _, child := range node.Children {
			walk(child, ancestors)
		}
		delete(ancestors, node.ID)
	}
	for _, root := range forest {
		walk(root, map[int]bool{})
	}
}

func TestBuildForestKeepsDeletedNodes(t *testing.T) {
	base := time.Now().UTC()
	deleted := comment(1, nil, base)
	deleted.Deleted = true
	input := []models.Comment{
		deleted,
		comment(2, intPtr(1), base.Add(time.Minute)),
	}

	forest := BuildForest(input)

	// The deleted parent still anchors its reply; the flag passes through.
	require.Len(t, forest, 1)
	assert.True(t, forest[0].Deleted)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, 2, forest[0].Children[0].ID)
	assert.False(t, forest[0].Children[0].Deleted)
}
