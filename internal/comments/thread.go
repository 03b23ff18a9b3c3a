package comments

import (
	"sort"

	"github.com/artist-atlas/backend/internal/models"
)

// ThreadNode is one comment plus its replies.
type ThreadNode struct {
	models.Comment
	Children []*ThreadNode `json:"children"`
}

// BuildForest turns a flat comment list into reply trees. Index every
// comment by id, then attach each comment to its parent's children. A
// comment whose parent id is absent from the input — never loaded, or
// hard-deleted upstream — becomes a root rather than floating
// unreachable. The same holds for corrupt parent chains: a comment whose
// parent is itself, or whose ancestry loops back onto it, is detached and
// promoted to a root, so N comments in always yields N nodes out. Roots
// come back newest first; children keep input order, so callers wanting a
// specific reply order pre-sort the input.
//
// The deleted flag passes through untouched; rendering placeholders for
// deleted nodes is the caller's concern.
func BuildForest(comments []models.Comment) []*ThreadNode {
	nodes := make(map[int]*ThreadNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &ThreadNode{
			Comment:  comments[i],
			Children: []*ThreadNode{},
		}
	}

	// Effective parent per comment: it must be present in the input and
	// must not be the comment itself.
	parent := make(map[int]int, len(comments))
	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil || *c.ParentID == c.ID {
			continue
		}
		if _, ok := nodes[*c.ParentID]; ok {
			parent[c.ID] = *c.ParentID
		}
	}

	// Walk every parent chain once and cut cycles: the node that closes a
	// ring loses its parent and anchors the rest of the ring as a root.
	const (
		visiting = 1
		settled  = 2
	)
	state := make(map[int]int, len(comments))
	for id := range nodes {
		if state[id] != 0 {
			continue
		}
		chain := make([]int, 0, 8)
		cur := id
		for {
			if state[cur] == settled {
				break
			}
			if state[cur] == visiting {
				delete(parent, cur)
				break
			}
			state[cur] = visiting
			chain = append(chain, cur)
			next, ok := parent[cur]
			if !ok {
				break
			}
			cur = next
		}
		for _, walked := range chain {
			state[walked] = settled
		}
	}

	roots := make([]*ThreadNode, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].ID]
		if parentID, ok := parent[comments[i].ID]; ok {
			nodes[parentID].Children = append(nodes[parentID].Children, node)
			continue
		}
		roots = append(roots, node)
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	return roots
}
