package menus

import (
	"cmp"
	"slices"
)

// BuildTree converts a flat, parent-linked menu collection into a forest.
//
// Two passes: the first indexes nodes by id, the second links each node to its
// parent when the parent is part of the input set. Nodes whose declared parent
// is absent become roots, so bad references hide nothing. Nodes trapped in a
// parent cycle also become roots instead of looping forever. Siblings are
// ordered by order_num ascending, ties broken by id.
func BuildTree(items []Menu) []*Node {
	index := make(map[int64]*Node, len(items))
	for _, m := range items {
		index[m.ID] = &Node{Menu: m, Children: []*Node{}}
	}

	roots := []*Node{}
	for _, m := range items {
		node := index[m.ID]
		if m.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[m.ParentID]
		if !ok || !reachesRoot(index, m.ID) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortForest(roots)
	return roots
}

// reachesRoot walks the parent chain of the node with the given id. It returns
// false only when the chain revisits a node, meaning the node is part of a
// cycle. A chain that leaves the input set terminates at an orphan, which is
// itself promoted to a root, so the walk counts as grounded.
func reachesRoot(index map[int64]*Node, id int64) bool {
	seen := make(map[int64]struct{})
	cur := id
	for {
		if _, dup := seen[cur]; dup {
			return false
		}
		seen[cur] = struct{}{}
		node, ok := index[cur]
		if !ok {
			return true
		}
		if node.ParentID == 0 {
			return true
		}
		cur = node.ParentID
	}
}

// sortForest orders every sibling list without recursion so arbitrarily deep
// trees cannot exhaust the stack.
func sortForest(roots []*Node) {
	stack := [][]*Node{roots}
	for len(stack) > 0 {
		siblings := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		slices.SortFunc(siblings, func(a, b *Node) int {
			if c := cmp.Compare(a.OrderNum, b.OrderNum); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		for _, n := range siblings {
			if len(n.Children) > 0 {
				stack = append(stack, n.Children)
			}
		}
	}
}
