package contentService

import "clouddrive/internal/model/content"

// tree - поддерево, загруженное одним запросом. Обход без рекурсии, глубина дерева стек не растит.
type tree struct {
	root     *content.Content
	nodes    map[int64]*content.Content
	children map[int64][]*content.Content
}

func newTree(rootID int64, nodes []*content.Content) *tree {
	t := &tree{
		nodes:    make(map[int64]*content.Content, len(nodes)),
		children: make(map[int64][]*content.Content),
	}
	for _, n := range nodes {
		t.nodes[n.ID] = n
	}
	t.root = t.nodes[rootID]
	for _, n := range nodes {
		if n.ID == rootID || n.ParentID == nil {
			continue
		}
		if _, ok := t.nodes[*n.ParentID]; ok {
			t.children[*n.ParentID] = append(t.children[*n.ParentID], n)
		}
	}
	return t
}

// collect обходит дерево сверху вниз. Корень берётся всегда, в ребёнка спускаемся только если descend(child).
func (t *tree) collect(descend func(n *content.Content) bool) []*content.Content {
	if t.root == nil {
		return nil
	}
	var out []*content.Content
	stack := []*content.Content{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		for _, child := range t.children[n.ID] {
			if descend(child) {
				stack = append(stack, child)
			}
		}
	}
	return out
}

// postOrder - все узлы, дети раньше родителей.
func (t *tree) postOrder() []*content.Content {
	pre := t.collect(func(*content.Content) bool { return true })
	for i, j := 0, len(pre)-1; i < j; i, j = i+1, j-1 {
		pre[i], pre[j] = pre[j], pre[i]
	}
	return pre
}
