package weft

import (
	"errors"

	"github.com/weftui/weft/pkg/layout"
)

// NodeID identifies a node in a Tree. IDs are assigned monotonically and
// never reused within a session, so a stale id held after Remove can only
// fail with ErrNotFound, never alias a new node.
type NodeID int

// ErrNotFound reports an operation on an id absent from the tree.
var ErrNotFound = errors.New("node not found")

// ErrRemoveRoot reports an attempt to remove the root node.
var ErrRemoveRoot = errors.New("cannot remove the root node")

// ErrMissingPainter reports a custom node inserted without a Paint function.
var ErrMissingPainter = errors.New("custom node requires a Paint function")

// NodeKind selects how a node is rendered. The set is closed: the renderer
// switches exhaustively over it.
type NodeKind uint8

const (
	// KindBox is a container; it paints its background style and holds
	// children.
	KindBox NodeKind = iota
	// KindText paints its content lines clipped to its rectangle.
	KindText
	// KindCustom delegates painting to user code.
	KindCustom
)

// CustomPainter supplies the drawing capabilities of a KindCustom node.
type CustomPainter struct {
	// Measure, when set, reports the content size for a given maximum area.
	// The renderer clips painting to the measured size within the node's
	// rectangle.
	Measure func(maxWidth, maxHeight int) (width, height int)

	// Paint draws into buf, confined to rect.
	Paint func(buf *Buffer, rect Rect)
}

// Node describes a node to insert. The zero Layout means DefaultLayout.
type Node struct {
	Kind    NodeKind
	Content []string
	Style   Style
	Layout  LayoutStyle
	Hidden  bool
	Custom  *CustomPainter // required for KindCustom
}

// treeNode is the arena entry. It implements layout.Layoutable so the solver
// can walk the tree without an adapter allocation per frame.
type treeNode struct {
	tree     *Tree
	id       NodeID
	parent   NodeID
	children []NodeID

	kind    NodeKind
	content []string
	style   Style
	custom  *CustomPainter

	layoutStyle LayoutStyle
	visible     bool
	rect        Rect
	dirty       bool
}

func (n *treeNode) LayoutStyle() layout.Style { return n.layoutStyle }

func (n *treeNode) LayoutChildren() []layout.Layoutable {
	out := make([]layout.Layoutable, 0, len(n.children))
	for _, id := range n.children {
		child := n.tree.nodes[id]
		if child.visible {
			out = append(out, child)
		}
	}
	return out
}

func (n *treeNode) SetRect(r Rect)        { n.rect = r }
func (n *treeNode) LayoutRect() Rect      { return n.rect }
func (n *treeNode) LayoutDirty() bool     { return n.dirty }
func (n *treeNode) SetLayoutDirty(d bool) { n.dirty = d }

// Tree is an arena of render nodes. It is owned by a single session and is
// not safe for concurrent use.
type Tree struct {
	nodes  map[NodeID]*treeNode
	nextID NodeID
	root   NodeID

	// last solved size; a size change dirties the tree even without edits
	lastWidth  int
	lastHeight int
}

// NewTree creates a tree holding only a root box that fills the terminal and
// stacks children top to bottom.
func NewTree() *Tree {
	t := &Tree{
		nodes:  make(map[NodeID]*treeNode),
		nextID: 1,
	}
	root := &treeNode{
		tree:        t,
		id:          t.nextID,
		kind:        KindBox,
		layoutStyle: DefaultLayout(),
		visible:     true,
		dirty:       true,
	}
	t.nextID++
	t.root = root.id
	t.nodes[root.id] = root
	return t
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of live nodes, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Insert adds a child under parent, after any existing siblings, and returns
// its id. Later siblings paint over earlier ones where rectangles overlap.
func (t *Tree) Insert(parent NodeID, n Node) (NodeID, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return 0, ErrNotFound
	}
	if n.Kind == KindCustom && (n.Custom == nil || n.Custom.Paint == nil) {
		return 0, ErrMissingPainter
	}
	if n.Layout == (LayoutStyle{}) {
		n.Layout = DefaultLayout()
	}

	node := &treeNode{
		tree:        t,
		id:          t.nextID,
		parent:      parent,
		kind:        n.Kind,
		content:     n.Content,
		style:       n.Style,
		custom:      n.Custom,
		layoutStyle: n.Layout,
		visible:     !n.Hidden,
		dirty:       true,
	}
	t.nextID++
	t.nodes[node.id] = node
	p.children = append(p.children, node.id)
	t.markDirty(parent)
	return node.id, nil
}

// UpdateContent replaces a node's content lines. Content does not affect
// geometry, so no layout recalculation is triggered.
func (t *Tree) UpdateContent(id NodeID, lines []string) error {
	node, ok := t.nodes[id]
	if !ok {
		return ErrNotFound
	}
	node.content = lines
	return nil
}

// SetStyle replaces a node's visual style. Like content, style never affects
// geometry.
func (t *Tree) SetStyle(id NodeID, style Style) error {
	node, ok := t.nodes[id]
	if !ok {
		return ErrNotFound
	}
	node.style = style
	return nil
}

// SetLayout replaces a node's layout constraints and schedules a
// recalculation of the affected subtree.
func (t *Tree) SetLayout(id NodeID, style LayoutStyle) error {
	node, ok := t.nodes[id]
	if !ok {
		return ErrNotFound
	}
	node.layoutStyle = style
	t.markDirty(id)
	return nil
}

// SetVisible shows or hides a node and its subtree. Hidden nodes keep their
// place in the child order but take no space and are never painted.
func (t *Tree) SetVisible(id NodeID, visible bool) error {
	node, ok := t.nodes[id]
	if !ok {
		return ErrNotFound
	}
	if node.visible == visible {
		return nil
	}
	node.visible = visible
	if !visible {
		node.rect = Rect{}
	}
	t.markDirty(id)
	return nil
}

// Remove deletes a node and its entire subtree. All removed ids become
// stale; later operations on them return ErrNotFound.
func (t *Tree) Remove(id NodeID) error {
	node, ok := t.nodes[id]
	if !ok {
		return ErrNotFound
	}
	if id == t.root {
		return ErrRemoveRoot
	}

	parent := t.nodes[node.parent]
	for i, child := range parent.children {
		if child == id {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	t.removeSubtree(id)
	t.markDirty(node.parent)
	return nil
}

func (t *Tree) removeSubtree(id NodeID) {
	node := t.nodes[id]
	for _, child := range node.children {
		t.removeSubtree(child)
	}
	delete(t.nodes, id)
}

// NodeRect returns a node's rectangle from the last layout pass.
func (t *Tree) NodeRect(id NodeID) (Rect, error) {
	node, ok := t.nodes[id]
	if !ok {
		return Rect{}, ErrNotFound
	}
	return node.rect, nil
}

// Visible reports whether a node is currently visible.
func (t *Tree) Visible(id NodeID) (bool, error) {
	node, ok := t.nodes[id]
	if !ok {
		return false, ErrNotFound
	}
	return node.visible, nil
}

// Walk visits visible nodes in pre-order (parents before children, siblings
// in insertion order), which is also the painting order. Returning false
// stops the traversal.
func (t *Tree) Walk(fn func(id NodeID, rect Rect) bool) {
	t.walk(t.nodes[t.root], func(n *treeNode) bool {
		return fn(n.id, n.rect)
	})
}

func (t *Tree) walk(node *treeNode, fn func(*treeNode) bool) bool {
	if !node.visible {
		return true
	}
	if !fn(node) {
		return false
	}
	for _, id := range node.children {
		if !t.walk(t.nodes[id], fn) {
			return false
		}
	}
	return true
}

// NeedsLayout reports whether any geometry changed since the last Calculate.
func (t *Tree) NeedsLayout() bool {
	return t.nodes[t.root].dirty
}

// Calculate runs the layout solver over the tree for the given area.
func (t *Tree) Calculate(width, height int) {
	root := t.nodes[t.root]
	if width != t.lastWidth || height != t.lastHeight {
		root.dirty = true
		t.lastWidth, t.lastHeight = width, height
	}
	layout.Calculate(root, width, height)
}

// markDirty flags a node and its ancestors so the next layout pass descends
// into the changed subtree.
func (t *Tree) markDirty(id NodeID) {
	for {
		node, ok := t.nodes[id]
		if !ok || node.dirty {
			return
		}
		node.dirty = true
		if id == t.root {
			return
		}
		id = node.parent
	}
}
