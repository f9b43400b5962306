// Package catalog normalizes category lists into a rooted forest and answers
// hierarchy queries against it.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rishi-store/storefront/internal/domain"
)

// pathSeparator joins category names in display paths.
const pathSeparator = " › "

// NormalizeID coerces an identifier that may arrive as a string, integer, or
// float into the canonical string form, or "" for null-ish values. Upstream
// sources emit numeric and string identifiers interchangeably.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return strings.TrimSpace(fmt.Sprint(id))
	}
}

// Tree is the built hierarchy plus the flat index used by queries.
type Tree struct {
	Roots []*domain.Category
	index map[string]*domain.Category
}

// Build normalizes a category list into a rooted forest. Input that already
// carries nested children anywhere is trusted and returned as-is; flat input
// is assembled by parent references, with dangling references degrading to
// root placement. Flat assembly sorts siblings alphabetically, recursively.
func Build(categories []*domain.Category) *Tree {
	if hasNestedChildren(categories) {
		tree := &Tree{Roots: categories, index: map[string]*domain.Category{}}
		for _, root := range categories {
			tree.indexSubtree(root)
		}
		return tree
	}
	return buildFromFlat(categories)
}

// hasNestedChildren is a single boolean scan deciding flat-versus-nested.
func hasNestedChildren(categories []*domain.Category) bool {
	for _, category := range categories {
		if category != nil && len(category.Children) > 0 {
			return true
		}
	}
	return false
}

func buildFromFlat(categories []*domain.Category) *Tree {
	tree := &Tree{index: make(map[string]*domain.Category, len(categories))}

	// Pass one: index every category by normalized id with a fresh children
	// list so rebuilding never appends onto stale state.
	nodes := make([]*domain.Category, 0, len(categories))
	for _, category := range categories {
		if category == nil {
			continue
		}
		node := *category
		node.ID = NormalizeID(node.ID)
		node.ParentID = NormalizeID(node.ParentID)
		node.Children = nil
		node.Parent = nil
		copied := &node
		if copied.ID != "" {
			tree.index[copied.ID] = copied
		}
		nodes = append(nodes, copied)
	}

	// Pass two: attach to the parent when it resolves; otherwise the node is
	// a root. A parent id pointing at no known category is not an error.
	for _, node := range nodes {
		if node.ParentID != "" {
			if parent, ok := tree.index[node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				node.Parent = parent
				continue
			}
		}
		tree.Roots = append(tree.Roots, node)
	}

	sortRecursively(tree.Roots)
	return tree
}

func (t *Tree) indexSubtree(category *domain.Category) {
	if category == nil {
		return
	}
	if id := NormalizeID(category.ID); id != "" {
		t.index[id] = category
	}
	for _, child := range category.Children {
		t.indexSubtree(child)
	}
}

var nameCollator = struct {
	mu sync.Mutex
	c  *collate.Collator
}{c: collate.New(language.English, collate.IgnoreCase)}

// sortRecursively orders siblings alphabetically by name at every level.
func sortRecursively(categories []*domain.Category) {
	nameCollator.mu.Lock()
	defer nameCollator.mu.Unlock()
	sortLocked(categories)
}

func sortLocked(categories []*domain.Category) {
	c := nameCollator.c
	for i := 1; i < len(categories); i++ {
		for j := i; j > 0 && c.CompareString(categories[j].Name, categories[j-1].Name) < 0; j-- {
			categories[j], categories[j-1] = categories[j-1], categories[j]
		}
	}
	for _, category := range categories {
		sortLocked(category.Children)
	}
}

// Find returns the category with the given id, nil when unknown.
func (t *Tree) Find(id string) *domain.Category {
	if t == nil {
		return nil
	}
	return t.index[NormalizeID(id)]
}

// Path walks parent references upward from the target and returns the
// ordered root-to-target chain; unknown ids return nil. A cycle in parent
// references is not detected; the data source must prevent one.
func (t *Tree) Path(id string) []*domain.Category {
	target := t.Find(id)
	if target == nil {
		return nil
	}
	path := []*domain.Category{target}
	current := target
	for current.ParentID != "" {
		parent := t.index[NormalizeID(current.ParentID)]
		if parent == nil {
			break
		}
		path = append([]*domain.Category{parent}, path...)
		current = parent
	}
	return path
}

// FullPath renders the breadcrumb as a display string.
func (t *Tree) FullPath(id string) string {
	path := t.Path(id)
	names := make([]string, 0, len(path))
	for _, category := range path {
		names = append(names, category.Name)
	}
	return strings.Join(names, pathSeparator)
}

// ByLevel returns all categories at the given depth level.
func (t *Tree) ByLevel(level int) []*domain.Category {
	var out []*domain.Category
	for _, category := range t.index {
		if category.Level == level {
			out = append(out, category)
		}
	}
	sortRecursivelyCopy(out)
	return out
}

// Children returns the direct children of the given category.
func (t *Tree) Children(id string) []*domain.Category {
	category := t.Find(id)
	if category == nil {
		return nil
	}
	return category.Children
}

// HasChildren reports whether the category has at least one child.
func (t *Tree) HasChildren(id string) bool {
	return len(t.Children(id)) > 0
}

// Descendants returns every category below the given one, depth first.
func (t *Tree) Descendants(id string) []*domain.Category {
	category := t.Find(id)
	if category == nil {
		return nil
	}
	var out []*domain.Category
	var walk func(*domain.Category)
	walk = func(node *domain.Category) {
		for _, child := range node.Children {
			out = append(out, child)
			walk(child)
		}
	}
	walk(category)
	return out
}

// Flatten returns the forest as a flat list in depth-first order.
func (t *Tree) Flatten() []*domain.Category {
	var out []*domain.Category
	var walk func([]*domain.Category)
	walk = func(categories []*domain.Category) {
		for _, category := range categories {
			out = append(out, category)
			walk(category.Children)
		}
	}
	walk(t.Roots)
	return out
}

func sortRecursivelyCopy(categories []*domain.Category) {
	nameCollator.mu.Lock()
	defer nameCollator.mu.Unlock()
	c := nameCollator.c
	for i := 1; i < len(categories); i++ {
		for j := i; j > 0 && c.CompareString(categories[j].Name, categories[j-1].Name) < 0; j-- {
			categories[j], categories[j-1] = categories[j-1], categories[j]
		}
	}
}

// Builder memoizes the built tree by identity of the source slice, so a
// consumer re-reading unchanged data does not pay for a rebuild.
type Builder struct {
	mu   sync.Mutex
	last []*domain.Category
	tree *Tree
}

// Build returns the memoized tree when the same slice is handed back,
// rebuilding otherwise.
func (b *Builder) Build(categories []*domain.Category) *Tree {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tree != nil && sameSlice(b.last, categories) {
		return b.tree
	}
	b.tree = Build(categories)
	b.last = categories
	return b.tree
}

// sameSlice reports identity, not equality: same backing array and length.
func sameSlice(a, b []*domain.Category) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
