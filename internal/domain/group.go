package domain

import (
	"slices"
	"strings"
)

// Group is a node of the destination group tree. The root group has no name
// and no parent.
type Group struct {
	Name    string
	Parent  *Group
	Groups  []*Group
	Entries []*Entry
}

// Entry is a credential stored in a group
type Entry struct {
	Title    string
	Username string
	Password string
	URL      string
	Notes    string
	Custom   map[string]string
	Group    *Group
}

// NewRootGroup creates an empty root group
func NewRootGroup() *Group {
	return &Group{}
}

// IsRoot reports whether the group has no parent
func (g *Group) IsRoot() bool {
	return g.Parent == nil
}

// Child returns the direct child named name, or nil. The search is not
// recursive and the match is exact.
func (g *Group) Child(name string) *Group {
	for _, child := range g.Groups {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// EnsureChild returns the direct child named name, creating it if missing
func (g *Group) EnsureChild(name string) *Group {
	if child := g.Child(name); child != nil {
		return child
	}
	child := &Group{Name: name, Parent: g}
	g.Groups = append(g.Groups, child)
	return child
}

// EnsurePath resolves a sequence of group names starting from g, creating
// the missing groups along the way.
func (g *Group) EnsurePath(names []string) *Group {
	current := g
	for _, name := range names {
		current = current.EnsureChild(name)
	}
	return current
}

// AddEntry creates an entry in this group
func (g *Group) AddEntry(title, username, password string) *Entry {
	e := &Entry{
		Title:    title,
		Username: username,
		Password: password,
		Custom:   make(map[string]string),
		Group:    g,
	}
	g.Entries = append(g.Entries, e)
	return e
}

// Path returns the slash-separated path from the root ("/" for the root)
func (g *Group) Path() string {
	if g.IsRoot() {
		return "/"
	}
	var names []string
	for current := g; !current.IsRoot(); current = current.Parent {
		names = append(names, current.Name)
	}
	slices.Reverse(names)
	return strings.Join(names, IdentifierSeparator)
}

// Depth returns the depth of this group in the tree
func (g *Group) Depth() int {
	depth := 0
	for current := g.Parent; current != nil; current = current.Parent {
		depth++
	}
	return depth
}

// Walk visits g and every descendant group depth-first, parents first
func (g *Group) Walk(fn func(*Group)) {
	fn(g)
	for _, child := range g.Groups {
		child.Walk(fn)
	}
}

// Flatten returns g and all its descendants in Walk order
func (g *Group) Flatten() []*Group {
	var result []*Group
	g.Walk(func(n *Group) {
		result = append(result, n)
	})
	return result
}

// CountGroups returns the number of descendant groups, excluding g itself
func (g *Group) CountGroups() int {
	return len(g.Flatten()) - 1
}

// CountEntries returns the number of entries in g and all its descendants
func (g *Group) CountEntries() int {
	count := 0
	g.Walk(func(n *Group) {
		count += len(n.Entries)
	})
	return count
}

// FindEntries returns every entry below g with the given title
func (g *Group) FindEntries(title string) []*Entry {
	var result []*Entry
	g.Walk(func(n *Group) {
		for _, e := range n.Entries {
			if e.Title == title {
				result = append(result, e)
			}
		}
	})
	return result
}

// SetCustom stores an additional string attribute on the entry
func (e *Entry) SetCustom(key, value string) {
	if e.Custom == nil {
		e.Custom = make(map[string]string)
	}
	e.Custom[key] = value
}

// SortedCustomKeys returns the custom attribute names in lexical order
func (e *Entry) SortedCustomKeys() []string {
	keys := make([]string, 0, len(e.Custom))
	for k := range e.Custom {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
