package shared

import (
	"strings"

	"github.com/google/uuid"
)

// TreePath is a materialized path of node IDs joined by "/", root first.
type TreePath string

const treeSeparator = "/"

// RootPath is the path of a node without parent.
func RootPath(id uuid.UUID) TreePath {
	return TreePath(id.String())
}

// Child returns the path of a direct child of p.
func (p TreePath) Child(id uuid.UUID) TreePath {
	return TreePath(string(p) + treeSeparator + id.String())
}

// Depth is 0 for roots.
func (p TreePath) Depth() int {
	if p == "" {
		return 0
	}
	return strings.Count(string(p), treeSeparator)
}

// AncestorIDs returns the IDs above the node, root first.
func (p TreePath) AncestorIDs() []uuid.UUID {
	parts := strings.Split(string(p), treeSeparator)
	if len(parts) <= 1 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(parts)-1)
	for _, part := range parts[:len(parts)-1] {
		if id, err := uuid.Parse(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Contains reports whether other is p itself or one of its descendants (child_of).
func (p TreePath) Contains(other TreePath) bool {
	if p == "" || other == "" {
		return false
	}
	return other == p || strings.HasPrefix(string(other), string(p)+treeSeparator)
}

// DescendantPattern is the SQL LIKE pattern matching every descendant of p.
func (p TreePath) DescendantPattern() string {
	return string(p) + treeSeparator + "%"
}

func (p TreePath) String() string { return string(p) }

// UniqueIDs drops nil and repeated IDs, keeping first appearance order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
