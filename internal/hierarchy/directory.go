package hierarchy

import "github.com/workforce-api/internal/domain"

// DirectoryOptions narrows what a directory view shows
type DirectoryOptions struct {
	// SameUnit hides the manager and children that work in a different unit
	SameUnit bool
	// AreaID keeps only children assigned to that area
	AreaID *int64
}

// DirectoryEntry is one person in a directory view
type DirectoryEntry struct {
	Employee    domain.Employee `json:"employee"`
	ReportCount int             `json:"report_count"`
}

// DirectoryNode is a node of the org tree with its ordered direct reports
// and a back-link to its manager
type DirectoryNode struct {
	Node     DirectoryEntry   `json:"node"`
	Manager  *DirectoryEntry  `json:"manager,omitempty"`
	Children []DirectoryEntry `json:"children"`
}

// Directory builds the view centered on id
func (r *Resolver) Directory(id string, opts DirectoryOptions) (DirectoryNode, bool) {
	center, ok := r.snapshot.Get(id)
	if !ok {
		return DirectoryNode{}, false
	}

	node := DirectoryNode{
		Node:     r.entry(center),
		Children: []DirectoryEntry{},
	}

	if m, ok := r.snapshot.manager(center); ok && (!opts.SameUnit || m.Unit == center.Unit) {
		entry := r.entry(m)
		node.Manager = &entry
	}

	for _, child := range r.DirectReports(id) {
		if opts.SameUnit && child.Unit != center.Unit {
			continue
		}
		if opts.AreaID != nil && (child.AreaID == nil || *child.AreaID != *opts.AreaID) {
			continue
		}
		node.Children = append(node.Children, r.entry(child))
	}
	return node, true
}

func (r *Resolver) entry(e domain.Employee) DirectoryEntry {
	return DirectoryEntry{Employee: e, ReportCount: r.ReportCount(e.ID)}
}
