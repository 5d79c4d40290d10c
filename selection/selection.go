// Package selection keeps the dashboard's checkbox state consistent across
// the group/request hierarchy: a group is selected exactly when all of its
// members are. The selection is an ordered id list treated as immutable;
// every transition returns a fresh list.
package selection

type Kind string

const (
	KindRequest Kind = "request"
	KindGroup   Kind = "group"
)

// Hierarchy is a read-only request→group index built from the caller's
// current groups and their member requests.
type Hierarchy struct {
	members map[string][]string
	parent  map[string]string
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		members: make(map[string][]string),
		parent:  make(map[string]string),
	}
}

// AddGroup registers a group and its member request ids.
func (h *Hierarchy) AddGroup(groupID string, requestIDs ...string) {
	h.members[groupID] = append(h.members[groupID], requestIDs...)
	for _, id := range requestIDs {
		h.parent[id] = groupID
	}
}

// Members returns the member request ids of a group.
func (h *Hierarchy) Members(groupID string) []string {
	return h.members[groupID]
}

// Toggle applies a single checkbox toggle and returns the new selection.
//
// Toggling a group walks its members: an unselected group selects itself
// and every member; a selected group with every member selected collapses
// fully; a selected group with partially selected members drops only its
// own flag and leaves the members alone. Toggling a request flips that
// request, then recomputes the parent group's flag so the invariant holds.
func Toggle(selected []string, id string, kind Kind, h *Hierarchy) []string {
	set := toSet(selected)

	if kind == KindGroup {
		children := h.members[id]
		switch {
		case set[id] && allIn(set, children):
			out := without(selected, append([]string{id}, children...))
			return out
		case set[id]:
			return without(selected, []string{id})
		default:
			out := append(cloneList(selected), id)
			set[id] = true
			for _, child := range children {
				if !set[child] {
					out = append(out, child)
					set[child] = true
				}
			}
			return out
		}
	}

	var out []string
	if set[id] {
		out = without(selected, []string{id})
		delete(set, id)
	} else {
		out = append(cloneList(selected), id)
		set[id] = true
	}

	parent, ok := h.parent[id]
	if !ok {
		return out
	}
	if allIn(set, h.members[parent]) {
		if !set[parent] {
			out = append(out, parent)
		}
	} else if set[parent] {
		out = without(out, []string{parent})
	}
	return out
}

// ExpandRequests resolves a mixed selection into the covered request ids:
// selected requests plus every member of each selected group, deduplicated,
// selection order preserved.
func ExpandRequests(selected []string, h *Hierarchy) []string {
	seen := make(map[string]bool, len(selected))
	out := make([]string, 0, len(selected))
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range selected {
		if members, isGroup := h.members[id]; isGroup {
			for _, m := range members {
				add(m)
			}
			continue
		}
		add(id)
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func allIn(set map[string]bool, ids []string) bool {
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}

func without(ids []string, remove []string) []string {
	drop := toSet(remove)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}

func cloneList(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
