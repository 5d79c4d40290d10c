// Package ordering holds the position arithmetic for the dashboard list:
// groups and ungrouped requests share one ordered key space, and a completed
// drag resolves to exactly one of three persistence plans.
package ordering

import (
	"fmt"
	"sort"
)

type Kind string

const (
	KindRequest Kind = "request"
	KindGroup   Kind = "group"
)

// Item is the reconciler's view of a request or group. Requests that
// currently live inside a group carry GroupID and a nil Position; everything
// else participates in the top-level order.
type Item struct {
	ID       string
	Kind     Kind
	Position *int
	GroupID  string
}

// TopPosition returns a position that sorts strictly before every item in
// the top-level list: the minimum existing position minus one, or 0 for an
// empty list. Nil positions count as unordered and are ignored. Repeated
// insertions at the top keep decreasing the key; nothing compacts it.
func TopPosition(items []Item) int {
	found := false
	min := 0
	for _, it := range items {
		if it.Kind == KindRequest && it.GroupID != "" {
			continue
		}
		if it.Position == nil {
			continue
		}
		if !found || *it.Position < min {
			min = *it.Position
			found = true
		}
	}
	if !found {
		return 0
	}
	return min - 1
}

type Action string

const (
	// ActionMoveIntoGroup puts a request inside a group: group reference
	// set, own position cleared, destination group bumped to the top.
	ActionMoveIntoGroup Action = "move_into_group"
	// ActionMoveOutOfGroup releases a request back to the top-level list at
	// the target's index.
	ActionMoveOutOfGroup Action = "move_out_of_group"
	// ActionReorder splice-moves an item within the flat list and rewrites
	// every top-level position densely.
	ActionReorder Action = "reorder"
)

// PositionWrite is one row update of the dense reorder batch.
type PositionWrite struct {
	ID       string
	Kind     Kind
	Position int
}

// Plan is the persistence outcome of one drag completion, plus the
// resulting top-level order for the optimistic echo. Exactly one of the
// action-specific fields is meaningful, selected by Action.
type Plan struct {
	Action Action
	Moved  string

	// ActionMoveIntoGroup
	TargetGroup   string
	GroupPosition int

	// ActionMoveOutOfGroup
	Position int

	// ActionReorder
	Writes []PositionWrite

	Order []string
}

// Reconcile interprets a completed drag of movedID over targetID against
// the current item set. The three cases are mutually exclusive and checked
// in order: drop onto a group, drop out of a group, reorder within the flat
// list. It never touches storage; the caller persists the plan and
// re-fetches, which is also the recovery point for a partially failed
// batch.
func Reconcile(items []Item, movedID, targetID string) (*Plan, error) {
	if movedID == "" {
		return nil, fmt.Errorf("missing moved id")
	}
	if movedID == targetID {
		return nil, fmt.Errorf("moved and target are the same item")
	}

	var moved *Item
	var target *Item
	for i := range items {
		switch items[i].ID {
		case movedID:
			moved = &items[i]
		case targetID:
			target = &items[i]
		}
	}
	if moved == nil {
		return nil, fmt.Errorf("unknown item %q", movedID)
	}

	top := topLevel(items)

	// Case 1: drop onto a group.
	if target != nil && target.Kind == KindGroup && moved.Kind == KindRequest {
		return &Plan{
			Action:        ActionMoveIntoGroup,
			Moved:         moved.ID,
			TargetGroup:   target.ID,
			GroupPosition: TopPosition(items),
			Order:         idsWithout(top, moved.ID),
		}, nil
	}

	// Case 2: the moved request leaves its group for the flat list.
	if moved.Kind == KindRequest && moved.GroupID != "" {
		idx := len(top)
		if target != nil {
			idx = indexOf(top, target.ID)
		}
		order := make([]string, 0, len(top)+1)
		for _, it := range top {
			order = append(order, it.ID)
		}
		if idx >= len(order) {
			order = append(order, moved.ID)
		} else {
			order = append(order[:idx], append([]string{moved.ID}, order[idx:]...)...)
		}
		return &Plan{
			Action:   ActionMoveOutOfGroup,
			Moved:    moved.ID,
			Position: idx,
			Order:    order,
		}, nil
	}

	// Case 3: reorder within the flat list.
	if target == nil {
		return nil, fmt.Errorf("reorder needs a target item")
	}
	oldIdx := indexOf(top, moved.ID)
	newIdx := indexOf(top, target.ID)
	if oldIdx >= len(top) || newIdx >= len(top) {
		return nil, fmt.Errorf("item not in the top-level list")
	}

	order := spliceMove(top, oldIdx, newIdx)
	writes := make([]PositionWrite, len(order))
	ids := make([]string, len(order))
	for i, it := range order {
		writes[i] = PositionWrite{ID: it.ID, Kind: it.Kind, Position: i}
		ids[i] = it.ID
	}
	return &Plan{
		Action: ActionReorder,
		Moved:  moved.ID,
		Writes: writes,
		Order:  ids,
	}, nil
}

// topLevel filters out grouped requests and sorts by position, nil last,
// ties kept in input order.
func topLevel(items []Item) []Item {
	top := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Kind == KindRequest && it.GroupID != "" {
			continue
		}
		top = append(top, it)
	}
	sort.SliceStable(top, func(i, j int) bool {
		a, b := top[i].Position, top[j].Position
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	return top
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return len(items)
}

func idsWithout(items []Item, exclude string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.ID == exclude {
			continue
		}
		out = append(out, it.ID)
	}
	return out
}

func spliceMove(items []Item, from, to int) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	if to > len(out) {
		to = len(out)
	}
	out = append(out[:to], append([]Item{moved}, out[to:]...)...)
	return out
}
