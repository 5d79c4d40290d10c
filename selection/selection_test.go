package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildHierarchy() *Hierarchy {
	h := NewHierarchy()
	h.AddGroup("g1", "r1", "r2", "r3")
	h.AddGroup("g2", "r4")
	return h
}

func TestGroupToggleRoundTrip(t *testing.T) {
	h := buildHierarchy()

	sel := Toggle(nil, "g1", KindGroup, h)
	assert.ElementsMatch(t, []string{"g1", "r1", "r2", "r3"}, sel)

	sel = Toggle(sel, "g1", KindGroup, h)
	assert.Empty(t, sel)
}

func TestGroupToggleDoesNotTouchOtherSelections(t *testing.T) {
	h := buildHierarchy()

	sel := Toggle([]string{"r4"}, "g1", KindGroup, h)
	assert.ElementsMatch(t, []string{"r4", "g1", "r1", "r2", "r3"}, sel)

	sel = Toggle(sel, "g1", KindGroup, h)
	assert.ElementsMatch(t, []string{"r4"}, sel)
}

func TestSelectingEverySiblingSelectsTheGroup(t *testing.T) {
	h := buildHierarchy()

	var sel []string
	sel = Toggle(sel, "r1", KindRequest, h)
	sel = Toggle(sel, "r2", KindRequest, h)
	assert.NotContains(t, sel, "g1")

	sel = Toggle(sel, "r3", KindRequest, h)
	assert.Contains(t, sel, "g1", "last sibling completes the group")
}

func TestDeselectingASiblingDropsTheGroup(t *testing.T) {
	h := buildHierarchy()

	sel := Toggle(nil, "g1", KindGroup, h)
	sel = Toggle(sel, "r2", KindRequest, h)

	assert.NotContains(t, sel, "g1")
	assert.NotContains(t, sel, "r2")
	assert.Contains(t, sel, "r1")
	assert.Contains(t, sel, "r3")
}

func TestGroupOnlyToggleWithPartialChildren(t *testing.T) {
	h := buildHierarchy()

	// Group flag set while only one child is selected: the toggle drops
	// just the group flag and leaves the children untouched.
	sel := Toggle([]string{"g1", "r1"}, "g1", KindGroup, h)
	assert.ElementsMatch(t, []string{"r1"}, sel)
}

func TestInvariantHoldsAfterToggleSequences(t *testing.T) {
	h := buildHierarchy()

	steps := []struct {
		id   string
		kind Kind
	}{
		{"r1", KindRequest}, {"g1", KindGroup}, {"r4", KindRequest},
		{"r2", KindRequest}, {"g2", KindGroup}, {"r1", KindRequest},
		{"g1", KindGroup}, {"r3", KindRequest},
	}

	var sel []string
	for _, s := range steps {
		sel = Toggle(sel, s.id, s.kind, h)

		set := map[string]bool{}
		for _, id := range sel {
			set[id] = true
		}
		for _, g := range []string{"g1", "g2"} {
			all := true
			for _, m := range h.Members(g) {
				if !set[m] {
					all = false
					break
				}
			}
			assert.Equal(t, all, set[g], "group %s after toggling %s", g, s.id)
		}
	}
}

func TestExpandRequests(t *testing.T) {
	h := buildHierarchy()

	got := ExpandRequests([]string{"g1", "r1", "r4"}, h)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, got)

	assert.Empty(t, ExpandRequests(nil, h))
}
