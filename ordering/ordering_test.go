package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(n int) *int { return &n }

func TestTopPositionEmpty(t *testing.T) {
	assert.Equal(t, 0, TopPosition(nil))
}

func TestTopPositionStrictlyBelowEveryItem(t *testing.T) {
	items := []Item{
		{ID: "a", Kind: KindGroup, Position: pos(3)},
		{ID: "b", Kind: KindRequest, Position: pos(7)},
		{ID: "c", Kind: KindRequest, Position: pos(-2)},
	}
	got := TopPosition(items)
	assert.Equal(t, -3, got)
	for _, it := range items {
		assert.Less(t, got, *it.Position)
	}
}

func TestTopPositionIgnoresGroupedAndUnordered(t *testing.T) {
	items := []Item{
		{ID: "a", Kind: KindRequest, Position: pos(-10), GroupID: "g"},
		{ID: "b", Kind: KindRequest, Position: nil},
		{ID: "c", Kind: KindGroup, Position: pos(4)},
	}
	assert.Equal(t, 3, TopPosition(items))
}

func TestTopPositionMonotonicallyDecreases(t *testing.T) {
	items := []Item{{ID: "a", Kind: KindRequest, Position: pos(0)}}
	prev := 0
	for i := 0; i < 5; i++ {
		next := TopPosition(items)
		assert.Less(t, next, prev)
		items = append(items, Item{ID: "x", Kind: KindRequest, Position: pos(next)})
		prev = next
	}
}

func TestReconcileDropOntoGroup(t *testing.T) {
	items := []Item{
		{ID: "g1", Kind: KindGroup, Position: pos(0)},
		{ID: "r1", Kind: KindRequest, Position: pos(1)},
		{ID: "r2", Kind: KindRequest, Position: pos(2)},
	}

	plan, err := Reconcile(items, "r2", "g1")
	require.NoError(t, err)

	assert.Equal(t, ActionMoveIntoGroup, plan.Action)
	assert.Equal(t, "r2", plan.Moved)
	assert.Equal(t, "g1", plan.TargetGroup)
	assert.Equal(t, -1, plan.GroupPosition, "target group moves to the top")
	assert.Equal(t, []string{"g1", "r1"}, plan.Order)
}

func TestReconcileGroupedRequestOntoAnotherGroup(t *testing.T) {
	items := []Item{
		{ID: "g1", Kind: KindGroup, Position: pos(0)},
		{ID: "g2", Kind: KindGroup, Position: pos(1)},
		{ID: "r1", Kind: KindRequest, GroupID: "g1"},
	}

	plan, err := Reconcile(items, "r1", "g2")
	require.NoError(t, err)
	assert.Equal(t, ActionMoveIntoGroup, plan.Action)
	assert.Equal(t, "g2", plan.TargetGroup)
}

func TestReconcileMoveOutOfGroup(t *testing.T) {
	items := []Item{
		{ID: "g1", Kind: KindGroup, Position: pos(0)},
		{ID: "r1", Kind: KindRequest, Position: pos(1)},
		{ID: "r2", Kind: KindRequest, GroupID: "g1"},
	}

	plan, err := Reconcile(items, "r2", "r1")
	require.NoError(t, err)
	assert.Equal(t, ActionMoveOutOfGroup, plan.Action)
	assert.Equal(t, 1, plan.Position, "takes the target's index in the flat list")
	assert.Equal(t, []string{"g1", "r2", "r1"}, plan.Order)
}

func TestReconcileMoveOutOfGroupWithoutTargetAppends(t *testing.T) {
	items := []Item{
		{ID: "g1", Kind: KindGroup, Position: pos(0)},
		{ID: "r1", Kind: KindRequest, Position: pos(1)},
		{ID: "r2", Kind: KindRequest, GroupID: "g1"},
	}

	plan, err := Reconcile(items, "r2", "")
	require.NoError(t, err)
	assert.Equal(t, ActionMoveOutOfGroup, plan.Action)
	assert.Equal(t, 2, plan.Position)
	assert.Equal(t, []string{"g1", "r1", "r2"}, plan.Order)
}

func TestReconcileReorderWritesDensePositions(t *testing.T) {
	// Group A, Request B, Group C; moving C above A must persist
	// C=0, A=1, B=2.
	items := []Item{
		{ID: "A", Kind: KindGroup, Position: pos(0)},
		{ID: "B", Kind: KindRequest, Position: pos(1)},
		{ID: "C", Kind: KindGroup, Position: pos(2)},
	}

	plan, err := Reconcile(items, "C", "A")
	require.NoError(t, err)

	assert.Equal(t, ActionReorder, plan.Action)
	assert.Equal(t, []string{"C", "A", "B"}, plan.Order)

	byID := map[string]int{}
	for _, w := range plan.Writes {
		byID[w.ID] = w.Position
	}
	assert.Equal(t, map[string]int{"C": 0, "A": 1, "B": 2}, byID)
}

func TestReconcileErrors(t *testing.T) {
	items := []Item{
		{ID: "a", Kind: KindRequest, Position: pos(0)},
		{ID: "b", Kind: KindRequest, Position: pos(1)},
	}

	_, err := Reconcile(items, "a", "a")
	assert.Error(t, err)

	_, err = Reconcile(items, "ghost", "a")
	assert.Error(t, err)

	_, err = Reconcile(items, "a", "")
	assert.Error(t, err, "flat reorder needs a target")
}
