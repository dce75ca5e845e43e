package service

import (
	"context"
	"testing"

	"courseset_backend/internal/model"
	"courseset_backend/internal/treepath"
	"courseset_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedFlatSet(t *testing.T, m *memoryStore, ids ...int64) *model.Assignment {
	t.Helper()
	a := &model.Assignment{Name: "hw1", AssignmentType: model.AssignmentStandard}
	require.NoError(t, m.PutAssignment(context.Background(), a))
	for _, id := range ids {
		require.NoError(t, m.PutProblem(context.Background(), &model.Problem{
			AssignmentID: a.ID,
			ProblemID:    id,
			SourceFile:   sourceFor(id),
		}))
	}
	m.puts = 0
	return a
}

func sourceFor(id int64) string {
	return "problems/p" + string(rune('0'+id%10)) + ".pg"
}

func newReorder(m *memoryStore) *ReorderService {
	return NewReorderService(m, zap.NewNop())
}

func TestReorderIdentityIsNoOp(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 1, 2, 3)

	err := newReorder(m).Apply(context.Background(), ReorderRequest{
		SetID:   a.ID,
		Desired: map[int64]int64{1: 1, 2: 2, 3: 3},
	})
	require.NoError(t, err)
	assert.Zero(t, m.puts, "identity mapping must not write")
	assert.Zero(t, m.deletes)
}

func TestReorderUndefinedTargetAbortsWholeBatch(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 1, 2)

	err := newReorder(m).Apply(context.Background(), ReorderRequest{
		SetID:   a.ID,
		Desired: map[int64]int64{1: 2, 2: 0},
	})
	require.NoError(t, err)
	assert.Zero(t, m.puts, "a partially specified reorder must not apply at all")
	assert.Zero(t, m.deletes)
}

func TestReorderSwap(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 1, 2)
	src1 := m.problems[a.ID][1].SourceFile
	src2 := m.problems[a.ID][2].SourceFile

	err := newReorder(m).Apply(context.Background(), ReorderRequest{
		SetID:   a.ID,
		Desired: map[int64]int64{1: 2, 2: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, src2, m.problems[a.ID][1].SourceFile)
	assert.Equal(t, src1, m.problems[a.ID][2].SourceFile)
	assert.Len(t, m.problems[a.ID], 2, "a swap deletes nothing")
}

func TestReorderMoveCleansUpOldSlot(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 3)

	// Per-user record rides along and the stale slot is removed for the
	// user as well.
	require.NoError(t, m.PutUserAssignment(context.Background(), &model.UserAssignment{AssignmentID: a.ID, UserID: 9}))
	require.NoError(t, m.PutUserProblem(context.Background(), &model.UserProblem{AssignmentID: a.ID, UserID: 9, ProblemID: 3}))

	err := newReorder(m).Apply(context.Background(), ReorderRequest{
		SetID:   a.ID,
		Desired: map[int64]int64{3: 1},
	})
	require.NoError(t, err)

	assert.Contains(t, m.problems[a.ID], int64(1))
	assert.NotContains(t, m.problems[a.ID], int64(3))
	_, ok := m.userProblems[upKey{a.ID, 9, 1, 0}]
	assert.True(t, ok)
	_, ok = m.userProblems[upKey{a.ID, 9, 3, 0}]
	assert.False(t, ok)
}

func TestReorderCollapseKeepsOneRecord(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 1, 2)

	err := newReorder(m).Apply(context.Background(), ReorderRequest{
		SetID:   a.ID,
		Desired: map[int64]int64{1: 3, 2: 3},
	})
	require.NoError(t, err)

	require.Len(t, m.problems[a.ID], 1)
	assert.Contains(t, m.problems[a.ID], int64(3))
}

func TestReorderSurvivesMissingRecords(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 1)
	require.NoError(t, m.PutUserAssignment(context.Background(), &model.UserAssignment{AssignmentID: a.ID, UserID: 4}))
	// No user problem record for user 4: staging logs an integrity
	// warning and the batch still commits.

	err := newReorder(m).Apply(context.Background(), ReorderRequest{
		SetID:   a.ID,
		Desired: map[int64]int64{1: 2},
	})
	require.NoError(t, err)
	assert.Contains(t, m.problems[a.ID], int64(2))
}

func TestMakeConsecutiveFlat(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 2, 5, 9)

	require.NoError(t, newReorder(m).MakeConsecutive(context.Background(), a.ID, 0))

	ids, err := m.ListProblemIDs(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestMakeConsecutiveNested(t *testing.T) {
	m := newMemoryStore()
	a := &model.Assignment{Name: "review", AssignmentType: model.AssignmentNestedReview}
	require.NoError(t, m.PutAssignment(context.Background(), a))

	ids := []int64{
		mustTreeID(t, 2),
		mustTreeID(t, 2, 3),
		mustTreeID(t, 5),
	}
	for _, id := range ids {
		require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: id}))
	}

	require.NoError(t, newReorder(m).MakeConsecutive(context.Background(), a.ID, 0))

	got, err := m.ListProblemIDs(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{
		mustTreeID(t, 1),
		mustTreeID(t, 1, 1),
		mustTreeID(t, 2),
	}, got)
}

func TestDeleteProblemsNestedCascades(t *testing.T) {
	m := newMemoryStore()
	a := &model.Assignment{Name: "review", AssignmentType: model.AssignmentNestedReview}
	require.NoError(t, m.PutAssignment(context.Background(), a))

	keep := mustTreeID(t, 1)
	parent := mustTreeID(t, 2)
	child := mustTreeID(t, 2, 1)
	grandchild := mustTreeID(t, 2, 1, 4)
	for _, id := range []int64{keep, parent, child, grandchild} {
		require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: id}))
	}
	require.NoError(t, m.PutUserAssignment(context.Background(), &model.UserAssignment{AssignmentID: a.ID, UserID: 7}))
	require.NoError(t, m.PutUserProblem(context.Background(), &model.UserProblem{AssignmentID: a.ID, UserID: 7, ProblemID: child, Version: 2}))

	require.NoError(t, newReorder(m).DeleteProblems(context.Background(), a.ID, []int64{parent}))

	ids, err := m.ListProblemIDs(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{keep}, ids)

	// Per-user deletion covers every version.
	_, ok := m.userProblems[upKey{a.ID, 7, child, 2}]
	assert.False(t, ok)
}

func TestApplyPositionsFlat(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 1, 2)
	src1 := m.problems[a.ID][1].SourceFile

	err := newReorder(m).ApplyPositions(context.Background(), a.ID, 0, map[int64]PositionRef{
		1: {Position: 2},
		2: {Position: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, src1, m.problems[a.ID][2].SourceFile)
}

func TestApplyPositionsFlatRejectsParentReference(t *testing.T) {
	m := newMemoryStore()
	a := seedFlatSet(t, m, 1, 2)

	err := newReorder(m).ApplyPositions(context.Background(), a.ID, 0, map[int64]PositionRef{
		2: {Position: 1, Parent: 1},
	})
	assert.ErrorIs(t, err, util.ErrInvalidReorder)
	assert.Zero(t, m.puts)
}

func TestApplyPositionsNestedRebuildsPaths(t *testing.T) {
	m := newMemoryStore()
	a := &model.Assignment{Name: "review", AssignmentType: model.AssignmentNestedReview}
	require.NoError(t, m.PutAssignment(context.Background(), a))

	first := mustTreeID(t, 1)
	second := mustTreeID(t, 2)
	child := mustTreeID(t, 2, 1)
	for _, id := range []int64{first, second, child} {
		require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: id}))
	}

	// Swap the two top-level problems; the child follows its parent to its
	// new position through the parent reference.
	err := newReorder(m).ApplyPositions(context.Background(), a.ID, 0, map[int64]PositionRef{
		first:  {Position: 2},
		second: {Position: 1},
		child:  {Position: 1, Parent: second},
	})
	require.NoError(t, err)

	ids, err := m.ListProblemIDs(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{
		mustTreeID(t, 1),
		mustTreeID(t, 1, 1),
		mustTreeID(t, 2),
	}, ids)
}

func TestApplyPositionsUnmovedParentKeepsItsPath(t *testing.T) {
	m := newMemoryStore()
	a := &model.Assignment{Name: "review", AssignmentType: model.AssignmentNestedReview}
	require.NoError(t, m.PutAssignment(context.Background(), a))

	parent := mustTreeID(t, 2)
	child := mustTreeID(t, 2, 1)
	for _, id := range []int64{parent, child} {
		require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: id}))
	}

	err := newReorder(m).ApplyPositions(context.Background(), a.ID, 0, map[int64]PositionRef{
		child: {Position: 2, Parent: parent},
	})
	require.NoError(t, err)

	ids, err := m.ListProblemIDs(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{parent, mustTreeID(t, 2, 2)}, ids)
}

func TestApplyPositionsRejectsParentCycle(t *testing.T) {
	m := newMemoryStore()
	a := &model.Assignment{Name: "review", AssignmentType: model.AssignmentNestedReview}
	require.NoError(t, m.PutAssignment(context.Background(), a))

	x := mustTreeID(t, 1)
	y := mustTreeID(t, 2)
	for _, id := range []int64{x, y} {
		require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: id}))
	}

	err := newReorder(m).ApplyPositions(context.Background(), a.ID, 0, map[int64]PositionRef{
		x: {Position: 1, Parent: y},
		y: {Position: 1, Parent: x},
	})
	assert.ErrorIs(t, err, util.ErrInvalidReorder)
}

func mustTreeID(t *testing.T, path ...int) int64 {
	t.Helper()
	id, err := treepath.Encode(treepath.Path(path))
	require.NoError(t, err)
	return id
}
