package service

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"courseset_backend/internal/model"
	"courseset_backend/internal/schema"
	"courseset_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEditService(m *memoryStore) *AssignmentEditService {
	return NewAssignmentEditService(m, schema.New(), NewReorderService(m, zap.NewNop()), zap.NewNop())
}

func seedAssignment(t *testing.T, m *memoryStore) *model.Assignment {
	t.Helper()
	open := time.Now().Unix()
	a := &model.Assignment{
		Name:           "hw1",
		AssignmentType: model.AssignmentStandard,
		OpenDate:       open,
		DueDate:        open + 7*24*3600,
		AnswerDate:     open + 9*24*3600,
	}
	require.NoError(t, m.PutAssignment(context.Background(), a))
	m.puts = 0
	return a
}

func dueKey(setID uint) string {
	return fmt.Sprintf("assignment.%d.due_date", setID)
}

func assignUsers(t *testing.T, m *memoryStore, setID uint, userIDs ...uint) {
	t.Helper()
	for _, id := range userIDs {
		require.NoError(t, m.PutUserAssignment(context.Background(), &model.UserAssignment{
			AssignmentID: setID, UserID: id,
		}))
	}
	m.puts = 0
}

func TestSaveGlobalEdit(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	newDue := a.DueDate + 24*3600

	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:  a.ID,
		Fields: map[string]string{dueKey(a.ID): strconv.FormatInt(newDue, 10)},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Violations)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, newDue, m.assignments[a.ID].DueDate)
}

func TestSaveUnchangedValueWritesNothing(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)

	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:  a.ID,
		Fields: map[string]string{dueKey(a.ID): strconv.FormatInt(a.DueDate, 10)},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Changed)
	assert.Zero(t, m.puts)
}

func TestSaveViolationAbortsWholeBatch(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)

	// The due date moves before the open date and a problem edit rides in
	// the same batch; neither may reach the store.
	require.NoError(t, m.PutProblem(context.Background(), &model.Problem{
		AssignmentID: a.ID, ProblemID: 1, Value: 1,
	}))
	m.puts = 0

	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID: a.ID,
		Fields: map[string]string{
			dueKey(a.ID):                       strconv.FormatInt(a.OpenDate-3600, 10),
			fmt.Sprintf("problem.%d.value", 1): "5",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{msgDueBeforeOpen}, res.Violations)
	assert.Zero(t, res.Changed)
	assert.Zero(t, m.puts)
	assert.Equal(t, 1, m.problems[a.ID][1].Value)
}

func TestSaveSingleUserOverride(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	assignUsers(t, m, a.ID, 9)
	newDue := a.DueDate + 24*3600

	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{9},
		Fields: map[string]string{
			dueKey(a.ID):               strconv.FormatInt(newDue, 10),
			dueKey(a.ID) + ".override": "on",
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Violations)
	assert.Equal(t, 1, res.Changed)

	ua := m.userAssignments[uaKey{a.ID, 9, 0}]
	require.NotNil(t, ua)
	require.NotNil(t, ua.DueDate)
	assert.Equal(t, newDue, *ua.DueDate)
	assert.Equal(t, a.DueDate, m.assignments[a.ID].DueDate, "the global record stays put")
}

func TestSaveOverrideViolationFallsBackToGlobalAnswer(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	assignUsers(t, m, a.ID, 9)

	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{9},
		Fields: map[string]string{
			dueKey(a.ID):               strconv.FormatInt(a.AnswerDate+3600, 10),
			dueKey(a.ID) + ".override": "on",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{msgAnswerBeforeDue}, res.Violations)
	assert.Zero(t, m.puts)
}

func TestSaveBulkSkipsDefaultOnlyRecords(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: 1}))
	assignUsers(t, m, a.ID, 5, 6)

	// An override checkbox with no value resolves to the field default. For
	// a bulk apply that must not materialize brand-new records holding
	// nothing but defaults.
	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{5, 6},
		Fields: map[string]string{
			"problem.1.value":          "",
			"problem.1.value.override": "on",
		},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Changed)
	assert.Empty(t, m.userProblems)
}

func TestSaveBulkWithRealValueWritesEveryUser(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: 1}))
	assignUsers(t, m, a.ID, 5, 6)

	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{5, 6},
		Fields: map[string]string{
			"problem.1.value":          "3",
			"problem.1.value.override": "on",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Changed)
	for _, user := range []uint{5, 6} {
		up := m.userProblems[upKey{a.ID, user, 1, 0}]
		require.NotNil(t, up, "user %d", user)
		require.NotNil(t, up.Value)
		assert.Equal(t, 3, *up.Value)
	}
}

func TestSaveRejectsUnassignedUser(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)

	_, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{9},
		Fields: map[string]string{
			dueKey(a.ID):               strconv.FormatInt(a.DueDate+3600, 10),
			dueKey(a.ID) + ".override": "on",
		},
	})
	assert.ErrorIs(t, err, util.ErrUserNotAssigned)
	assert.Zero(t, m.puts, "no override records materialize for an unassigned user")
	assert.Empty(t, m.userAssignments)
}

func TestSaveVersionedRowNeedsBaseRecord(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	assignUsers(t, m, a.ID, 9)
	newDue := a.DueDate + 3600

	// With the base record present, targeting an attempt version may
	// create the version-scoped row.
	res, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{9},
		Version: 2,
		Fields: map[string]string{
			dueKey(a.ID):               strconv.FormatInt(newDue, 10),
			dueKey(a.ID) + ".override": "on",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Changed)
	ua := m.userAssignments[uaKey{a.ID, 9, 2}]
	require.NotNil(t, ua)
	require.NotNil(t, ua.DueDate)
	assert.Equal(t, newDue, *ua.DueDate)

	// Without it the versioned edit is refused outright.
	_, err = newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{4},
		Version: 2,
		Fields: map[string]string{
			dueKey(a.ID):               strconv.FormatInt(newDue, 10),
			dueKey(a.ID) + ".override": "on",
		},
	})
	assert.ErrorIs(t, err, util.ErrUserNotAssigned)
	_, ok := m.userAssignments[uaKey{a.ID, 4, 2}]
	assert.False(t, ok)
}

func TestSaveUnknownProblemFails(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)

	_, err := newEditService(m).Save(context.Background(), SaveRequest{
		SetID:   a.ID,
		UserIDs: []uint{5},
		Fields:  map[string]string{"problem.42.value": "3", "problem.42.value.override": "on"},
	})
	assert.Error(t, err, "overrides of a nonexistent global problem are refused")
	assert.Zero(t, m.puts)
}

func TestDetailGlobalView(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	require.NoError(t, m.PutProblem(context.Background(), &model.Problem{AssignmentID: a.ID, ProblemID: 1, Value: 2}))

	view, err := newEditService(m).Detail(context.Background(), a.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "hw1", view.Name)
	require.Len(t, view.Problems, 1)

	var value *DisplayValue
	for i := range view.Problems[0].Fields {
		if view.Problems[0].Fields[i].Field == "value" {
			value = &view.Problems[0].Fields[i]
		}
	}
	require.NotNil(t, value)
	assert.Equal(t, "2", value.Value)
	assert.False(t, value.Overridden)
}

func TestDetailUserViewShowsOverride(t *testing.T) {
	m := newMemoryStore()
	a := seedAssignment(t, m)
	due := a.DueDate + 24*3600
	require.NoError(t, m.PutUserAssignment(context.Background(), &model.UserAssignment{
		AssignmentID: a.ID, UserID: 9, DueDate: &due,
	}))

	view, err := newEditService(m).Detail(context.Background(), a.ID, 9, 0)
	require.NoError(t, err)

	var dv *DisplayValue
	for i := range view.Fields {
		if view.Fields[i].Field == "due_date" {
			dv = &view.Fields[i]
		}
	}
	require.NotNil(t, dv)
	assert.True(t, dv.Overridden)
	assert.NotEqual(t, dv.Global, dv.Value)
}
