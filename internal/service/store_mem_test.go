package service

import (
	"context"
	"sort"

	"courseset_backend/internal/model"
	"courseset_backend/internal/util"
)

// memoryStore is the in-memory Store used across the service tests. Gets
// hand back copies so staged in-memory edits never leak into the "stored"
// record before a Put, and Puts count so tests can assert how much a
// batch actually wrote.
type memoryStore struct {
	assignments     map[uint]*model.Assignment
	problems        map[uint]map[int64]*model.Problem
	userAssignments map[uaKey]*model.UserAssignment
	userProblems    map[upKey]*model.UserProblem

	puts    int
	deletes int

	putProblemErr     error
	putUserProblemErr error
}

type uaKey struct {
	set, user uint
	version   int
}

type upKey struct {
	set, user uint
	problem   int64
	version   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		assignments:     map[uint]*model.Assignment{},
		problems:        map[uint]map[int64]*model.Problem{},
		userAssignments: map[uaKey]*model.UserAssignment{},
		userProblems:    map[upKey]*model.UserProblem{},
	}
}

func (m *memoryStore) GetAssignment(_ context.Context, setID uint) (*model.Assignment, error) {
	a, ok := m.assignments[setID]
	if !ok {
		return nil, util.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryStore) PutAssignment(_ context.Context, a *model.Assignment) error {
	m.puts++
	cp := *a
	if cp.ID == 0 {
		cp.ID = uint(len(m.assignments) + 1)
		a.ID = cp.ID
	}
	m.assignments[cp.ID] = &cp
	return nil
}

func (m *memoryStore) DeleteAssignment(_ context.Context, setID uint) error {
	if _, ok := m.assignments[setID]; !ok {
		return util.ErrRecordNotFound
	}
	m.deletes++
	delete(m.assignments, setID)
	return nil
}

func (m *memoryStore) ListAssignments(_ context.Context) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range m.assignments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryStore) GetProblem(_ context.Context, setID uint, problemID int64) (*model.Problem, error) {
	p, ok := m.problems[setID][problemID]
	if !ok {
		return nil, util.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryStore) PutProblem(_ context.Context, p *model.Problem) error {
	if m.putProblemErr != nil {
		return m.putProblemErr
	}
	m.puts++
	if m.problems[p.AssignmentID] == nil {
		m.problems[p.AssignmentID] = map[int64]*model.Problem{}
	}
	cp := *p
	m.problems[p.AssignmentID][p.ProblemID] = &cp
	return nil
}

func (m *memoryStore) DeleteProblem(_ context.Context, setID uint, problemID int64) error {
	if _, ok := m.problems[setID][problemID]; !ok {
		return util.ErrRecordNotFound
	}
	m.deletes++
	delete(m.problems[setID], problemID)
	return nil
}

func (m *memoryStore) ListProblemIDs(_ context.Context, setID uint) ([]int64, error) {
	var ids []int64
	for id := range m.problems[setID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memoryStore) GetUserAssignment(_ context.Context, setID, userID uint, version int) (*model.UserAssignment, error) {
	ua, ok := m.userAssignments[uaKey{setID, userID, version}]
	if !ok {
		return nil, util.ErrRecordNotFound
	}
	cp := *ua
	return &cp, nil
}

func (m *memoryStore) PutUserAssignment(_ context.Context, ua *model.UserAssignment) error {
	m.puts++
	cp := *ua
	m.userAssignments[uaKey{ua.AssignmentID, ua.UserID, ua.Version}] = &cp
	return nil
}

func (m *memoryStore) DeleteUserAssignment(_ context.Context, setID, userID uint, version int) error {
	found := false
	for k := range m.userAssignments {
		if k.set == setID && k.user == userID && (version < 0 || k.version == version) {
			delete(m.userAssignments, k)
			m.deletes++
			found = true
		}
	}
	if !found {
		return util.ErrRecordNotFound
	}
	return nil
}

func (m *memoryStore) ListAssignedUserIDs(_ context.Context, setID uint) ([]uint, error) {
	seen := map[uint]bool{}
	for k := range m.userAssignments {
		if k.set == setID {
			seen[k.user] = true
		}
	}
	var ids []uint
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memoryStore) GetUserProblem(_ context.Context, setID, userID uint, problemID int64, version int) (*model.UserProblem, error) {
	up, ok := m.userProblems[upKey{setID, userID, problemID, version}]
	if !ok {
		return nil, util.ErrRecordNotFound
	}
	cp := *up
	return &cp, nil
}

func (m *memoryStore) PutUserProblem(_ context.Context, up *model.UserProblem) error {
	if m.putUserProblemErr != nil {
		return m.putUserProblemErr
	}
	m.puts++
	cp := *up
	m.userProblems[upKey{up.AssignmentID, up.UserID, up.ProblemID, up.Version}] = &cp
	return nil
}

func (m *memoryStore) DeleteUserProblem(_ context.Context, setID, userID uint, problemID int64, version int) error {
	found := false
	for k := range m.userProblems {
		if k.set == setID && k.user == userID && k.problem == problemID && (version < 0 || k.version == version) {
			delete(m.userProblems, k)
			m.deletes++
			found = true
		}
	}
	if !found {
		return util.ErrRecordNotFound
	}
	return nil
}
