package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"courseset_backend/internal/model"
	"courseset_backend/internal/schema"
	"courseset_backend/internal/treepath"
	"courseset_backend/internal/util"

	"go.uber.org/zap"
)

// AssignmentEditService turns submitted field batches into record
// mutations: it resolves per-field override policy, gates the batch on
// date validation, and commits only when the whole batch is clean. It also
// serves the resolved detail view the edit form renders from.
type AssignmentEditService struct {
	store    Store
	schema   *schema.Schema
	resolver *Resolver
	reorder  *ReorderService
	log      *zap.Logger
}

func NewAssignmentEditService(store Store, sch *schema.Schema, reorder *ReorderService, log *zap.Logger) *AssignmentEditService {
	return &AssignmentEditService{
		store:    store,
		schema:   sch,
		resolver: NewResolver(sch),
		reorder:  reorder,
		log:      log,
	}
}

// SaveRequest is one submitted edit batch. An empty UserIDs edits the
// global records directly; one entry edits a single user's overrides; more
// entries is a bulk apply. Version > 0 narrows user-record edits to one
// attempt version.
type SaveRequest struct {
	SetID   uint              `json:"setId"`
	UserIDs []uint            `json:"userIds"`
	Version int               `json:"version"`
	Fields  map[string]string `json:"fields" binding:"required"`
}

// SaveResult reports either the commit or the validation failures that
// rejected it. Violations come back in priority order and a non-empty list
// means no record was written at all.
type SaveResult struct {
	Violations []string `json:"violations,omitempty"`
	Changed    int      `json:"changed"`
}

type stagedUserAssignment struct {
	rec     *model.UserAssignment
	isNew   bool
	changed bool
	skip    bool
}

type stagedUserProblem struct {
	rec     *model.UserProblem
	isNew   bool
	changed bool
	skip    bool
}

// Save applies one edit batch. All loads and in-memory resolution happen
// before validation, and validation happens before the first store write,
// so a rejected batch leaves the store untouched.
func (s *AssignmentEditService) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	global, err := s.store.GetAssignment(ctx, req.SetID)
	if err != nil {
		return nil, err
	}

	sub, err := ParseSubmission(req.Fields)
	if err != nil {
		return nil, err
	}
	targets := len(req.UserIDs)
	now := time.Now()

	globalChanged := false
	var stagedProblems []*model.Problem
	var stagedUAs []*stagedUserAssignment
	var stagedUPs []*stagedUserProblem
	var violations []string

	if targets == 0 {
		changed, err := s.applyGroup(global, sub.Assignment, schema.ScopeAssignment, 0)
		if err != nil {
			return nil, err
		}
		globalChanged = changed
		violations = append(violations, CheckDates(global, nil, now)...)

		for _, pid := range sortedProblemIDs(sub.Problems) {
			p, err := s.store.GetProblem(ctx, req.SetID, pid)
			if err != nil {
				return nil, err
			}
			changed, err := s.applyGroup(p, sub.Problems[pid], schema.ScopeProblem, 0)
			if err != nil {
				return nil, err
			}
			if changed {
				stagedProblems = append(stagedProblems, p)
			}
		}
	} else {
		// Global problem records must exist before per-user overrides of
		// them make sense.
		for _, pid := range sortedProblemIDs(sub.Problems) {
			if _, err := s.store.GetProblem(ctx, req.SetID, pid); err != nil {
				return nil, err
			}
		}

		for _, userID := range req.UserIDs {
			// Version-scoped and override rows exist only under a base
			// (version 0) record, which assignment creates; targeting a
			// user without one is a caller error, not a reason to
			// materialize records.
			base, err := s.store.GetUserAssignment(ctx, req.SetID, userID, 0)
			if err != nil {
				if errors.Is(err, util.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: user %d", util.ErrUserNotAssigned, userID)
				}
				return nil, err
			}

			ua, isNew := base, false
			if req.Version != 0 {
				ua, isNew, err = s.loadOrNewUserAssignment(ctx, req.SetID, userID, req.Version)
				if err != nil {
					return nil, err
				}
			}
			changed, err := s.applyGroup(ua, sub.Assignment, schema.ScopeAssignment, targets)
			if err != nil {
				return nil, err
			}
			violations = append(violations, CheckDates(global, ua, now)...)
			stagedUAs = append(stagedUAs, &stagedUserAssignment{
				rec:     ua,
				isNew:   isNew,
				changed: changed,
				skip:    isNew && targets > 1 && !NonEmpty(sub.Assignment),
			})

			for _, pid := range sortedProblemIDs(sub.Problems) {
				group := sub.Problems[pid]
				up, isNewUP, err := s.loadOrNewUserProblem(ctx, req.SetID, userID, pid, req.Version)
				if err != nil {
					return nil, err
				}
				changed, err := s.applyGroup(up, group, schema.ScopeProblem, targets)
				if err != nil {
					return nil, err
				}
				userChanged, err := s.applyGroup(up, group, schema.ScopeUser, targets)
				if err != nil {
					return nil, err
				}
				stagedUPs = append(stagedUPs, &stagedUserProblem{
					rec:     up,
					isNew:   isNewUP,
					changed: changed || userChanged,
					skip:    isNewUP && targets > 1 && !NonEmpty(group),
				})
			}
		}
	}

	if len(violations) > 0 {
		return &SaveResult{Violations: dedupe(violations)}, nil
	}

	// Commit.
	written := 0
	if globalChanged {
		if err := s.store.PutAssignment(ctx, global); err != nil {
			return nil, fmt.Errorf("write assignment %d: %w", req.SetID, err)
		}
		written++
	}
	for _, p := range stagedProblems {
		if err := s.store.PutProblem(ctx, p); err != nil {
			return nil, fmt.Errorf("write problem %d: %w", p.ProblemID, err)
		}
		written++
	}
	for _, ua := range stagedUAs {
		if ua.skip || !ua.changed {
			continue
		}
		if err := s.store.PutUserAssignment(ctx, ua.rec); err != nil {
			return nil, fmt.Errorf("write user assignment for user %d: %w", ua.rec.UserID, err)
		}
		written++
	}
	for _, up := range stagedUPs {
		if up.skip || !up.changed {
			continue
		}
		if err := s.store.PutUserProblem(ctx, up.rec); err != nil {
			return nil, fmt.Errorf("write user problem %d for user %d: %w", up.rec.ProblemID, up.rec.UserID, err)
		}
		written++
	}
	return &SaveResult{Changed: written}, nil
}

// applyGroup resolves every submitted field of one scope onto rec. Fields
// of other scopes in the same group are skipped, and unknown field names
// are engine bugs.
func (s *AssignmentEditService) applyGroup(rec FieldRecord, group map[string]FieldInput, scope schema.Scope, targets int) (bool, error) {
	changed := false
	for _, field := range sortedFieldNames(group) {
		d, err := s.schema.Describe(field)
		if err != nil {
			return changed, fmt.Errorf("%w: %q", errSchemaBug, field)
		}
		if d.Scope != scope {
			continue
		}
		c, err := s.resolver.ApplyField(d, rec, group[field], targets)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

func (s *AssignmentEditService) loadOrNewUserAssignment(ctx context.Context, setID, userID uint, version int) (*model.UserAssignment, bool, error) {
	ua, err := s.store.GetUserAssignment(ctx, setID, userID, version)
	if err == nil {
		return ua, false, nil
	}
	if !errors.Is(err, util.ErrRecordNotFound) {
		return nil, false, err
	}
	return &model.UserAssignment{AssignmentID: setID, UserID: userID, Version: version}, true, nil
}

func (s *AssignmentEditService) loadOrNewUserProblem(ctx context.Context, setID, userID uint, problemID int64, version int) (*model.UserProblem, bool, error) {
	up, err := s.store.GetUserProblem(ctx, setID, userID, problemID, version)
	if err == nil {
		return up, false, nil
	}
	if !errors.Is(err, util.ErrRecordNotFound) {
		return nil, false, err
	}
	return &model.UserProblem{AssignmentID: setID, UserID: userID, ProblemID: problemID, Version: version}, true, nil
}

// ProblemView is the resolved view of one problem row.
type ProblemView struct {
	ProblemID int64          `json:"problemId"`
	Position  string         `json:"position,omitempty"`
	Depth     int            `json:"depth,omitempty"`
	Fields    []DisplayValue `json:"fields"`
}

// DetailView is the resolved edit-form view of one assignment, either
// global or through the lens of one user's overrides.
type DetailView struct {
	SetID          uint                 `json:"setId"`
	Name           string               `json:"name"`
	AssignmentType model.AssignmentType `json:"assignmentType"`
	Version        int                  `json:"version,omitempty"`
	Fields         []DisplayValue       `json:"fields"`
	Problems       []ProblemView        `json:"problems"`
}

// Detail resolves the effective values of every visible field. userID 0
// renders the global record; otherwise the named user's override row (for
// the given attempt version) is layered on top.
func (s *AssignmentEditService) Detail(ctx context.Context, setID, userID uint, version int) (*DetailView, error) {
	global, err := s.store.GetAssignment(ctx, setID)
	if err != nil {
		return nil, err
	}
	targets := 0
	var ua *model.UserAssignment
	if userID != 0 {
		targets = 1
		ua, err = s.store.GetUserAssignment(ctx, setID, userID, version)
		if err != nil && !errors.Is(err, util.ErrRecordNotFound) {
			return nil, err
		}
	}

	view := &DetailView{
		SetID:          setID,
		Name:           global.Name,
		AssignmentType: global.AssignmentType,
		Version:        version,
	}
	single := userID != 0
	for _, d := range s.schema.Fields(schema.ScopeAssignment) {
		if !s.schema.Visible(d, global.AssignmentType, single) {
			continue
		}
		view.Fields = append(view.Fields, s.resolver.DisplayField(d, global, fieldRecordOrNil(ua), targets))
	}

	ids, err := s.store.ListProblemIDs(ctx, setID)
	if err != nil {
		return nil, err
	}
	nested := global.AssignmentType == model.AssignmentNestedReview
	for _, pid := range ids {
		p, err := s.store.GetProblem(ctx, setID, pid)
		if err != nil {
			if errors.Is(err, util.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		var up *model.UserProblem
		if userID != 0 {
			up, err = s.store.GetUserProblem(ctx, setID, userID, pid, version)
			if err != nil && !errors.Is(err, util.ErrRecordNotFound) {
				return nil, err
			}
		}

		pv := ProblemView{ProblemID: pid}
		if nested {
			if path, err := treepath.Decode(pid); err == nil {
				pv.Position = path.String()
				pv.Depth = len(path)
			}
		}
		for _, d := range s.schema.Fields(schema.ScopeProblem) {
			if !s.schema.Visible(d, global.AssignmentType, single) {
				continue
			}
			pv.Fields = append(pv.Fields, s.resolver.DisplayField(d, p, fieldRecordOrNil(up), targets))
		}
		if userID != 0 {
			for _, d := range s.schema.Fields(schema.ScopeUser) {
				if !s.schema.Visible(d, global.AssignmentType, single) {
					continue
				}
				pv.Fields = append(pv.Fields, s.resolver.DisplayField(d, p, fieldRecordOrNil(up), targets))
			}
		}
		view.Problems = append(view.Problems, pv)
	}
	return view, nil
}

// fieldRecordOrNil keeps a typed nil pointer from leaking into the
// FieldRecord interface as a non-nil value.
func fieldRecordOrNil[T interface {
	FieldRecord
	comparable
}](rec T) FieldRecord {
	var zero T
	if rec == zero {
		return nil
	}
	return rec
}

func sortedProblemIDs(m map[int64]map[string]FieldInput) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedFieldNames(m map[string]FieldInput) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func dedupe(msgs []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range msgs {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
