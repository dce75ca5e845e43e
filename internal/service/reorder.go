package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"courseset_backend/internal/model"
	"courseset_backend/internal/treepath"
	"courseset_backend/internal/util"
	"courseset_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ReorderService renumbers, reorders, and deletes the problem records of
// one assignment as a single stage-then-commit batch. Staging every load
// before the first write is what makes swaps and collapsing moves safe: a
// sequential in-place pass could destroy a record before another move had
// read it.
type ReorderService struct {
	store Store
	log   *zap.Logger
}

func NewReorderService(store Store, log *zap.Logger) *ReorderService {
	return &ReorderService{store: store, log: log}
}

// ReorderRequest maps existing problem identifiers to their desired new
// identifiers. A target of zero marks an undefined mapping; any undefined
// mapping aborts the whole batch as a no-op, since a partially specified
// reorder must never be applied.
type ReorderRequest struct {
	SetID   uint
	Version int
	Desired map[int64]int64
}

type stagedMove struct {
	oldID, newID int64
	global       *model.Problem
	perUser      map[uint]*model.UserProblem
}

// Apply commits a reorder batch. Global-record writes are authoritative
// and abort on failure; per-user bookkeeping failures are logged as
// integrity warnings and the batch continues, because blocking a
// whole-class reorder on one corrupt per-user row is worse than
// proceeding.
func (s *ReorderService) Apply(ctx context.Context, req ReorderRequest) error {
	for _, target := range req.Desired {
		if target <= 0 {
			return nil
		}
	}

	var moved []int64
	for old, target := range req.Desired {
		if old != target {
			moved = append(moved, old)
		}
	}
	if len(moved) == 0 {
		return nil
	}
	// Deterministic commit order; when two moves collapse onto one slot
	// the higher-numbered source wins.
	sort.Slice(moved, func(i, j int) bool { return moved[i] < moved[j] })

	users, err := s.store.ListAssignedUserIDs(ctx, req.SetID)
	if err != nil {
		return fmt.Errorf("list assigned users: %w", err)
	}

	// Stage: load everything before touching anything.
	staged := make([]stagedMove, 0, len(moved))
	for _, old := range moved {
		mv := stagedMove{oldID: old, newID: req.Desired[old], perUser: map[uint]*model.UserProblem{}}

		global, err := s.store.GetProblem(ctx, req.SetID, old)
		switch {
		case err == nil:
			mv.global = global
		case errors.Is(err, util.ErrRecordNotFound):
			s.warnIntegrity("global problem record missing during reorder",
				req.SetID, 0, old)
		default:
			return fmt.Errorf("load problem %d: %w", old, err)
		}

		for _, user := range users {
			up, err := s.store.GetUserProblem(ctx, req.SetID, user, old, req.Version)
			switch {
			case err == nil:
				mv.perUser[user] = up
			case errors.Is(err, util.ErrRecordNotFound):
				s.warnIntegrity("user problem record missing during reorder",
					req.SetID, user, old)
			default:
				s.warnIntegrity("user problem record unreadable during reorder",
					req.SetID, user, old)
			}
		}
		staged = append(staged, mv)
	}

	// Commit: write every record under its new identifier. Collisions at
	// the target overwrite on purpose; the batch exists to shuffle slots.
	for _, mv := range staged {
		if mv.global != nil {
			mv.global.ProblemID = mv.newID
			if err := s.store.PutProblem(ctx, mv.global); err != nil {
				return fmt.Errorf("move problem %d to %d: %w", mv.oldID, mv.newID, err)
			}
		}
		for user, up := range mv.perUser {
			up.ProblemID = mv.newID
			if err := s.store.PutUserProblem(ctx, up); err != nil {
				s.warnIntegrity("user problem record write failed during reorder",
					req.SetID, user, mv.newID)
			}
		}
	}

	// Orphan cleanup: an old slot survives only when another move targets
	// it; otherwise deleting it is what completes the re-keying.
	targets := make(map[int64]bool, len(req.Desired))
	for _, t := range req.Desired {
		targets[t] = true
	}
	for _, mv := range staged {
		if targets[mv.oldID] {
			continue
		}
		if err := s.store.DeleteProblem(ctx, req.SetID, mv.oldID); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
			return fmt.Errorf("delete stale problem %d: %w", mv.oldID, err)
		}
		for _, user := range users {
			if err := s.store.DeleteUserProblem(ctx, req.SetID, user, mv.oldID, req.Version); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
				s.warnIntegrity("stale user problem record not deleted",
					req.SetID, user, mv.oldID)
			}
		}
	}

	monitoring.ReorderBatches.Inc()
	return nil
}

// PositionRef places one problem by its 1-based position among siblings
// under a parent problem, named by the parent's pre-reorder identifier.
// Parent 0 means top level.
type PositionRef struct {
	Position int
	Parent   int64
}

// ApplyPositions turns submitted positions and parent references into an
// identifier mapping and commits it through Apply. For nested sets each
// problem's new tree path is reconstructed by walking its parent chain up
// to the root; flat sets take the position as the new number directly.
func (s *ReorderService) ApplyPositions(ctx context.Context, setID uint, version int, moves map[int64]PositionRef) error {
	global, err := s.store.GetAssignment(ctx, setID)
	if err != nil {
		return err
	}
	nested := global.AssignmentType == model.AssignmentNestedReview

	desired := make(map[int64]int64, len(moves))
	if !nested {
		for old, ref := range moves {
			if ref.Parent != 0 {
				return fmt.Errorf("%w: problem %d: parent references need a nested set", util.ErrInvalidReorder, old)
			}
			desired[old] = int64(ref.Position)
		}
		return s.Apply(ctx, ReorderRequest{SetID: setID, Version: version, Desired: desired})
	}

	for old := range moves {
		path, err := resolveTreePosition(moves, old, 0)
		if err != nil {
			return err
		}
		id, err := treepath.Encode(path)
		if err != nil {
			return fmt.Errorf("%w: problem %d: %v", util.ErrInvalidReorder, old, err)
		}
		desired[old] = id
	}
	return s.Apply(ctx, ReorderRequest{SetID: setID, Version: version, Desired: desired})
}

// resolveTreePosition builds the new path of one problem by following
// submitted parent references root-ward. A parent with no submitted move
// keeps its current position, so its path comes from its identifier. The
// depth guard also breaks parent-reference cycles.
func resolveTreePosition(moves map[int64]PositionRef, old int64, depth int) (treepath.Path, error) {
	if depth >= treepath.MaxDepth {
		return nil, fmt.Errorf("%w: parent chain of problem %d exceeds depth %d", util.ErrInvalidReorder, old, treepath.MaxDepth)
	}
	ref, ok := moves[old]
	if !ok {
		p, err := treepath.Decode(old)
		if err != nil {
			return nil, fmt.Errorf("%w: parent %d: %v", util.ErrInvalidReorder, old, err)
		}
		return p, nil
	}
	if ref.Parent == 0 {
		return treepath.Path{ref.Position}, nil
	}
	parent, err := resolveTreePosition(moves, ref.Parent, depth+1)
	if err != nil {
		return nil, err
	}
	return append(parent, ref.Position), nil
}

// MakeConsecutive renumbers the set's problems into canonical consecutive
// form: 1..n for flat sets, depth-first 1..k sibling numbering for nested
// sets. The computed mapping runs through the ordinary Apply pipeline.
func (s *ReorderService) MakeConsecutive(ctx context.Context, setID uint, version int) error {
	global, err := s.store.GetAssignment(ctx, setID)
	if err != nil {
		return err
	}
	nested := global.AssignmentType == model.AssignmentNestedReview

	ids, err := s.store.ListProblemIDs(ctx, setID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	var mapping map[int64]int64
	if nested {
		mapping, err = treepath.Consecutive(ids)
		if err != nil {
			return err
		}
	} else {
		mapping = treepath.ConsecutiveFlat(ids)
	}
	return s.Apply(ctx, ReorderRequest{SetID: setID, Version: version, Desired: mapping})
}

// DeleteProblems removes problems outright. For nested sets every strict
// descendant goes too, recursively, so no child record is left without a
// reachable parent.
func (s *ReorderService) DeleteProblems(ctx context.Context, setID uint, ids []int64) error {
	global, err := s.store.GetAssignment(ctx, setID)
	if err != nil {
		return err
	}
	nested := global.AssignmentType == model.AssignmentNestedReview

	doomed := map[int64]bool{}
	for _, id := range ids {
		doomed[id] = true
	}
	if nested {
		all, err := s.store.ListProblemIDs(ctx, setID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			for _, candidate := range all {
				if treepath.IsDescendant(candidate, id) {
					doomed[candidate] = true
				}
			}
		}
	}

	users, err := s.store.ListAssignedUserIDs(ctx, setID)
	if err != nil {
		return err
	}
	for id := range doomed {
		if err := s.store.DeleteProblem(ctx, setID, id); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
			return fmt.Errorf("delete problem %d: %w", id, err)
		}
		for _, user := range users {
			if err := s.store.DeleteUserProblem(ctx, setID, user, id, -1); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
				s.warnIntegrity("user problem record not deleted", setID, user, id)
			}
		}
	}
	return nil
}

func (s *ReorderService) warnIntegrity(msg string, setID, userID uint, problemID int64) {
	monitoring.IntegrityWarnings.Inc()
	s.log.Warn(msg,
		zap.Uint("set_id", setID),
		zap.Uint("user_id", userID),
		zap.Int64("problem_id", problemID),
	)
}
