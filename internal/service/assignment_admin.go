package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"courseset_backend/internal/model"
	"courseset_backend/internal/treepath"
	"courseset_backend/internal/util"

	"go.uber.org/zap"
)

// AssignmentAdminService covers the lifecycle operations around the field
// engine: creating and deleting sets, growing the problem list, and
// assigning sets to users. Edits to existing fields go through
// AssignmentEditService instead.
type AssignmentAdminService struct {
	store Store
	log   *zap.Logger
}

func NewAssignmentAdminService(store Store, log *zap.Logger) *AssignmentAdminService {
	return &AssignmentAdminService{store: store, log: log}
}

// CreateRequest carries the minimum needed to open a new set. Dates
// default to a two-week window starting now when left zero.
type CreateRequest struct {
	Name           string               `json:"name" binding:"required"`
	AssignmentType model.AssignmentType `json:"assignmentType"`
	OpenDate       int64                `json:"openDate"`
	DueDate        int64                `json:"dueDate"`
	AnswerDate     int64                `json:"answerDate"`
}

func (s *AssignmentAdminService) Create(ctx context.Context, req CreateRequest) (*model.Assignment, error) {
	at := req.AssignmentType
	if at == "" {
		at = model.AssignmentStandard
	}
	now := time.Now().Unix()
	open := req.OpenDate
	if open == 0 {
		open = now
	}
	due := req.DueDate
	if due == 0 {
		due = open + 14*24*3600
	}
	answer := req.AnswerDate
	if answer == 0 {
		answer = due
	}
	if answer < due || due < open {
		return nil, fmt.Errorf("create %q: dates out of order", req.Name)
	}

	a := &model.Assignment{
		Name:           req.Name,
		AssignmentType: at,
		Visible:        false,
		OpenDate:       open,
		DueDate:        due,
		AnswerDate:     answer,
	}
	if err := s.store.PutAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentAdminService) List(ctx context.Context) ([]model.Assignment, error) {
	return s.store.ListAssignments(ctx)
}

// Delete removes a set and everything hanging off it: problems, per-user
// assignment rows across all versions, and per-user problem rows.
func (s *AssignmentAdminService) Delete(ctx context.Context, setID uint) error {
	if _, err := s.store.GetAssignment(ctx, setID); err != nil {
		return err
	}
	ids, err := s.store.ListProblemIDs(ctx, setID)
	if err != nil {
		return err
	}
	users, err := s.store.ListAssignedUserIDs(ctx, setID)
	if err != nil {
		return err
	}

	for _, user := range users {
		for _, pid := range ids {
			if err := s.store.DeleteUserProblem(ctx, setID, user, pid, -1); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
				return fmt.Errorf("delete user problems for user %d: %w", user, err)
			}
		}
		if err := s.store.DeleteUserAssignment(ctx, setID, user, -1); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
			return fmt.Errorf("unassign user %d: %w", user, err)
		}
	}
	for _, pid := range ids {
		if err := s.store.DeleteProblem(ctx, setID, pid); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
			return fmt.Errorf("delete problem %d: %w", pid, err)
		}
	}
	return s.store.DeleteAssignment(ctx, setID)
}

// AddProblems appends new problem records after the current last slot: next
// integer for flat sets, next top-level sibling for nested sets. Every
// assigned user gets a skeleton row with a fresh random seed.
func (s *AssignmentAdminService) AddProblems(ctx context.Context, setID uint, sources []string) ([]int64, error) {
	global, err := s.store.GetAssignment(ctx, setID)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.ListProblemIDs(ctx, setID)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListAssignedUserIDs(ctx, setID)
	if err != nil {
		return nil, err
	}

	nested := global.AssignmentType == model.AssignmentNestedReview
	next, err := nextProblemID(ids, nested)
	if err != nil {
		return nil, err
	}

	var added []int64
	for _, source := range sources {
		pid, err := next()
		if err != nil {
			return added, err
		}
		p := &model.Problem{
			AssignmentID:  setID,
			ProblemID:     pid,
			SourceFile:    source,
			Value:         1,
			MaxAttempts:   -1,
			ShowMeAnother: -1,
			PrPeriod:      -1,
		}
		if err := s.store.PutProblem(ctx, p); err != nil {
			return added, fmt.Errorf("add problem %d: %w", pid, err)
		}
		for _, user := range users {
			seed := rand.Intn(9999) + 1
			up := &model.UserProblem{
				AssignmentID: setID,
				UserID:       user,
				ProblemID:    pid,
				ProblemSeed:  &seed,
			}
			if err := s.store.PutUserProblem(ctx, up); err != nil {
				return added, fmt.Errorf("add user problem %d for user %d: %w", pid, user, err)
			}
		}
		added = append(added, pid)
	}
	return added, nil
}

// nextProblemID returns a generator for fresh identifiers past the current
// maximum. Nested sets number by top-level sibling position, so the next
// slot comes from the first path segment of the largest identifier.
func nextProblemID(ids []int64, nested bool) (func() (int64, error), error) {
	if !nested {
		var max int64
		for _, id := range ids {
			if id > max {
				max = id
			}
		}
		n := max
		return func() (int64, error) {
			n++
			return n, nil
		}, nil
	}

	top := 0
	for _, id := range ids {
		path, err := treepath.Decode(id)
		if err != nil {
			return nil, err
		}
		if path[0] > top {
			top = path[0]
		}
	}
	n := top
	return func() (int64, error) {
		n++
		return treepath.Encode(treepath.Path{n})
	}, nil
}

// AssignUsers gives each user a version-0 assignment row plus skeleton
// problem rows with fresh seeds. Already-assigned users are left alone.
func (s *AssignmentAdminService) AssignUsers(ctx context.Context, setID uint, userIDs []uint) error {
	if _, err := s.store.GetAssignment(ctx, setID); err != nil {
		return err
	}
	ids, err := s.store.ListProblemIDs(ctx, setID)
	if err != nil {
		return err
	}

	for _, user := range userIDs {
		if _, err := s.store.GetUserAssignment(ctx, setID, user, 0); err == nil {
			continue
		} else if !errors.Is(err, util.ErrRecordNotFound) {
			return err
		}
		ua := &model.UserAssignment{AssignmentID: setID, UserID: user, Version: 0}
		if err := s.store.PutUserAssignment(ctx, ua); err != nil {
			return fmt.Errorf("assign user %d: %w", user, err)
		}
		for _, pid := range ids {
			seed := rand.Intn(9999) + 1
			up := &model.UserProblem{
				AssignmentID: setID,
				UserID:       user,
				ProblemID:    pid,
				ProblemSeed:  &seed,
			}
			if err := s.store.PutUserProblem(ctx, up); err != nil {
				return fmt.Errorf("assign problem %d to user %d: %w", pid, user, err)
			}
		}
		s.log.Info("user assigned to set",
			zap.Uint("set_id", setID),
			zap.Uint("user_id", user),
		)
	}
	return nil
}

// UnassignUser removes every per-user record of the set for one user, all
// versions included.
func (s *AssignmentAdminService) UnassignUser(ctx context.Context, setID, userID uint) error {
	ids, err := s.store.ListProblemIDs(ctx, setID)
	if err != nil {
		return err
	}
	for _, pid := range ids {
		if err := s.store.DeleteUserProblem(ctx, setID, userID, pid, -1); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
			return err
		}
	}
	if err := s.store.DeleteUserAssignment(ctx, setID, userID, -1); err != nil && !errors.Is(err, util.ErrRecordNotFound) {
		return err
	}
	return nil
}
