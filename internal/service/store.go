package service

import (
	"context"

	"courseset_backend/internal/model"
)

// Store is the persistence boundary of the field engine. The engine only
// consumes it; internal/repository provides the gorm implementation and
// tests provide an in-memory one. Absent records surface as
// util.ErrRecordNotFound, puts have upsert semantics keyed by the natural
// record key, and no call is retried here.
type Store interface {
	GetAssignment(ctx context.Context, setID uint) (*model.Assignment, error)
	PutAssignment(ctx context.Context, a *model.Assignment) error
	DeleteAssignment(ctx context.Context, setID uint) error
	ListAssignments(ctx context.Context) ([]model.Assignment, error)

	GetProblem(ctx context.Context, setID uint, problemID int64) (*model.Problem, error)
	PutProblem(ctx context.Context, p *model.Problem) error
	DeleteProblem(ctx context.Context, setID uint, problemID int64) error
	ListProblemIDs(ctx context.Context, setID uint) ([]int64, error)

	GetUserAssignment(ctx context.Context, setID, userID uint, version int) (*model.UserAssignment, error)
	PutUserAssignment(ctx context.Context, ua *model.UserAssignment) error
	// DeleteUserAssignment with version < 0 removes every version.
	DeleteUserAssignment(ctx context.Context, setID, userID uint, version int) error
	ListAssignedUserIDs(ctx context.Context, setID uint) ([]uint, error)

	GetUserProblem(ctx context.Context, setID, userID uint, problemID int64, version int) (*model.UserProblem, error)
	PutUserProblem(ctx context.Context, up *model.UserProblem) error
	// DeleteUserProblem with version < 0 removes every version.
	DeleteUserProblem(ctx context.Context, setID, userID uint, problemID int64, version int) error
}

// FieldRecord is the accessor surface every record kind implements; the
// resolver works exclusively through it.
type FieldRecord interface {
	FieldGet(name string) (string, bool)
	FieldSet(name string, value *string) error
}
