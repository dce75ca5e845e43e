package repository

import (
	"context"
	"errors"

	"courseset_backend/internal/model"
	"courseset_backend/internal/util"

	"gorm.io/gorm"
)

// RecordStore is the gorm implementation of the field engine's store. Puts
// upsert by the record's natural key alone: a record whose key columns
// were rewritten in memory lands at its new slot and the row it came from
// is left untouched, because during a swap that physical row may already
// hold another staged record. Vacated slots are the reorderer's cleanup
// pass to delete. Deletes are hard deletes because re-keying needs the old
// slot actually freed under the unique index.
type RecordStore struct {
	DB *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{DB: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrRecordNotFound
	}
	return err
}

func (r *RecordStore) GetAssignment(ctx context.Context, setID uint) (*model.Assignment, error) {
	var a model.Assignment
	if err := r.DB.WithContext(ctx).First(&a, setID).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *RecordStore) PutAssignment(ctx context.Context, a *model.Assignment) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

func (r *RecordStore) DeleteAssignment(ctx context.Context, setID uint) error {
	res := r.DB.WithContext(ctx).Unscoped().Delete(&model.Assignment{}, setID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrRecordNotFound
	}
	return nil
}

func (r *RecordStore) ListAssignments(ctx context.Context) ([]model.Assignment, error) {
	var sets []model.Assignment
	err := r.DB.WithContext(ctx).Order("name").Find(&sets).Error
	return sets, err
}

func (r *RecordStore) GetProblem(ctx context.Context, setID uint, problemID int64) (*model.Problem, error) {
	var p model.Problem
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ? AND problem_id = ?", setID, problemID).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *RecordStore) PutProblem(ctx context.Context, p *model.Problem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Problem
		err := tx.Where("assignment_id = ? AND problem_id = ?", p.AssignmentID, p.ProblemID).
			First(&existing).Error
		switch {
		case err == nil:
			// A row already holds the target key: the put overwrites it.
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			return tx.Save(p).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Insert fresh. A stale primary key from the slot the record
			// was staged out of must not ride along, or the write would
			// re-key that physical row instead of filling this slot.
			p.BaseModel = model.BaseModel{}
			return tx.Create(p).Error
		default:
			return err
		}
	})
}

func (r *RecordStore) DeleteProblem(ctx context.Context, setID uint, problemID int64) error {
	res := r.DB.WithContext(ctx).Unscoped().
		Where("assignment_id = ? AND problem_id = ?", setID, problemID).
		Delete(&model.Problem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrRecordNotFound
	}
	return nil
}

func (r *RecordStore) ListProblemIDs(ctx context.Context, setID uint) ([]int64, error) {
	var ids []int64
	err := r.DB.WithContext(ctx).Model(&model.Problem{}).
		Where("assignment_id = ?", setID).
		Order("problem_id").
		Pluck("problem_id", &ids).Error
	return ids, err
}

func (r *RecordStore) GetUserAssignment(ctx context.Context, setID, userID uint, version int) (*model.UserAssignment, error) {
	var ua model.UserAssignment
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ? AND version = ?", setID, userID, version).
		First(&ua).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ua, nil
}

func (r *RecordStore) PutUserAssignment(ctx context.Context, ua *model.UserAssignment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.UserAssignment
		err := tx.Where("assignment_id = ? AND user_id = ? AND version = ?",
			ua.AssignmentID, ua.UserID, ua.Version).First(&existing).Error
		switch {
		case err == nil:
			ua.ID = existing.ID
			ua.CreatedAt = existing.CreatedAt
			return tx.Save(ua).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			ua.BaseModel = model.BaseModel{}
			return tx.Create(ua).Error
		default:
			return err
		}
	})
}

func (r *RecordStore) DeleteUserAssignment(ctx context.Context, setID, userID uint, version int) error {
	q := r.DB.WithContext(ctx).Unscoped().
		Where("assignment_id = ? AND user_id = ?", setID, userID)
	if version >= 0 {
		q = q.Where("version = ?", version)
	}
	res := q.Delete(&model.UserAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrRecordNotFound
	}
	return nil
}

func (r *RecordStore) ListAssignedUserIDs(ctx context.Context, setID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.UserAssignment{}).
		Where("assignment_id = ?", setID).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *RecordStore) GetUserProblem(ctx context.Context, setID, userID uint, problemID int64, version int) (*model.UserProblem, error) {
	var up model.UserProblem
	err := r.DB.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ? AND problem_id = ? AND version = ?",
			setID, userID, problemID, version).
		First(&up).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &up, nil
}

func (r *RecordStore) PutUserProblem(ctx context.Context, up *model.UserProblem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.UserProblem
		err := tx.Where("assignment_id = ? AND user_id = ? AND problem_id = ? AND version = ?",
			up.AssignmentID, up.UserID, up.ProblemID, up.Version).First(&existing).Error
		switch {
		case err == nil:
			up.ID = existing.ID
			up.CreatedAt = existing.CreatedAt
			return tx.Save(up).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			up.BaseModel = model.BaseModel{}
			return tx.Create(up).Error
		default:
			return err
		}
	})
}

func (r *RecordStore) DeleteUserProblem(ctx context.Context, setID, userID uint, problemID int64, version int) error {
	q := r.DB.WithContext(ctx).Unscoped().
		Where("assignment_id = ? AND user_id = ? AND problem_id = ?", setID, userID, problemID)
	if version >= 0 {
		q = q.Where("version = ?", version)
	}
	res := q.Delete(&model.UserProblem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrRecordNotFound
	}
	return nil
}
