package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/models"
)

// Repository is the generic persistence contract for one entity kind carrying
// the audit envelope. Add/Update/Delete stage changes in memory; nothing is
// durable until SaveChanges commits the whole batch in one transaction.
// Reads execute immediately against committed state and always hide
// soft-deleted rows. Predicates are SQL conditions in the GORM idiom
// (query string plus args).
//
// A Repository is one unit of work. It holds per-request staged state and is
// not safe for concurrent use; create a fresh instance per request.
type Repository[T any] interface {
	// GetByID returns the entity or nil when absent or soft-deleted.
	GetByID(id string) (*T, error)
	// GetAll returns every non-deleted row of the kind.
	GetAll() ([]T, error)
	// Find returns non-deleted rows matching the condition.
	Find(query any, args ...any) ([]T, error)
	// SingleOrDefault returns the first non-deleted match or nil. Uniqueness
	// is not enforced; the caller's predicate must be selective.
	SingleOrDefault(query any, args ...any) (*T, error)
	// FindIncludingDeleted bypasses the soft-delete filter. Audit and
	// forensics reads only.
	FindIncludingDeleted(query any, args ...any) ([]T, error)
	// Add stages an insert, assigning the ID if empty and overwriting
	// CreatedAt with the current time.
	Add(entity *T) *T
	// Update stages a modification, overwriting ModifiedAt.
	Update(entity *T)
	// Delete stages a logical delete: IsDeleted is set and DeletedAt stamped.
	// Re-deleting an already deleted entity keeps the original DeletedAt.
	Delete(entity *T)
	// DeleteByID resolves the entity then stages Delete. Absent ids are a
	// no-op, not an error.
	DeleteByID(id string) error
	// Exists reports whether any non-deleted row matches the condition.
	Exists(query any, args ...any) (bool, error)
	// Count returns the number of non-deleted rows of the kind.
	Count() (int64, error)
	// SaveChanges commits all staged changes atomically and returns the
	// number of affected rows. The staged set is drained whether or not the
	// commit succeeds; on failure nothing is durable and the caller must
	// re-stage before retrying.
	SaveChanges() (int64, error)
}

// ErrConflict signals a duplicate-key or concurrent-modification failure
// surfaced at commit time. The caller must re-read and resubmit.
var ErrConflict = errors.New("conflict committing staged changes")

type changeOp int

const (
	opAdd changeOp = iota
	opUpdate
	opDelete
)

type change[T any] struct {
	op     changeOp
	entity *T
}

type gormRepository[T any, PT models.Auditable[T]] struct {
	db      *gorm.DB
	pending []change[T]
}

// New creates a unit-of-work repository for one entity kind bound to the
// given database handle (or transaction).
func New[T any, PT models.Auditable[T]](db *gorm.DB) Repository[T] {
	return &gormRepository[T, PT]{db: db}
}

// NotDeleted is the standing filter hiding logically deleted rows. It is
// applied to every default read path; bypassing it requires the explicit
// including-deleted variants.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

func (r *gormRepository[T, PT]) view() *gorm.DB {
	var model T
	return r.db.Model(&model).Scopes(NotDeleted)
}

func (r *gormRepository[T, PT]) GetByID(id string) (*T, error) {
	var entity T
	err := r.view().Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &entity, nil
}

func (r *gormRepository[T, PT]) GetAll() ([]T, error) {
	var entities []T
	if err := r.view().Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("get all: %w", err)
	}
	return entities, nil
}

func (r *gormRepository[T, PT]) Find(query any, args ...any) ([]T, error) {
	var entities []T
	if err := r.view().Where(query, args...).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return entities, nil
}

func (r *gormRepository[T, PT]) SingleOrDefault(query any, args ...any) (*T, error) {
	var entity T
	err := r.view().Where(query, args...).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("single or default: %w", err)
	}
	return &entity, nil
}

func (r *gormRepository[T, PT]) FindIncludingDeleted(query any, args ...any) ([]T, error) {
	var model T
	var entities []T
	if err := r.db.Model(&model).Where(query, args...).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find including deleted: %w", err)
	}
	return entities, nil
}

func (r *gormRepository[T, PT]) Add(entity *T) *T {
	audit := PT(entity).Audit()
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}
	audit.CreatedAt = time.Now().UTC()
	r.pending = append(r.pending, change[T]{op: opAdd, entity: entity})
	return entity
}

func (r *gormRepository[T, PT]) Update(entity *T) {
	now := time.Now().UTC()
	PT(entity).Audit().ModifiedAt = &now
	r.pending = append(r.pending, change[T]{op: opUpdate, entity: entity})
}

func (r *gormRepository[T, PT]) Delete(entity *T) {
	audit := PT(entity).Audit()
	now := time.Now().UTC()
	if !audit.IsDeleted {
		audit.IsDeleted = true
		audit.DeletedAt = &now
	}
	audit.ModifiedAt = &now
	r.pending = append(r.pending, change[T]{op: opDelete, entity: entity})
}

func (r *gormRepository[T, PT]) DeleteByID(id string) error {
	entity, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if entity == nil {
		return nil
	}
	r.Delete(entity)
	return nil
}

func (r *gormRepository[T, PT]) Exists(query any, args ...any) (bool, error) {
	var count int64
	if err := r.view().Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return count > 0, nil
}

func (r *gormRepository[T, PT]) Count() (int64, error) {
	var count int64
	if err := r.view().Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

func (r *gormRepository[T, PT]) SaveChanges() (int64, error) {
	staged := r.pending
	r.pending = nil
	if len(staged) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range staged {
			var res *gorm.DB
			switch c.op {
			case opAdd:
				res = tx.Create(c.entity)
			default:
				res = tx.Save(c.entity)
			}
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return 0, fmt.Errorf("save changes: %w", err)
	}
	return affected, nil
}

// SoftDeleteWhere stamps every non-deleted row of T matching the condition as
// logically deleted, inside the caller's transaction. Services use it to apply
// the cascade policy to owned collections, since SQL ON DELETE never fires for
// logical deletes.
func SoftDeleteWhere[T any, PT models.Auditable[T]](tx *gorm.DB, query any, args ...any) (int64, error) {
	now := time.Now().UTC()
	var model T
	res := tx.Model(&model).Scopes(NotDeleted).Where(query, args...).Updates(map[string]any{
		"is_deleted":  true,
		"deleted_at":  now,
		"modified_at": now,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("soft delete where: %w", res.Error)
	}
	return res.RowsAffected, nil
}
