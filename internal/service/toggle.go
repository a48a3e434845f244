package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/metrics"
)

// ToggleOp selects whether Toggle adds or removes a pair.
type ToggleOp int

const (
	ToggleAdd ToggleOp = iota
	ToggleRemove
)

func (op ToggleOp) String() string {
	if op == ToggleRemove {
		return "remove"
	}
	return "add"
}

// RelationPair is one (subject, object) record of a join table.
type RelationPair interface {
	Relation() string
	Exists(tx *gorm.DB) (bool, error)
	Create(tx *gorm.DB) error
	Delete(tx *gorm.DB) error
}

// modelPair implements RelationPair for a gorm join model M. record is the
// row to insert; where identifies it.
type modelPair[M any] struct {
	relation string
	record   *M
	where    map[string]interface{}
}

func newModelPair[M any](relation string, record *M, where map[string]interface{}) *modelPair[M] {
	return &modelPair[M]{relation: relation, record: record, where: where}
}

func (p *modelPair[M]) Relation() string {
	return p.relation
}

func (p *modelPair[M]) Exists(tx *gorm.DB) (bool, error) {
	var n int64
	if err := tx.Model(new(M)).Where(p.where).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *modelPair[M]) Create(tx *gorm.DB) error {
	return tx.Create(p.record).Error
}

func (p *modelPair[M]) Delete(tx *gorm.DB) error {
	return tx.Where(p.where).Delete(new(M)).Error
}

// Toggle adds or removes pair in one transaction. Adding a present pair
// fails with AlreadyExists, removing an absent one with NotFound. After a
// successful add, present builds the representation returned to the
// caller; removals return the zero T.
func Toggle[T any](ctx context.Context, db *gorm.DB, op ToggleOp, pair RelationPair, present func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := pair.Exists(tx)
		if err != nil {
			return err
		}

		switch op {
		case ToggleAdd:
			if exists {
				return errs.AlreadyExists()
			}
			if err := pair.Create(tx); err != nil {
				// a concurrent add won the race
				if database.IsUniqueViolation(err) {
					return errs.AlreadyExists()
				}
				return err
			}
		case ToggleRemove:
			if !exists {
				return errs.NotFound(pair.Relation())
			}
			if err := pair.Delete(tx); err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordToggle(pair.Relation(), op.String(), toggleOutcome(err))
	if err != nil {
		return zero, err
	}

	if op == ToggleRemove || present == nil {
		return zero, nil
	}
	return present(ctx)
}

func toggleOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.IsKind(err, errs.KindAlreadyExists):
		return "already_exists"
	case errs.IsKind(err, errs.KindNotFound):
		return "not_found"
	default:
		return "error"
	}
}
