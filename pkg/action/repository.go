package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skroutz/ganetimgr/internal/errdef"
	"github.com/skroutz/ganetimgr/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, action *model.InstanceAction) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Create(action).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("activation key collision")
	}

	return err
}

func (r repository) findByActivationKey(ctx context.Context, activationKey string) (*model.InstanceAction, error) {
	var action *model.InstanceAction
	err := r.db.
		WithContext(ctx).
		Preload("User").
		Preload("Cluster").
		First(&action, "activation_key = ?", activationKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("no action found for this activation key")
	}
	return action, err
}

// claim flips the activated flag if and only if it is still unset. The
// conditional update makes concurrent confirmations of the same link race on
// the database row, so at most one caller observes a successful claim.
func (r repository) claim(ctx context.Context, activationKey string) (bool, error) {
	ctx = context.WithoutCancel(ctx)

	db := r.db.
		WithContext(ctx).
		Model(&model.InstanceAction{}).
		Where("activation_key = ? AND activated = ?", activationKey, false).
		Update("activated", true)
	if db.Error != nil {
		return false, fmt.Errorf("failed to claim action: %v", db.Error)
	}

	return db.RowsAffected == 1, nil
}

// release undoes a claim after the backend refused the operation so the
// confirmation link stays usable.
func (r repository) release(ctx context.Context, activationKey string) error {
	ctx = context.WithoutCancel(ctx)

	err := r.db.
		WithContext(ctx).
		Model(&model.InstanceAction{}).
		Where("activation_key = ?", activationKey).
		Update("activated", false).Error
	if err != nil {
		return fmt.Errorf("failed to release action: %v", err)
	}

	return nil
}

func (r repository) deleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = context.WithoutCancel(ctx)

	db := r.db.
		WithContext(ctx).
		Where("created_at < ? AND activated = ?", cutoff, false).
		Delete(&model.InstanceAction{})
	if db.Error != nil {
		return 0, fmt.Errorf("failed to delete expired actions: %v", db.Error)
	}

	return db.RowsAffected, nil
}
