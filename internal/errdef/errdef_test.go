package errdef_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/skroutz/ganetimgr/internal/errdef"

	"github.com/stretchr/testify/assert"
)

func TestIsForbidden(t *testing.T) {
	assert.False(t, errdef.IsForbidden(errors.New("some error")))
	assert.True(t, errdef.IsForbidden(errdef.NewForbidden("some error")))
}

func TestIsBadRequest(t *testing.T) {
	assert.False(t, errdef.IsBadRequest(errors.New("some error")))
	assert.True(t, errdef.IsBadRequest(errdef.NewBadRequest("some error")))
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, errdef.IsDuplicated(errors.New("some error")))
	assert.True(t, errdef.IsDuplicated(errdef.NewDuplicated("some error")))
}

func TestIsUnauthorized(t *testing.T) {
	assert.False(t, errdef.IsUnauthorized(errors.New("some error")))
	assert.True(t, errdef.IsUnauthorized(errdef.NewUnauthorized("some error")))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, errdef.IsNotFound(errors.New("some error")))
	assert.True(t, errdef.IsNotFound(errdef.NewNotFound("some error")))
}

func TestIsGone(t *testing.T) {
	assert.False(t, errdef.IsGone(errors.New("some error")))
	assert.True(t, errdef.IsGone(errdef.NewGone("some error")))
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, errdef.IsUnavailable(errors.New("some error")))
	assert.True(t, errdef.IsUnavailable(errdef.NewUnavailable("some error")))
}

func TestIsRejected(t *testing.T) {
	assert.False(t, errdef.IsRejected(errors.New("some error")))
	assert.True(t, errdef.IsRejected(errdef.NewRejected("some error")))
}

func TestIsWrapped(t *testing.T) {
	err := fmt.Errorf("activation failed: %w", errdef.NewGone("key expired"))
	assert.True(t, errdef.IsGone(err))
	assert.False(t, errdef.IsConflict(err))
}
