// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, aggregation and retry classification

package errors_test

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "mod not found",
			wantStr: "[NOT_FOUND] mod not found",
		},
		{
			name:    "state_mismatch_error",
			code:    errors.ErrStateMismatch,
			message: "neither path exists",
			wantStr: "[STATE_MISMATCH] neither path exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil_error_stays_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "ignored"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "ignored %d", 1))
	})

	t.Run("wrapped_error_is_reachable", func(t *testing.T) {
		err := errors.Wrap(os.ErrNotExist, errors.ErrIOFailure, "open registry")

		assert.Equal(t, "[IO_FAILURE] open registry: file does not exist", err.Error())
		assert.True(t, stderrors.Is(err, os.ErrNotExist))
	})
}

func TestIsComparesCodes(t *testing.T) {
	err := fmt.Errorf("toggle: %w", errors.New(errors.ErrConflict, "file owned by another mod"))

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrConflict, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrNotFound, "")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
	assert.Equal(t, errors.ErrConflict, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestIOFailureCarriesPath(t *testing.T) {
	err := errors.IOFailure(os.ErrPermission, "rename", "/game/reframework/plugins/foo")

	require.NotNil(t, err)
	assert.Equal(t, errors.ErrIOFailure, err.Code)

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "/game/reframework/plugins/foo", details[errors.DetailPath])
	assert.Equal(t, "rename", details[errors.DetailOp])
	assert.Nil(t, errors.IOFailure(nil, "rename", "x"))
}

func TestAggregate(t *testing.T) {
	t.Run("no_failures", func(t *testing.T) {
		assert.NoError(t, errors.Aggregate(errors.ErrIOFailure, "copy files", []error{nil, nil}))
	})

	t.Run("joins_failures", func(t *testing.T) {
		first := errors.IOFailure(os.ErrPermission, "copy", "a.pak")
		second := errors.IOFailure(os.ErrNotExist, "copy", "b.pak")

		err := errors.Aggregate(errors.ErrIOFailure, "copy files", []error{first, nil, second})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "copy files (2 failures)")
		assert.True(t, stderrors.Is(err, os.ErrPermission))
		assert.True(t, stderrors.Is(err, os.ErrNotExist))
		assert.Equal(t, 2, errors.GetErrorDetails(err)[errors.DetailFailures])
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"io_failure", errors.New(errors.ErrIOFailure, "disk full"), true},
		{"conflict", errors.New(errors.ErrConflict, "busy"), true},
		{"state_mismatch", errors.New(errors.ErrStateMismatch, "gone"), false},
		{"schema", errors.New(errors.ErrSchema, "bad json"), false},
		{"validation", errors.New(errors.ErrValidation, "wrong root"), false},
		{"plain_error", stderrors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.IsRetryable(tt.err))
		})
	}
}
