package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError("bad threshold"),
			want: "[VALIDATION] bad threshold",
		},
		{
			name: "with cause",
			err:  NewStorageError("write clean set", errors.New("disk full")),
			want: "[STORAGE] write clean set: disk full",
		},
		{
			name: "missing input carries remediation hint",
			err:  NewMissingInputError("clean record set not found, run the cleaning stage first", nil),
			want: "[MISSING_INPUT] clean record set not found, run the cleaning stage first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewStorageError("wrapper", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestIsType(t *testing.T) {
	err := NewSchemaError("marketing_channel")

	assert.True(t, IsType(err, ErrTypeSchema))
	assert.False(t, IsType(err, ErrTypeStorage))
	assert.False(t, IsType(errors.New("plain"), ErrTypeSchema))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewMissingInputError("clean record set not found, run the cleaning stage first", nil).
		WithContext("path", "data/reports/orders_clean.csv")

	assert.Equal(t, "data/reports/orders_clean.csv", err.Context["path"])
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing input maps to conflict",
			err:        NewMissingInputError("clean record set not found, run the cleaning stage first", nil),
			wantStatus: http.StatusConflict,
			wantCode:   "MISSING_INPUT",
		},
		{
			name:       "not found",
			err:        NewNotFoundError("report"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "validation maps to bad request",
			err:        NewValidationError("k must be positive"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION",
		},
		{
			name:       "plain error maps to internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}
