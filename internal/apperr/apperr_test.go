package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"clouddrive/internal/apperr"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{"not found", apperr.NotFound("Content Id is wrong!"), codes.NotFound, "Content Id is wrong!"},
		{"permission", apperr.PermissionDenied("Access denied!"), codes.PermissionDenied, "Access denied!"},
		{"exists", apperr.AlreadyExists("exists"), codes.AlreadyExists, "exists"},
		{"aborted", apperr.Aborted("Not enough storage space!"), codes.Aborted, "Not enough storage space!"},
		{"cancelled", apperr.Cancelled("collision"), codes.Canceled, "collision"},
		{"unknown", apperr.Unknown("better plan"), codes.Unknown, "better plan"},
		{"wrapped app error", fmt.Errorf("outer: %w", apperr.NotFound("plan")), codes.NotFound, "plan"},
		{"plain error", errors.New("db is down"), codes.Internal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(apperr.ToStatus(tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}

	assert.NoError(t, apperr.ToStatus(nil))
}

func TestKindOf(t *testing.T) {
	err := apperr.Wrap(apperr.KindAborted, errors.New("reset"), "Connection error! Upload file again")
	assert.Equal(t, apperr.KindAborted, apperr.KindOf(err))
	assert.True(t, apperr.Is(err, apperr.KindAborted))
	assert.False(t, apperr.Is(nil, apperr.KindAborted))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("x")))
	assert.Contains(t, err.Error(), "reset")
}
