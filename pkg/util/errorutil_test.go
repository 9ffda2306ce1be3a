package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsKind(t *testing.T) {
	err := NewPermissionError("")
	assert.True(t, IsKind(err, KindPermission))
	assert.False(t, IsKind(err, KindParams))
	assert.False(t, IsKind(errors.New("plain"), KindPermission))
	assert.False(t, IsKind(nil, KindPermission))

	wrapped := fmt.Errorf("while checking: %w", err)
	assert.True(t, IsKind(wrapped, KindPermission))
}

func TestConstructorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		kind   ErrorKind
		status int
	}{
		{NewIdentityError(""), KindIdentity, http.StatusUnauthorized},
		{NewParamsError(""), KindParams, http.StatusBadRequest},
		{NewPermissionError(""), KindPermission, http.StatusForbidden},
		{NewDomainRule(4, "bound"), KindDomainRule, http.StatusUnprocessableEntity},
		{NewRateLimited("slow down"), KindRateLimited, http.StatusTooManyRequests},
		{NewNoStaffAvailable("dept-1"), KindNoStaffAvailable, http.StatusConflict},
		{NewNotFound("ticket"), KindNotFound, http.StatusNotFound},
		{NewInternalError(errors.New("boom")), KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var domainErr *DomainError
		require.ErrorAs(t, tc.err, &domainErr)
		assert.Equal(t, tc.kind, domainErr.Kind)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestDomainRuleCarriesCode(t *testing.T) {
	var domainErr *DomainError
	require.ErrorAs(t, NewDomainRule(7, "card bound elsewhere"), &domainErr)
	assert.Equal(t, 7, domainErr.Code)
	assert.Equal(t, "card bound elsewhere", domainErr.Message)
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, KindNotFound, mapped.Kind)

	passthrough := ToDomainError(NewParamsError("bad input"))
	assert.Equal(t, KindParams, passthrough.Kind)

	unknown := ToDomainError(errors.New("boom"))
	assert.Equal(t, KindInternal, unknown.Kind)
	assert.ErrorContains(t, unknown, "internal server error")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
}
