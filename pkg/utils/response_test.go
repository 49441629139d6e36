package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "maintenance-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"wrapped forbidden", fmt.Errorf("edit WORK_ORDERS: %w", apperrors.ErrForbidden), http.StatusForbidden},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"http error", apperrors.NewBadRequestError("bad page"), http.StatusBadRequest},
		{"invalid input", apperrors.NewInvalidInputError("field %q", "x"), http.StatusBadRequest},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestErrorResponse_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ErrorResponse(c, fmt.Errorf("pq: connection refused"), zap.NewNop()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestComparePasswords(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "secret"))
	assert.Error(t, ComparePasswords(hash, "other"))
}
