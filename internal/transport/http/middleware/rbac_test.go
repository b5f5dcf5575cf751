package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/directory"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(t *testing.T, user *auth.UserContext) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/leave/pending", nil)
	if user != nil {
		req = req.WithContext(WithUser(req.Context(), *user))
	}
	return req
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAuth(okHandler()).ServeHTTP(rec, requestAs(t, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	user := auth.UserContext{EmployeeID: "EMP010", Role: directory.RoleEmployee}
	RequireAuth(okHandler()).ServeHTTP(rec, requestAs(t, &user))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleGatesByRole(t *testing.T) {
	gate := RequireRole(directory.RoleManager, directory.RoleHRManager)

	cases := []struct {
		name string
		role directory.Role
		want int
	}{
		{"employee is refused", directory.RoleEmployee, http.StatusForbidden},
		{"team lead is refused", directory.RoleTeamLead, http.StatusForbidden},
		{"manager passes", directory.RoleManager, http.StatusOK},
		{"hr manager passes", directory.RoleHRManager, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			user := auth.UserContext{EmployeeID: "EMP010", Role: tc.role}
			gate(okHandler()).ServeHTTP(rec, requestAs(t, &user))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRoleStillNeedsAUser(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireRole(directory.RoleHRManager)(okHandler()).ServeHTTP(rec, requestAs(t, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
