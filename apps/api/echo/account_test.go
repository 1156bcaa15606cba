package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/shulehq/shule/core/account"
	"github.com/shulehq/shule/tests"
)

func Test_accountApi_usersCRUD(t *testing.T) {
	server := setup(t)

	jdoe := testutil.CreateAccount(t, acctRepo, "jdoe", "jdoe@test.cd", "s3cr3t pass!", account.RoleStudent)
	asel := testutil.CreateAccount(t, acctRepo, "asel", "asel@test.cd", "an0ther pass!", account.RoleTeacher)

	t.Run("query all", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/users")
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want 200 (body %s)", rec.Code, rec.Body.String())
		}
		var accts []account.Account
		if err := json.Unmarshal(rec.Body.Bytes(), &accts); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(accts) != 2 {
			t.Errorf("got %d accounts; want 2", len(accts))
		}
	})

	t.Run("retrieve", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, jdoe)}
		req, rec := newRequest(http.MethodGet, "/api/users/"+jdoe.ID)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		// the password hash never leaves the server
		if jdoe.PasswordHash == "" || strings.Contains(rec.Body.String(), jdoe.PasswordHash) {
			t.Error("response leaks the password hash")
		}
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marshalObj(t, MessageResponse{Message: "not found"})}
		req, rec := newRequest(http.MethodGet, "/api/users/nope")
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update", func(t *testing.T) {
		body := marshalObj(t, map[string]string{
			"username": "jdoe", "email": "doe.john@test.cd", "role": account.RoleAdmin,
		})
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marshalObj(t, MessageResponse{Message: "User updated successfully!"}),
		}
		req, rec := newRequest(http.MethodPut, "/api/users/"+jdoe.ID, body)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update taking another's email", func(t *testing.T) {
		body := marshalObj(t, map[string]string{
			"username": "jdoe", "email": asel.Email, "role": account.RoleStudent,
		})
		req, rec := newRequest(http.MethodPut, "/api/users/"+jdoe.ID, body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("code = %d; want 409 (body %s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("update unknown", func(t *testing.T) {
		body := marshalObj(t, map[string]string{
			"username": "ghost", "email": "ghost@test.cd", "role": account.RoleStudent,
		})
		req, rec := newRequest(http.MethodPut, "/api/users/nope", body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d; want 404 (body %s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marshalObj(t, MessageResponse{Message: "User deleted successfully!"}),
		}
		req, rec := newRequest(http.MethodDelete, "/api/users/"+asel.ID)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("delete unknown", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/users/nope")
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d; want 404 (body %s)", rec.Code, rec.Body.String())
		}
	})
}
