package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/platform/auth"
	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

func authRouter(t *testing.T) (*gin.Engine, *auth.Verifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	v, err := auth.NewVerifier("secret", "admin")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	am := NewAuthMiddleware(logger.Nop(), v)
	whoami := func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, rd.UserID.String())
	}
	r := gin.New()
	r.GET("/user", am.RequireAuth(), whoami)
	r.GET("/optional", am.OptionalAuth(), whoami)
	r.GET("/admin", am.RequireAuth(), am.RequireAdmin(), whoami)
	return r, v
}

func do(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	r, v := authRouter(t)
	user := uuid.New()
	tok, _ := v.Issue(user, "a@b.c", "", time.Hour)

	if rec := do(r, "/user", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want=401 got=%d", rec.Code)
	}
	if rec := do(r, "/user", "bogus"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rec.Code)
	}
	if rec := do(r, "/user", tok); rec.Code != http.StatusOK || rec.Body.String() != user.String() {
		t.Fatalf("valid token: code=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec := do(r, "/user?token="+tok, ""); rec.Code != http.StatusOK {
		t.Fatalf("query token: want=200 got=%d", rec.Code)
	}
}

func TestOptionalAuthAndAdmin(t *testing.T) {
	r, v := authRouter(t)
	user := uuid.New()
	tok, _ := v.Issue(user, "", "", time.Hour)
	admin, _ := v.Issue(uuid.New(), "", "admin", time.Hour)

	if rec := do(r, "/optional", "bogus"); rec.Body.String() != "anonymous" {
		t.Fatalf("bad token on optional route: got=%q", rec.Body.String())
	}
	if rec := do(r, "/optional", tok); rec.Body.String() != user.String() {
		t.Fatalf("optional with token: got=%q", rec.Body.String())
	}
	if rec := do(r, "/admin", tok); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: want=403 got=%d", rec.Code)
	}
	if rec := do(r, "/admin", admin); rec.Code != http.StatusOK {
		t.Fatalf("admin: want=200 got=%d", rec.Code)
	}
}
