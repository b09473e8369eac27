package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func cookieByName(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSetTokenCookiesSecureFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, secure := range []bool{false, true} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("POST", "/auth/login", nil)

		SetTokenCookies(c, "acc", "ref", secure)

		for _, name := range []string{"access_token", "refresh_token"} {
			ck := cookieByName(t, w, name)
			if ck.Secure != secure {
				t.Errorf("secure=%v: cookie %s Secure = %v", secure, name, ck.Secure)
			}
			if !ck.HttpOnly {
				t.Errorf("cookie %s is not HttpOnly", name)
			}
		}

		access := cookieByName(t, w, "access_token")
		wantSameSite := http.SameSiteLaxMode
		if secure {
			wantSameSite = http.SameSiteNoneMode
		}
		if access.SameSite != wantSameSite {
			t.Errorf("secure=%v: SameSite = %v, want %v", secure, access.SameSite, wantSameSite)
		}
	}
}

func TestClearTokenCookiesExpiresBoth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/auth/logout", nil)

	ClearTokenCookies(c, false)

	for _, name := range []string{"access_token", "refresh_token"} {
		ck := cookieByName(t, w, name)
		if ck.MaxAge >= 0 {
			t.Errorf("cookie %s MaxAge = %d, want negative", name, ck.MaxAge)
		}
		if ck.Value != "" {
			t.Errorf("cookie %s still carries a value", name)
		}
	}
}
