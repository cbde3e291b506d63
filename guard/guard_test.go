package guard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

type fakeView struct {
	signedIn bool
	grants   map[string]bool
}

func (f fakeView) SignedIn() bool { return f.signedIn }

func (f fakeView) HasPermission(module, action string) bool {
	return f.grants[module+"/"+action]
}

func okHandler() (http.Handler, *bool) {
	served := false
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		served = true
		w.WriteHeader(http.StatusOK)
	}), &served
}

func TestRequireSessionRedirectsWithFrom(t *testing.T) {
	next, served := okHandler()
	handler := RequireSession(fakeView{signedIn: false}, "/login")(next)

	req := httptest.NewRequest(http.MethodGet, "/pm/dashboard?tab=active", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if *served {
		t.Fatal("expected nested handler to be skipped")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect location: %v", err)
	}
	if location.Path != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location.Path)
	}
	if got := location.Query().Get(FromParam); got != "/pm/dashboard?tab=active" {
		t.Fatalf("expected original location in %q param, got %q", FromParam, got)
	}
}

func TestRequireSessionPassesSignedIn(t *testing.T) {
	next, served := okHandler()
	handler := RequireSession(fakeView{signedIn: true}, "/login")(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !*served {
		t.Fatal("expected nested handler to run")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	view := fakeView{signedIn: true, grants: map[string]bool{"projects/view": true}}

	tests := []struct {
		name       string
		module     string
		action     string
		wantStatus int
	}{
		{name: "granted", module: "projects", action: "view", wantStatus: http.StatusOK},
		{name: "denied action", module: "projects", action: "delete", wantStatus: http.StatusFound},
		{name: "denied module", module: "roles", action: "view", wantStatus: http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			handler := RequirePermission(view, tt.module, tt.action, "/")(next)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/rbac", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusFound {
				if got := rec.Header().Get("Location"); got != "/" {
					t.Fatalf("expected silent redirect to fallback, got %q", got)
				}
			}
		})
	}
}
