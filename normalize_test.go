package goCDEP

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNormalizeAuthResponseShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantUser string
		wantAT   string
		wantRT   string
	}{
		{
			name:     "bare payload",
			body:     `{"user":{"id":"u1","name":"Ana","email":"a@x.io","tenantId":"t1"},"accessToken":"at","refreshToken":"rt"}`,
			wantUser: "Ana",
			wantAT:   "at",
			wantRT:   "rt",
		},
		{
			name:     "enveloped payload",
			body:     `{"success":true,"data":{"user":{"id":"u1","name":"Ana"},"accessToken":"at2","refreshToken":"rt2"}}`,
			wantUser: "Ana",
			wantAT:   "at2",
			wantRT:   "rt2",
		},
		{
			name:   "tokens only",
			body:   `{"accessToken":"at3","refreshToken":"rt3"}`,
			wantAT: "at3",
			wantRT: "rt3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, at, rt, err := normalizeAuthResponse([]byte(tt.body))
			if err != nil {
				t.Fatalf("normalizeAuthResponse failed: %v", err)
			}
			if at != tt.wantAT || rt != tt.wantRT {
				t.Fatalf("got tokens (%q, %q), want (%q, %q)", at, rt, tt.wantAT, tt.wantRT)
			}
			if tt.wantUser == "" {
				if user != nil {
					t.Fatalf("expected nil user, got %+v", user)
				}
				return
			}
			if user == nil || user.Name != tt.wantUser {
				t.Fatalf("expected user %q, got %+v", tt.wantUser, user)
			}
		})
	}
}

func TestNormalizeAuthResponseMalformed(t *testing.T) {
	for _, body := range []string{"", "not json", `{"data": 5`} {
		if _, _, _, err := normalizeAuthResponse([]byte(body)); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("body %q: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}

func TestNormalizeUserDefaults(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantID   string
		wantName string
	}{
		{name: "full record", raw: `{"id":"u1","name":"Ana","email":"a@x.io"}`, wantID: "u1", wantName: "Ana"},
		{name: "mongo id fallback", raw: `{"_id":"u2","name":"Bo"}`, wantID: "u2", wantName: "Bo"},
		{name: "name falls back to email", raw: `{"id":"u3","email":"c@x.io"}`, wantID: "u3", wantName: "c@x.io"},
		{name: "name falls back to placeholder", raw: `{"id":"u4"}`, wantID: "u4", wantName: "User"},
		{name: "unusable record still displays", raw: `{}`, wantID: "", wantName: "User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := normalizeUser(json.RawMessage(tt.raw))
			if user.ID != tt.wantID || user.Name != tt.wantName {
				t.Fatalf("got (%q, %q), want (%q, %q)", user.ID, user.Name, tt.wantID, tt.wantName)
			}
		})
	}
}

func TestNormalizeRolePermissionShapes(t *testing.T) {
	raw := `{"id":"u1","roles":[
		{"_id":"r1","name":"Developer","permissions":{"timesheets":["create","view"]}},
		{"_id":"r2","name":"Client","permissions":[{"module":"projects","actions":["view"]},{"module":"","actions":["x"]}]},
		{"_id":"r3"}
	]}`

	user := normalizeUser(json.RawMessage(raw))
	if len(user.Roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(user.Roles))
	}

	dev := user.Roles[0]
	if got := dev.Permissions["timesheets"]; len(got) != 2 || got[0] != "create" {
		t.Fatalf("map-shaped permissions mishandled: %v", dev.Permissions)
	}

	cl := user.Roles[1]
	if got := cl.Permissions["projects"]; len(got) != 1 || got[0] != "view" {
		t.Fatalf("list-shaped permissions mishandled: %v", cl.Permissions)
	}
	if _, ok := cl.Permissions[""]; ok {
		t.Fatal("expected empty module entries to be dropped")
	}

	bare := user.Roles[2]
	if bare.Name != "Role" {
		t.Fatalf("expected role name placeholder, got %q", bare.Name)
	}
	if bare.Permissions == nil || len(bare.Permissions) != 0 {
		t.Fatalf("expected empty non-nil permission map, got %v", bare.Permissions)
	}
}

func TestNormalizeSuperAdminFlag(t *testing.T) {
	raw := `{"id":"u1","roles":[
		{"_id":"r1","name":"Super Admin"},
		{"_id":"r2","name":"Super  Admin"},
		{"_id":"r3","name":"super admin"}
	]}`

	user := normalizeUser(json.RawMessage(raw))
	if !user.Roles[0].IsSuperAdmin {
		t.Fatal("expected exact role name to set the super-admin flag")
	}
	// The flag is derived from the exact wire name the API reserves.
	if user.Roles[1].IsSuperAdmin || user.Roles[2].IsSuperAdmin {
		t.Fatal("expected near-miss names to stay ordinary roles")
	}
}

func TestDecodeListShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "bare array", body: `[{"_id":"p1"},{"_id":"p2"}]`, want: 2},
		{name: "enveloped array", body: `{"data":[{"_id":"p1"}]}`, want: 1},
		{name: "object without data", body: `{"message":"hi"}`, want: 0},
		{name: "null data", body: `{"data":null}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := []Project{}
			if err := decodeList([]byte(tt.body), &out); err != nil {
				t.Fatalf("decodeList failed: %v", err)
			}
			if len(out) != tt.want {
				t.Fatalf("expected %d records, got %d", tt.want, len(out))
			}
		})
	}
}

func TestEntityRefShapes(t *testing.T) {
	var p Project
	body := `{"_id":"p1","client":{"_id":"c1","name":"Acme"},"pm":"u9"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal project: %v", err)
	}

	if p.Client.ID != "c1" || p.Client.Name != "Acme" {
		t.Fatalf("populated ref mishandled: %+v", p.Client)
	}
	if p.PM.ID != "u9" || p.PM.Name != "" {
		t.Fatalf("bare id ref mishandled: %+v", p.PM)
	}
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: `{"message":"Invalid credentials"}`, want: "Invalid credentials"},
		{body: `{"error":"boom"}`, want: "boom"},
		{body: `{"data":{"message":"nested"}}`, want: "nested"},
		{body: `garbage`, want: ""},
		{body: `{}`, want: ""},
	}

	for _, tt := range tests {
		if got := serverMessage([]byte(tt.body)); got != tt.want {
			t.Fatalf("serverMessage(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestRiskStatusElevated(t *testing.T) {
	elevated := []RiskStatus{RiskCritical, RiskOverrun, RiskDeadline}
	calm := []RiskStatus{RiskOK, RiskWarning, RiskNoLogs, RiskStatus("unknown")}

	for _, s := range elevated {
		if !s.Elevated() {
			t.Fatalf("expected %q to be elevated", s)
		}
	}
	for _, s := range calm {
		if s.Elevated() {
			t.Fatalf("expected %q to not be elevated", s)
		}
	}
}
