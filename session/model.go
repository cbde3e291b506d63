package session

import (
	"encoding/json"
	"fmt"
)

// Role is a server-granted role attached to a user. Immutable once attached;
// replaced wholesale when the user record is replaced.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// IsSuperAdmin marks the sentinel role granting every action in every
	// module. It is derived from the wire payload at the normalization
	// boundary so permission checks never match on a display name.
	IsSuperAdmin bool `json:"isSuperAdmin,omitempty"`

	// Permissions maps module name to the action names granted for it.
	Permissions map[string][]string `json:"permissions"`
}

// User is the authenticated identity record. Replaced wholesale on each
// login that returns user data.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	TenantID string `json:"tenantId"`
	Roles    []Role `json:"roles"`
}

// Session is the persisted triple. User is nil when signed out.
type Session struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Encode serializes a session for the storage slot.
func Encode(sess *Session) ([]byte, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

// Decode deserializes a storage slot blob. Callers treat any error as a
// corrupt slot and fall back to the signed-out state.
func Decode(data []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}

	out := *u
	out.Roles = make([]Role, len(u.Roles))
	for i, role := range u.Roles {
		cloned := role
		if role.Permissions != nil {
			cloned.Permissions = make(map[string][]string, len(role.Permissions))
			for module, actions := range role.Permissions {
				cloned.Permissions[module] = append([]string(nil), actions...)
			}
		}
		out.Roles[i] = cloned
	}
	return &out
}
