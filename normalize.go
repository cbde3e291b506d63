package goCDEP

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MrEthical07/goCDEP/session"
)

// superAdminRoleName is the wire-level role name the API treats as the
// bypass-everything role. It is folded into Role.IsSuperAdmin at this
// boundary; nothing past normalization matches on the string again.
const superAdminRoleName = "Super Admin"

func isJSONNull(raw []byte) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// unwrapEnvelope returns the payload inside an optional {data: ...} wrapper.
// A top-level object without a data field is returned as-is.
func unwrapEnvelope(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !isJSONNull(env.Data) {
		return env.Data, nil
	}
	return trimmed, nil
}

// rolePermissions decodes both permission wire shapes into the canonical
// module -> actions map: either the map directly, or a list of
// {module, actions} entries.
type rolePermissions map[string][]string

func (p *rolePermissions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if isJSONNull(trimmed) {
		*p = rolePermissions{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var m map[string][]string
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return err
		}
		*p = m
	case '[':
		var entries []struct {
			Module  string   `json:"module"`
			Actions []string `json:"actions"`
		}
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		out := rolePermissions{}
		for _, e := range entries {
			if e.Module == "" {
				continue
			}
			actions := e.Actions
			if actions == nil {
				actions = []string{}
			}
			out[e.Module] = actions
		}
		*p = out
	default:
		// Unknown scalar shape; an empty grant is the safe reading.
		*p = rolePermissions{}
	}
	return nil
}

type wireRole struct {
	ID          string          `json:"_id"`
	AltID       string          `json:"id"`
	Name        string          `json:"name"`
	Permissions rolePermissions `json:"permissions"`
}

type wireUser struct {
	ID       string     `json:"id"`
	AltID    string     `json:"_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	TenantID string     `json:"tenantId"`
	Roles    []wireRole `json:"roles"`
}

func normalizeRole(w wireRole) session.Role {
	id := w.ID
	if id == "" {
		id = w.AltID
	}
	name := w.Name
	if name == "" {
		name = "Role"
	}
	perms := map[string][]string(w.Permissions)
	if perms == nil {
		perms = map[string][]string{}
	}
	return session.Role{
		ID:           id,
		Name:         name,
		IsSuperAdmin: name == superAdminRoleName,
		Permissions:  perms,
	}
}

// normalizeUser folds a raw user payload into the canonical [session.User].
// Missing fields take displayable defaults rather than failing the login;
// the record the server sent is the record the user gets.
func normalizeUser(raw json.RawMessage) *session.User {
	var w wireUser
	_ = json.Unmarshal(raw, &w)

	id := w.ID
	if id == "" {
		id = w.AltID
	}
	name := w.Name
	if name == "" {
		name = w.Email
	}
	if name == "" {
		name = "User"
	}

	roles := make([]session.Role, 0, len(w.Roles))
	for _, r := range w.Roles {
		roles = append(roles, normalizeRole(r))
	}

	return &session.User{
		ID:       id,
		Name:     name,
		Email:    w.Email,
		TenantID: w.TenantID,
		Roles:    roles,
	}
}

type wireAuthResponse struct {
	User         json.RawMessage `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

// normalizeAuthResponse decodes an auth endpoint body, bare or enveloped,
// into a normalized user plus token pair. The user may be nil (refresh
// responses carry only tokens); token presence is the caller's call.
func normalizeAuthResponse(raw []byte) (*session.User, string, string, error) {
	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, "", "", err
	}

	var w wireAuthResponse
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var user *session.User
	if !isJSONNull(w.User) {
		user = normalizeUser(w.User)
	}
	return user, w.AccessToken, w.RefreshToken, nil
}

// decodeList decodes a list payload, bare or enveloped, into dst. A payload
// that is neither leaves dst untouched: callers start from an empty slice,
// so an unrecognized shape reads as no records.
func decodeList(raw []byte, dst any) error {
	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// serverMessage extracts a human-readable error message from an API error
// body, tolerating {message}, {error}, and enveloped variants.
func serverMessage(raw []byte) string {
	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return ""
	}

	var w struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(payload, &w)
	if w.Message != "" {
		return w.Message
	}
	return w.Error
}
