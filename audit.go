package goCDEP

// Audit event types emitted by the client. One event per session lifecycle
// transition; resource fetches are deliberately not audited.
const (
	// EventLogin is an exported constant or variable used by the dashboard client.
	EventLogin = "session.login"
	// EventLoginFailed is an exported constant or variable used by the dashboard client.
	EventLoginFailed = "session.login_failed"
	// EventLogout is an exported constant or variable used by the dashboard client.
	EventLogout = "session.logout"
	// EventRefresh is an exported constant or variable used by the dashboard client.
	EventRefresh = "session.refresh"
	// EventRefreshFailed is an exported constant or variable used by the dashboard client.
	EventRefreshFailed = "session.refresh_failed"
	// EventSessionRestored is an exported constant or variable used by the dashboard client.
	EventSessionRestored = "session.restored"
	// EventSessionRestoreCorrupt is an exported constant or variable used by the dashboard client.
	EventSessionRestoreCorrupt = "session.restore_corrupt"
)
