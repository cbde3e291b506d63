package goCDEP

import (
	"bytes"
	"encoding/json"
	"io"

	internalaudit "github.com/MrEthical07/goCDEP/internal/audit"
	"github.com/MrEthical07/goCDEP/session"
)

// User is the authenticated identity record held by the session store.
type User = session.User

// Role is a server-granted role attached to a [User].
type Role = session.Role

// Session is the persisted {user, accessToken, refreshToken} triple.
type Session = session.Session

// TokenClaims is the unverified access-token claims peek.
type TokenClaims = session.TokenClaims

// EntityRef is a reference to another record. The API populates some
// references into {_id, name} objects and leaves others as bare id strings;
// both wire shapes decode into the same struct.
type EntityRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts either a bare id string or an object carrying
// "_id"/"id" and "name".
func (e *EntityRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*e = EntityRef{}
		return nil
	}

	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*e = EntityRef{ID: id}
		return nil
	}

	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	id := obj.ID
	if id == "" {
		id = obj.AltID
	}
	*e = EntityRef{ID: id, Name: obj.Name}
	return nil
}

// ProjectStatus defines a public type used by goCDEP APIs.
type ProjectStatus string

const (
	// ProjectPlanned is an exported constant or variable used by the dashboard client.
	ProjectPlanned ProjectStatus = "planned"
	// ProjectActive is an exported constant or variable used by the dashboard client.
	ProjectActive ProjectStatus = "active"
	// ProjectOnHold is an exported constant or variable used by the dashboard client.
	ProjectOnHold ProjectStatus = "on_hold"
	// ProjectCompleted is an exported constant or variable used by the dashboard client.
	ProjectCompleted ProjectStatus = "completed"
	// ProjectCancelled is an exported constant or variable used by the dashboard client.
	ProjectCancelled ProjectStatus = "cancelled"
)

// ProjectPriority defines a public type used by goCDEP APIs.
type ProjectPriority string

const (
	// PriorityLow is an exported constant or variable used by the dashboard client.
	PriorityLow ProjectPriority = "low"
	// PriorityMedium is an exported constant or variable used by the dashboard client.
	PriorityMedium ProjectPriority = "medium"
	// PriorityHigh is an exported constant or variable used by the dashboard client.
	PriorityHigh ProjectPriority = "high"
	// PriorityCritical is an exported constant or variable used by the dashboard client.
	PriorityCritical ProjectPriority = "critical"
)

// Project mirrors the API's project record.
type Project struct {
	ID        string          `json:"_id"`
	Tenant    string          `json:"tenant"`
	Client    EntityRef       `json:"client"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	PM        EntityRef       `json:"pm"`
	StartDate string          `json:"startDate,omitempty"`
	EndDate   string          `json:"endDate,omitempty"`
	Status    ProjectStatus   `json:"status"`
	Priority  ProjectPriority `json:"priority"`
}

// AllocationStatus defines a public type used by goCDEP APIs.
type AllocationStatus string

const (
	// AllocationPlanned is an exported constant or variable used by the dashboard client.
	AllocationPlanned AllocationStatus = "planned"
	// AllocationActive is an exported constant or variable used by the dashboard client.
	AllocationActive AllocationStatus = "active"
	// AllocationCompleted is an exported constant or variable used by the dashboard client.
	AllocationCompleted AllocationStatus = "completed"
	// AllocationCancelled is an exported constant or variable used by the dashboard client.
	AllocationCancelled AllocationStatus = "cancelled"
)

// Allocation mirrors the API's developer time-allocation record.
type Allocation struct {
	ID               string           `json:"_id"`
	Tenant           string           `json:"tenant"`
	Project          EntityRef        `json:"project"`
	Developer        EntityRef        `json:"developer"`
	AllocatedHours   float64          `json:"allocatedHours"`
	ConsumedHours    float64          `json:"consumedHours"`
	RemainingHours   float64          `json:"remainingHours"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	Role             string           `json:"role"`
	DailyCapacityPct float64          `json:"dailyCapacityPct"`
	Status           AllocationStatus `json:"status"`
}

// TimesheetStatus defines a public type used by goCDEP APIs.
type TimesheetStatus string

const (
	// TimesheetPending is an exported constant or variable used by the dashboard client.
	TimesheetPending TimesheetStatus = "pending"
	// TimesheetApproved is an exported constant or variable used by the dashboard client.
	TimesheetApproved TimesheetStatus = "approved"
	// TimesheetRejected is an exported constant or variable used by the dashboard client.
	TimesheetRejected TimesheetStatus = "rejected"
)

// Timesheet mirrors the API's submitted-timesheet record.
type Timesheet struct {
	ID          string          `json:"_id"`
	Tenant      string          `json:"tenant"`
	User        EntityRef       `json:"user"`
	Project     EntityRef       `json:"project"`
	Milestone   *EntityRef      `json:"milestone,omitempty"`
	Allocation  *EntityRef      `json:"allocation,omitempty"`
	Date        string          `json:"date"`
	Hours       float64         `json:"hours"`
	Description string          `json:"description"`
	Blockers    string          `json:"blockers,omitempty"`
	Status      TimesheetStatus `json:"status"`
}

// TimesheetInput is the create-timesheet request body. Milestone,
// Allocation, and Blockers are optional.
type TimesheetInput struct {
	Project     string  `json:"project"`
	Milestone   string  `json:"milestone,omitempty"`
	Allocation  string  `json:"allocation,omitempty"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	Blockers    string  `json:"blockers,omitempty"`
}

// RiskStatus is the server-computed project risk bucket. The scoring
// algorithm is owned by the API; the client only consumes the result.
type RiskStatus string

const (
	// RiskOK is an exported constant or variable used by the dashboard client.
	RiskOK RiskStatus = "ok"
	// RiskWarning is an exported constant or variable used by the dashboard client.
	RiskWarning RiskStatus = "warning"
	// RiskCritical is an exported constant or variable used by the dashboard client.
	RiskCritical RiskStatus = "critical"
	// RiskOverrun is an exported constant or variable used by the dashboard client.
	RiskOverrun RiskStatus = "overrun"
	// RiskNoLogs is an exported constant or variable used by the dashboard client.
	RiskNoLogs RiskStatus = "no_logs"
	// RiskDeadline is an exported constant or variable used by the dashboard client.
	RiskDeadline RiskStatus = "deadline_risk"
)

// Elevated reports whether the status counts toward the "projects with
// elevated risk" dashboard figure.
func (s RiskStatus) Elevated() bool {
	switch s {
	case RiskCritical, RiskOverrun, RiskDeadline:
		return true
	}
	return false
}

// ProjectRisk is one row of the computed project-risk indicator feed.
type ProjectRisk struct {
	ProjectID string     `json:"projectId"`
	BurnRate  float64    `json:"burnRate"`
	Remaining float64    `json:"remaining"`
	Status    RiskStatus `json:"status"`
}

// AuditEvent is a structured session lifecycle record emitted by the client.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
