package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeSignedUp EventType = "employee_signed_up"
	EventEmployeeLoggedIn EventType = "employee_logged_in"
	EventDidNumberCreated EventType = "did_number_created"
	EventDidNumberUpdated EventType = "did_number_updated"
	EventDidNumberDeleted EventType = "did_number_deleted"
)

// Event represents a domain event emitted by services.
// ActorID is the employee who caused it; zero for anonymous callers.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID int64       `json:"subject_id"`
	ActorID   int64       `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DidNumberPayload describes the DID number state after the change.
type DidNumberPayload struct {
	Value        string `json:"value"`
	MonthlyPrice string `json:"monthly_price,omitempty"`
	SetupPrice   string `json:"setup_price,omitempty"`
	Currency     string `json:"currency,omitempty"`
}

// DidNumberUpdatedPayload carries the value before and after an edit.
type DidNumberUpdatedPayload struct {
	OldValue string           `json:"old_value"`
	New      DidNumberPayload `json:"new"`
}

// EmployeePayload identifies an account without secrets.
type EmployeePayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}
