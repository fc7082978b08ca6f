package api

import (
	"github.com/bureauram/ldgateway/internal/catalog"
	"github.com/bureauram/ldgateway/pkg/models"
)

// ErrorKind classifies why a gateway request failed.
type ErrorKind string

const (
	// ErrorKindAuth is a bad or missing API key. The response never leaks
	// which part of the credential was wrong.
	ErrorKindAuth ErrorKind = "auth"

	// ErrorKindPlatformInactive is the learning platform being unavailable;
	// all method calls are rejected uniformly.
	ErrorKindPlatformInactive ErrorKind = "platform_inactive"

	// ErrorKindValidation is a missing or malformed required field.
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindNotFound is a referenced user or course that cannot be
	// resolved.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindProvisioning is a failed downstream create, update, or
	// enrollment call.
	ErrorKindProvisioning ErrorKind = "provisioning"

	// ErrorKindInternal is a gateway-side failure such as an unreadable
	// settings store.
	ErrorKindInternal ErrorKind = "internal"
)

// outcome is the tagged result of one dispatched request. Each branch of the
// dispatch constructs exactly one outcome; the boundary serializes it into
// the JSON response and the audit log entry.
type outcome struct {
	success bool
	kind    ErrorKind // set on failure

	// message is returned to the caller.
	message string

	// logMessage is recorded in the audit log when it differs from the
	// response message; empty means they are the same.
	logMessage string

	// courses is attached by get_courses.
	courses []catalog.Course

	// newMember is attached by add_new_member: 1 when an account was
	// created, 0 when the existing account was enrolled.
	newMember *int
}

func successOutcome(message string) outcome {
	return outcome{
		success: true,
		message: message,
	}
}

func failureOutcome(kind ErrorKind, message string) outcome {
	return outcome{
		kind:    kind,
		message: message,
	}
}

// failureOutcomeLog is a failure whose audit log message differs from the
// response message.
func failureOutcomeLog(kind ErrorKind, message, logMessage string) outcome {
	out := failureOutcome(kind, message)
	out.logMessage = logMessage
	return out
}

// auditStatus maps the outcome onto the audit log status enum.
func (o outcome) auditStatus() models.AuditStatus {
	if o.success {
		return models.AuditStatusSuccess
	}
	return models.AuditStatusError
}

// auditMessage is the result message recorded in the audit log.
func (o outcome) auditMessage() string {
	if o.logMessage != "" {
		return o.logMessage
	}
	return o.message
}

// gatewayResponse is the JSON shape returned for every gateway request.
type gatewayResponse struct {
	Success   int              `json:"success"`
	Message   string           `json:"message"`
	Courses   []catalog.Course `json:"courses,omitempty"`
	NewMember *int             `json:"new_member,omitempty"`
}

func (o outcome) response() gatewayResponse {
	resp := gatewayResponse{
		Message:   o.message,
		Courses:   o.courses,
		NewMember: o.newMember,
	}
	if o.success {
		resp.Success = 1
	}
	return resp
}
