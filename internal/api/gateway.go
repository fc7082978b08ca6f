package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/bureauram/ldgateway/internal/auth"
	"github.com/bureauram/ldgateway/internal/catalog"
	"github.com/bureauram/ldgateway/internal/notify"
	"github.com/bureauram/ldgateway/internal/provision"
	"github.com/bureauram/ldgateway/internal/server"
	"github.com/bureauram/ldgateway/internal/settings"
	"github.com/bureauram/ldgateway/pkg/models"
)

// Request parameter names of the wire protocol.
const (
	ParamAPIKey    = "better_ld_api"
	ParamMethod    = "better_ld_api_method"
	ParamUserEmail = "useremail"
	ParamUsername  = "username"
	ParamUserPass  = "userpass"
	ParamCourseID  = "course_id"
	ParamFirstName = "fname"
	ParamLastName  = "lname"
)

// Supported API methods.
const (
	MethodGetCourses   = "get_courses"
	MethodAddNewMember = "add_new_member"
	MethodRemoveMember = "remove_member_from_course"
)

// Fixed response messages of the wire protocol.
const (
	msgWrongAPIKey      = "Wrong API Key"
	msgWrongMethod      = "Wrong method, supported methods are add_new_member, remove_member_from_course, get_courses"
	msgPlatformInactive = "Request received, but the learning platform is not active. Request ignored."
	msgUserNotFound     = "User not found"
	msgNoCourses        = "No courses found"
	msgCourseList       = "List of courses follows"
	msgAddMemberUsage   = "add_new_member method needs the following data: username, useremail, userpass, course id"
	msgRemoveUsage      = "remove_member_from_course method needs the ID of the course and the email address or username of the user"
	msgUserCreated      = "Added user to the learning platform"
)

// gatewayRequest is the parsed parameter set of one inbound request.
// Delimited wire values (the course id spec) are parsed into lists here;
// everything past this point works with the parsed form.
type gatewayRequest struct {
	APIKey       string
	Method       string
	UserEmail    string
	Username     string
	UserPass     string
	CourseIDSpec string
	CourseIDs    []string
	FirstName    string
	LastName     string

	// raw is the url-encoded parameter set recorded in the audit log.
	raw string
}

// parseGatewayRequest reads the flat parameter set from the query string or
// form body. A syntactically invalid email address is treated as absent,
// leaving the per-method validation to reject it.
func parseGatewayRequest(r *http.Request, log hclog.Logger) (*gatewayRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("error parsing request parameters: %w", err)
	}

	req := &gatewayRequest{
		APIKey:       r.Form.Get(ParamAPIKey),
		Method:       r.Form.Get(ParamMethod),
		UserEmail:    r.Form.Get(ParamUserEmail),
		Username:     r.Form.Get(ParamUsername),
		UserPass:     r.Form.Get(ParamUserPass),
		CourseIDSpec: r.Form.Get(ParamCourseID),
		FirstName:    r.Form.Get(ParamFirstName),
		LastName:     r.Form.Get(ParamLastName),
		raw:          r.Form.Encode(),
	}
	req.CourseIDs = catalog.ParseIDSpec(req.CourseIDSpec)

	if req.UserEmail != "" {
		if err := validation.Validate(req.UserEmail, is.Email); err != nil {
			log.Warn("ignoring malformed email address", "error", err)
			req.UserEmail = ""
		}
	}

	return req, nil
}

// GatewayHandler is the gateway's single API entry point. Every inbound
// request runs through parse, platform check, authorization, and method
// dispatch, and is recorded in the audit log exactly once via the deferred
// append, regardless of which branch terminated it.
func GatewayHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := srv.Logger.With("request_id", uuid.New().String())

		req, err := parseGatewayRequest(r, log)
		if err != nil {
			log.Error("error parsing gateway request", "error", err)
			req = &gatewayRequest{raw: r.URL.RawQuery}
		}

		var out outcome
		defer func() {
			appendAuditEntry(log, srv.DB, req.raw, out)
		}()

		switch {
		case err != nil:
			out = failureOutcome(ErrorKindValidation, "Malformed request")
		case !srv.Platform.IsActive():
			out = failureOutcome(ErrorKindPlatformInactive, msgPlatformInactive)
		default:
			out = authorizeAndDispatch(srv, log, req)
		}

		writeGatewayResponse(w, log, out)
	})
}

func authorizeAndDispatch(srv server.Server, log hclog.Logger, req *gatewayRequest) outcome {
	opts, err := srv.Settings.Load()
	if err != nil {
		log.Error("error loading gateway settings", "error", err)
		return failureOutcome(ErrorKindInternal, "Internal error")
	}

	if !auth.NewGuard(opts.APIKey).Authorize(req.APIKey) {
		log.Warn("rejected request with invalid API key", "method", req.Method)
		return failureOutcome(ErrorKindAuth, msgWrongAPIKey)
	}

	switch req.Method {
	case MethodGetCourses:
		return handleGetCourses(srv, log)
	case MethodAddNewMember:
		return handleAddNewMember(srv, log, opts, req)
	case MethodRemoveMember:
		return handleRemoveMember(srv, log, req)
	default:
		return failureOutcome(ErrorKindValidation, msgWrongMethod)
	}
}

// handleGetCourses lists all courses. An empty catalog is a success with a
// "no courses" message, not an error.
func handleGetCourses(srv server.Server, log hclog.Logger) outcome {
	courses := catalog.NewCatalog(srv.Platform, log).ListAll()
	if len(courses) == 0 {
		return successOutcome(msgNoCourses)
	}

	out := successOutcome(msgCourseList)
	out.logMessage = "List of courses sent"
	out.courses = courses
	return out
}

func (req *gatewayRequest) validateAddMember() error {
	return validation.Errors{
		ParamUsername:  validation.Validate(req.Username, validation.Required),
		ParamUserEmail: validation.Validate(req.UserEmail, validation.Required, is.Email),
		ParamUserPass:  validation.Validate(req.UserPass, validation.Required),
		ParamCourseID:  validation.Validate(req.CourseIDSpec, validation.Required),
	}.Filter()
}

// handleAddNewMember enrolls the user in the requested courses, creating the
// account first when the email is unknown. Repeating the call with identical
// input finds the existing account and re-enrolls it without creating a
// duplicate.
func handleAddNewMember(
	srv server.Server,
	log hclog.Logger,
	opts *settings.Settings,
	req *gatewayRequest,
) outcome {
	if err := req.validateAddMember(); err != nil {
		log.Warn("add_new_member validation failed", "error", err)
		return failureOutcomeLog(ErrorKindValidation, msgAddMemberUsage,
			"Request to add member received, but no course ID, username, email, or password received.")
	}

	cat := catalog.NewCatalog(srv.Platform, log)
	prov := provision.NewProvisioner(srv.Identity, srv.Platform, cat, log)
	notifier := notify.NewService(srv.Mail, log)
	courseName := cat.ResolveTitles(req.CourseIDs)
	recipients := notify.ParseRecipientList(opts.DestinationEmail)

	if userID, ok := srv.Identity.FindUserIDByEmail(req.UserEmail); ok {
		// Existing member; only the enrollment changes.
		var out outcome
		summary, err := prov.SetCourseAccess(userID, req.CourseIDs, true)
		if err != nil {
			out = failureOutcome(ErrorKindProvisioning, fmt.Sprintf(
				"Error encountered while adding user %s to course(s) %s", userID, courseName))
		} else {
			out = successOutcome(summary)
			existing := 0
			out.newMember = &existing
		}

		if opts.SendConfirmationEmail {
			notifier.Notify(notify.KindAddLevel, req.UserEmail, req.UserPass,
				courseName, opts.IncludePasswordInEmail, recipients)
		}
		return out
	}

	userID, _, err := prov.EnsureUser(req.Username, req.UserEmail, req.UserPass)
	if err != nil {
		log.Error("error creating user", "username", req.Username, "error", err)
		return failureOutcome(ErrorKindProvisioning, fmt.Sprintf(
			"Error encountered while creating user %s", req.Username))
	}

	// The response concatenates the creation outcome, the name-update
	// outcome when attempted, and the course-access outcome, in that order.
	parts := []string{msgUserCreated}
	if opts.UpdateUserData && (req.FirstName != "" || req.LastName != "") {
		parts = append(parts, prov.SetNameIfEmpty(userID, req.FirstName, req.LastName))
	}

	var out outcome
	summary, err := prov.SetCourseAccess(userID, req.CourseIDs, true)
	if err != nil {
		parts = append(parts, fmt.Sprintf(
			"Error encountered while adding user %s to course(s) %s", userID, courseName))
		out = failureOutcome(ErrorKindProvisioning, strings.Join(parts, ". "))
	} else {
		parts = append(parts, summary)
		out = successOutcome(strings.Join(parts, ". "))
		created := 1
		out.newMember = &created
	}

	if opts.SendConfirmationEmail {
		notifier.Notify(notify.KindNewUser, req.Username, req.UserPass,
			courseName, opts.IncludePasswordInEmail, recipients)
	}
	return out
}

// handleRemoveMember revokes the user's membership in the requested courses.
// The user is resolved by email, falling back to the username field.
func handleRemoveMember(srv server.Server, log hclog.Logger, req *gatewayRequest) outcome {
	if req.CourseIDSpec == "" || (req.UserEmail == "" && req.Username == "") {
		log.Warn("remove_member_from_course validation failed")
		return failureOutcomeLog(ErrorKindValidation, msgRemoveUsage,
			"Request to remove member from course received, but no course ID, username, or user email received.")
	}

	userID, ok := srv.Identity.FindUserIDByEmail(req.UserEmail)
	if !ok {
		userID, ok = srv.Identity.FindUserIDByUsername(req.Username)
	}
	if !ok {
		return failureOutcomeLog(ErrorKindNotFound, msgUserNotFound,
			"Request to remove member from course received, but user not found.")
	}

	cat := catalog.NewCatalog(srv.Platform, log)
	prov := provision.NewProvisioner(srv.Identity, srv.Platform, cat, log)

	summary, err := prov.SetCourseAccess(userID, req.CourseIDs, false)
	if err != nil {
		return failureOutcome(ErrorKindProvisioning, fmt.Sprintf(
			"Error encountered while removing user %s from course(s) %s",
			userID, cat.ResolveTitles(req.CourseIDs)))
	}
	return successOutcome(summary)
}

// appendAuditEntry records the request and its resolved outcome. It runs for
// every exit path of the gateway handler, including early rejections.
func appendAuditEntry(log hclog.Logger, db *gorm.DB, raw string, out outcome) {
	entry := models.AuditLogEntry{
		Request: raw,
		Status:  out.auditStatus(),
		Result:  out.auditMessage(),
	}
	if err := entry.Create(db); err != nil {
		log.Error("error appending audit log entry", "error", err)
	}
}

func writeGatewayResponse(w http.ResponseWriter, log hclog.Logger, out outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out.response()); err != nil {
		log.Error("error encoding gateway response", "error", err)
	}
}
