// Package provision ensures user accounts exist on the learning platform and
// toggles their course enrollments.
package provision

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/bureauram/ldgateway/internal/catalog"
	"github.com/bureauram/ldgateway/pkg/platform"
)

// NameNotSetMessage is the informational outcome of SetNameIfEmpty when no
// name could be applied, either because none was supplied or because the
// account already carries one.
const NameNotSetMessage = "No first or last name received. Name not set."

// Provisioner applies user and enrollment changes through the platform's
// identity store and enrollment gateway.
type Provisioner struct {
	identity platform.IdentityStore
	platform platform.Gateway
	catalog  *catalog.Catalog
	log      hclog.Logger
}

// NewProvisioner returns a provisioner over the given providers.
func NewProvisioner(
	identity platform.IdentityStore,
	gw platform.Gateway,
	cat *catalog.Catalog,
	log hclog.Logger,
) *Provisioner {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Provisioner{
		identity: identity,
		platform: gw,
		catalog:  cat,
		log:      log,
	}
}

// EnsureUser looks up an account by email and creates one with the given
// credentials when absent. The boolean reports whether this call created the
// account.
func (p *Provisioner) EnsureUser(username, email, password string) (string, bool, error) {
	if id, ok := p.identity.FindUserIDByEmail(email); ok {
		return id, false, nil
	}

	id, err := p.identity.CreateUser(username, email, password)
	if err != nil {
		return "", false, fmt.Errorf("error creating user %q: %w", username, err)
	}

	p.log.Info("created user account", "user_id", id, "username", username)
	return id, true, nil
}

// SetNameIfEmpty registers first name, last name, and display name on the
// account, but only when the account does not already carry a first and last
// name (set-once: existing values are never overwritten). Empty inputs do
// not overwrite; the display name is composed from whichever names were
// supplied. The returned message is informational and never fails the
// calling operation.
func (p *Provisioner) SetNameIfEmpty(userID, firstName, lastName string) string {
	user, ok := p.identity.GetUser(userID)
	if !ok {
		p.log.Warn("name registration for unknown user", "user_id", userID)
		return NameNotSetMessage
	}

	if user.FirstName != "" && user.LastName != "" {
		return NameNotSetMessage
	}

	var fields platform.UserFields
	var display string
	switch {
	case firstName != "" && lastName != "":
		display = firstName + " " + lastName
		fields.FirstName = &firstName
		fields.LastName = &lastName
	case firstName != "":
		display = firstName
		fields.FirstName = &firstName
	case lastName != "":
		display = lastName
		fields.LastName = &lastName
	default:
		return NameNotSetMessage
	}
	fields.DisplayName = &display

	if err := p.identity.UpdateUserFields(userID, fields); err != nil {
		p.log.Error("error updating user name", "user_id", userID, "error", err)
		return fmt.Sprintf("Error: %v", err)
	}

	return fmt.Sprintf("Name and Display name set to %s", display)
}

// SetCourseAccess grants or revokes the user's membership in every listed
// course. Enrollment toggles are idempotent set-membership writes, so
// repeating a grant or revoking an absent membership is not an error. A
// failing course does not block the remaining courses; partial application
// is possible and the aggregated error reports every failed toggle. On
// success the summary names the affected course titles and the user id.
func (p *Provisioner) SetCourseAccess(userID string, courseIDs []string, grant bool) (string, error) {
	var result *multierror.Error
	for _, courseID := range courseIDs {
		if err := p.platform.SetEnrollment(userID, courseID, grant); err != nil {
			p.log.Error("error toggling enrollment",
				"user_id", userID,
				"course_id", courseID,
				"grant", grant,
				"error", err,
			)
			result = multierror.Append(result, fmt.Errorf(
				"course %s: %w", courseID, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return "", fmt.Errorf("error updating course access for user %s: %w", userID, err)
	}

	titles := p.catalog.ResolveTitles(courseIDs)
	idList := strings.Join(courseIDs, ",")
	if grant {
		return fmt.Sprintf("User %s added to course(s) %s (%s)", userID, titles, idList), nil
	}
	return fmt.Sprintf("User %s removed from course(s) %s (%s)", userID, titles, idList), nil
}
