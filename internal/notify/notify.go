// Package notify composes and sends the gateway's confirmation emails: one
// template for a newly created user, one for a course granted to an existing
// user. The copy is Dutch, matching the automation service the gateway was
// built for.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Kind selects the confirmation template.
type Kind string

const (
	// KindNewUser confirms that a new user account was created and granted
	// a course.
	KindNewUser Kind = "new_user"

	// KindAddLevel confirms that an existing user was granted a course.
	KindAddLevel Kind = "add_level"
)

// Transport delivers a composed email to a set of recipients.
type Transport interface {
	Send(recipients []string, subject, htmlBody string) error
}

// Service composes confirmation emails and hands them to the transport.
// Delivery is attempted once; a failure is reported as not-sent and never
// fails the calling operation.
type Service struct {
	transport Transport
	log       hclog.Logger
}

// NewService returns a notification service over the given transport.
func NewService(transport Transport, log hclog.Logger) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{
		transport: transport,
		log:       log,
	}
}

var newUserTemplate = template.Must(template.New("new_user").Parse(`
<p>Hallo,</p>
<p>Er is zojuist een nieuwe gebruiker toegevoegd aan het leerplatform via de API:</p>
<p>Gebruiker: {{.User}}<br/>
{{- if .IncludePassword}}
Wachtwoord: {{.Password}}<br/>
{{- end}}
Level: {{.CourseLabel}}</p>
<p>Met vriendelijke groet,<br/>
LearnDash API Gateway</p>
`))

var addLevelTemplate = template.Must(template.New("add_level").Parse(`
<p>Hallo,</p>
<p>Er is zojuist een nieuwe cursus toegevoegd aan gebruiker {{.User}} via de API:</p>
<p>Gebruiker: {{.User}}<br/>
Toegevoegd level: {{.CourseLabel}}</p>
<p>Met vriendelijke groet,<br/>
LearnDash API Gateway</p>
`))

// Notify composes the confirmation email for the given kind and delivers it
// to the destination addresses. It reports whether the email was sent; a
// missing destination list or a transport failure yields false.
func (s *Service) Notify(
	kind Kind,
	user, password, courseLabel string,
	includePassword bool,
	destinations []string,
) bool {
	if len(destinations) == 0 {
		s.log.Warn("confirmation email skipped, no destination addresses configured")
		return false
	}

	subject, body, err := composeMail(kind, user, password, courseLabel, includePassword)
	if err != nil {
		s.log.Error("error composing confirmation email", "kind", kind, "error", err)
		return false
	}

	if err := s.transport.Send(destinations, subject, body); err != nil {
		s.log.Error("error sending confirmation email",
			"kind", kind,
			"recipients", len(destinations),
			"error", err,
		)
		return false
	}

	s.log.Info("sent confirmation email", "kind", kind, "recipients", len(destinations))
	return true
}

// composeMail renders the subject and HTML body for one confirmation kind.
func composeMail(kind Kind, user, password, courseLabel string, includePassword bool) (string, string, error) {
	data := struct {
		User            string
		Password        string
		CourseLabel     string
		IncludePassword bool
	}{
		User:            user,
		Password:        password,
		CourseLabel:     courseLabel,
		IncludePassword: includePassword,
	}

	var subject string
	var tmpl *template.Template
	switch kind {
	case KindNewUser:
		subject = "Nieuwe gebruiker toegevoegd aan het leerplatform"
		tmpl = newUserTemplate
	case KindAddLevel:
		subject = "Nieuwe cursus toegevoegd aan gebruiker in het leerplatform"
		tmpl = addLevelTemplate
	default:
		return "", "", fmt.Errorf("unknown notification kind: %s", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("error executing mail template: %w", err)
	}
	return subject, buf.String(), nil
}

// ParseRecipientList splits a semicolon-separated destination address list
// into an ordered list of addresses, trimming whitespace and dropping empty
// elements. The delimited form exists only in the settings store.
func ParseRecipientList(list string) []string {
	var recipients []string
	for _, part := range strings.Split(list, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		recipients = append(recipients, part)
	}
	return recipients
}
