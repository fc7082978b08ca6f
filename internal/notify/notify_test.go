package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport captures sent mail for assertions and can be made to
// fail delivery.
type recordingTransport struct {
	recipients []string
	subject    string
	body       string
	fail       bool
}

func (t *recordingTransport) Send(recipients []string, subject, htmlBody string) error {
	if t.fail {
		return fmt.Errorf("delivery refused")
	}
	t.recipients = recipients
	t.subject = subject
	t.body = htmlBody
	return nil
}

func TestParseRecipientList(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []string
	}{
		{"single", "admin@example.com", []string{"admin@example.com"}},
		{"multiple", "a@x.com;b@x.com", []string{"a@x.com", "b@x.com"}},
		{"whitespace", " a@x.com ; b@x.com ", []string{"a@x.com", "b@x.com"}},
		{"empty elements", "a@x.com;;", []string{"a@x.com"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecipientList(tt.list))
		})
	}
}

func TestNotifyNewUser(t *testing.T) {
	transport := &recordingTransport{}
	svc := NewService(transport, nil)

	sent := svc.Notify(KindNewUser, "alice", "pw1", "Basics", false,
		[]string{"admin@example.com"})
	require.True(t, sent)

	assert.Equal(t, []string{"admin@example.com"}, transport.recipients)
	assert.Contains(t, transport.subject, "Nieuwe gebruiker")
	assert.Contains(t, transport.body, "alice")
	assert.Contains(t, transport.body, "Basics")
	assert.NotContains(t, transport.body, "pw1")
}

func TestNotifyNewUserIncludesPassword(t *testing.T) {
	transport := &recordingTransport{}
	svc := NewService(transport, nil)

	sent := svc.Notify(KindNewUser, "alice", "pw1", "Basics", true,
		[]string{"admin@example.com"})
	require.True(t, sent)

	assert.Contains(t, transport.body, "Wachtwoord: pw1")
}

func TestNotifyAddLevel(t *testing.T) {
	transport := &recordingTransport{}
	svc := NewService(transport, nil)

	sent := svc.Notify(KindAddLevel, "a@x.com", "pw1", "Advanced", true,
		[]string{"a@x.com", "b@x.com"})
	require.True(t, sent)

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, transport.recipients)
	assert.Contains(t, transport.subject, "cursus")
	assert.Contains(t, transport.body, "Toegevoegd level: Advanced")
	// The add-level template never carries the password.
	assert.NotContains(t, transport.body, "pw1")
}

func TestNotifyDeliveryFailure(t *testing.T) {
	transport := &recordingTransport{fail: true}
	svc := NewService(transport, nil)

	sent := svc.Notify(KindNewUser, "alice", "pw1", "Basics", false,
		[]string{"admin@example.com"})
	assert.False(t, sent)
}

func TestNotifyNoDestinations(t *testing.T) {
	transport := &recordingTransport{}
	svc := NewService(transport, nil)

	sent := svc.Notify(KindNewUser, "alice", "pw1", "Basics", false, nil)
	assert.False(t, sent)
}
