// Package platform defines the narrow interfaces through which the gateway
// talks to the learning platform it provisions access on. The platform owns
// courses, user accounts, and enrollments; the gateway only reads course data
// and toggles membership through these providers.
package platform

// Gateway exposes the learning platform's course and enrollment surface.
type Gateway interface {
	// IsActive reports whether the learning platform is available. All API
	// methods are rejected uniformly while it is not.
	IsActive() bool

	// ListCourseIDs returns the identifiers of all courses.
	ListCourseIDs() ([]string, error)

	// GetCourseTitle resolves a course identifier to its title. The boolean
	// reports whether the identifier maps to a valid course.
	GetCourseTitle(id string) (string, bool)

	// SetEnrollment sets the membership of a user in a course. Enrollment is
	// a pure set-membership write: enrolling an already-enrolled user or
	// removing a non-enrolled one succeeds without effect.
	SetEnrollment(userID, courseID string, enrolled bool) error
}

// User is the platform's view of an account.
type User struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
}

// UserFields carries the account fields an update may set. Nil fields are
// left untouched.
type UserFields struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
}

// IdentityStore exposes the platform's user accounts.
type IdentityStore interface {
	// FindUserIDByEmail looks up an account by email address. The boolean
	// reports whether the account exists.
	FindUserIDByEmail(email string) (string, bool)

	// FindUserIDByUsername looks up an account by login name.
	FindUserIDByUsername(username string) (string, bool)

	// GetUser retrieves an account by ID.
	GetUser(id string) (User, bool)

	// CreateUser creates an account with the given credentials and returns
	// its ID.
	CreateUser(username, email, password string) (string, error)

	// UpdateUserFields applies the non-nil fields to the account.
	UpdateUserFields(id string, fields UserFields) error
}
