// Package memory provides in-memory platform and identity providers. They
// back the local development mode of the gateway and the test suites;
// production deployments implement the platform interfaces against a real
// learning platform.
package memory

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/bureauram/ldgateway/pkg/platform"
)

// Platform is an in-memory platform.Gateway.
type Platform struct {
	mu          sync.RWMutex
	active      bool
	courses     map[string]string          // course ID -> title
	enrollments map[string]map[string]bool // user ID -> course ID -> enrolled

	// FailEnrollment makes SetEnrollment fail for the listed course IDs,
	// for exercising partial-failure paths in tests.
	FailEnrollment map[string]bool
}

// NewPlatform returns an active platform seeded with the given courses.
func NewPlatform(courses map[string]string) *Platform {
	c := make(map[string]string, len(courses))
	for id, title := range courses {
		c[id] = title
	}
	return &Platform{
		active:      true,
		courses:     c,
		enrollments: make(map[string]map[string]bool),
	}
}

// SetActive toggles platform availability.
func (p *Platform) SetActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = active
}

func (p *Platform) IsActive() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// ListCourseIDs returns all course IDs in ascending order. Numeric
// identifiers sort numerically, everything else lexically.
func (p *Platform) ListCourseIDs() ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.courses))
	for id := range p.courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.Atoi(ids[i])
		b, bErr := strconv.Atoi(ids[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

func (p *Platform) GetCourseTitle(id string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	title, ok := p.courses[id]
	if !ok || title == "" {
		return "", false
	}
	return title, true
}

func (p *Platform) SetEnrollment(userID, courseID string, enrolled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailEnrollment[courseID] {
		return fmt.Errorf("enrollment update rejected for course %s", courseID)
	}

	if p.enrollments[userID] == nil {
		p.enrollments[userID] = make(map[string]bool)
	}
	if enrolled {
		p.enrollments[userID][courseID] = true
	} else {
		delete(p.enrollments[userID], courseID)
	}
	return nil
}

// IsEnrolled reports course membership, for test assertions.
func (p *Platform) IsEnrolled(userID, courseID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enrollments[userID][courseID]
}

// Identity is an in-memory platform.IdentityStore.
type Identity struct {
	mu     sync.RWMutex
	nextID int
	users  map[string]*platform.User // user ID -> user

	// FailUpdate makes UpdateUserFields fail, for exercising the
	// provisioning error paths in tests.
	FailUpdate bool
}

// NewIdentity returns an empty identity store.
func NewIdentity() *Identity {
	return &Identity{
		nextID: 1,
		users:  make(map[string]*platform.User),
	}
}

func (s *Identity) FindUserIDByEmail(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if email == "" {
		return "", false
	}
	for id, u := range s.users {
		if u.Email == email {
			return id, true
		}
	}
	return "", false
}

func (s *Identity) FindUserIDByUsername(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if username == "" {
		return "", false
	}
	for id, u := range s.users {
		if u.Username == username {
			return id, true
		}
	}
	return "", false
}

func (s *Identity) GetUser(id string) (platform.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return platform.User{}, false
	}
	return *u, true
}

func (s *Identity) CreateUser(username, email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextID)
	s.nextID++
	s.users[id] = &platform.User{
		ID:       id,
		Username: username,
		Email:    email,
	}
	return id, nil
}

func (s *Identity) UpdateUserFields(id string, fields platform.UserFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpdate {
		return fmt.Errorf("user update rejected for user %s", id)
	}

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	if fields.FirstName != nil {
		u.FirstName = *fields.FirstName
	}
	if fields.LastName != nil {
		u.LastName = *fields.LastName
	}
	if fields.DisplayName != nil {
		u.DisplayName = *fields.DisplayName
	}
	return nil
}

// UserCount reports the number of accounts, for test assertions.
func (s *Identity) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
