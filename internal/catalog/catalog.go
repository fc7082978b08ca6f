// Package catalog provides a read-only view over the learning platform's
// courses: listing, and resolving identifiers to titles.
package catalog

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/bureauram/ldgateway/pkg/platform"
)

// ErrCourseNotFound is returned when a single course identifier does not map
// to a valid course.
var ErrCourseNotFound = errors.New("course not found")

// Course is one enrollable unit of the learning platform.
type Course struct {
	ID    string `json:"ID"`
	Title string `json:"title"`
}

// Catalog resolves course data through the platform gateway.
type Catalog struct {
	platform platform.Gateway
	log      hclog.Logger
}

// NewCatalog returns a catalog backed by the given platform gateway.
func NewCatalog(gw platform.Gateway, log hclog.Logger) *Catalog {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Catalog{
		platform: gw,
		log:      log,
	}
}

// ListAll returns all courses ordered by ascending identifier. An empty
// catalog or an inactive platform yields an empty slice, not an error.
func (c *Catalog) ListAll() []Course {
	if !c.platform.IsActive() {
		return []Course{}
	}

	ids, err := c.platform.ListCourseIDs()
	if err != nil {
		c.log.Error("error listing courses", "error", err)
		return []Course{}
	}

	courses := make([]Course, 0, len(ids))
	for _, id := range ids {
		title, ok := c.platform.GetCourseTitle(id)
		if !ok {
			continue
		}
		courses = append(courses, Course{ID: id, Title: title})
	}
	return courses
}

// ResolveTitle resolves a single course identifier to its title. It returns
// ErrCourseNotFound when the identifier does not map to a valid course.
func (c *Catalog) ResolveTitle(id string) (string, error) {
	title, ok := c.platform.GetCourseTitle(id)
	if !ok {
		return "", ErrCourseNotFound
	}
	return title, nil
}

// ResolveTitles resolves each identifier independently and joins the resolved
// titles with ", " in input order. Unresolvable identifiers are skipped
// silently; if none resolve the result is the empty string.
func (c *Catalog) ResolveTitles(ids []string) string {
	var titles []string
	for _, id := range ids {
		title, ok := c.platform.GetCourseTitle(id)
		if !ok {
			continue
		}
		titles = append(titles, title)
	}
	return strings.Join(titles, ", ")
}

// ParseIDSpec splits a comma-separated course identifier spec into an ordered
// list of identifiers, trimming whitespace and dropping empty elements. The
// delimited form exists only on the wire; everything past the boundary works
// with the parsed list.
func ParseIDSpec(spec string) []string {
	var ids []string
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ids = append(ids, part)
	}
	return ids
}
