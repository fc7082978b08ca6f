package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bureauram/ldgateway/pkg/platform/memory"
)

func TestParseIDSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []string
	}{
		{"single id", "5", []string{"5"}},
		{"comma list", "12,99,7", []string{"12", "99", "7"}},
		{"whitespace", " 12 , 7 ", []string{"12", "7"}},
		{"empty elements", "12,,7,", []string{"12", "7"}},
		{"empty spec", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIDSpec(tt.spec))
		})
	}
}

func TestResolveTitles(t *testing.T) {
	p := memory.NewPlatform(map[string]string{
		"12": "Intro",
		"7":  "Advanced",
	})
	c := NewCatalog(p, nil)

	// Unresolvable IDs are skipped silently, input order is preserved.
	assert.Equal(t, "Intro, Advanced", c.ResolveTitles([]string{"12", "99", "7"}))
	assert.Equal(t, "Advanced, Intro", c.ResolveTitles([]string{"7", "12"}))
	assert.Equal(t, "", c.ResolveTitles([]string{"99"}))
	assert.Equal(t, "", c.ResolveTitles(nil))
}

func TestResolveTitle(t *testing.T) {
	p := memory.NewPlatform(map[string]string{"5": "Basics"})
	c := NewCatalog(p, nil)

	title, err := c.ResolveTitle("5")
	require.NoError(t, err)
	assert.Equal(t, "Basics", title)

	_, err = c.ResolveTitle("99")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListAll(t *testing.T) {
	p := memory.NewPlatform(map[string]string{
		"10": "Ten",
		"2":  "Two",
		"7":  "Seven",
	})
	c := NewCatalog(p, nil)

	courses := c.ListAll()
	require.Len(t, courses, 3)
	assert.Equal(t, []Course{
		{ID: "2", Title: "Two"},
		{ID: "7", Title: "Seven"},
		{ID: "10", Title: "Ten"},
	}, courses)
}

func TestListAllEmptyAndInactive(t *testing.T) {
	p := memory.NewPlatform(nil)
	c := NewCatalog(p, nil)
	assert.Empty(t, c.ListAll())

	p = memory.NewPlatform(map[string]string{"5": "Basics"})
	p.SetActive(false)
	c = NewCatalog(p, nil)
	assert.Empty(t, c.ListAll())
}
