package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bureauram/ldgateway/pkg/models"
)

func (env *testEnv) getLog(t *testing.T, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/log", nil)
	req.URL.RawQuery = rawQuery
	w := httptest.NewRecorder()
	AuditLogHandler(env.srv).ServeHTTP(w, req)
	return w
}

func seedAuditEntries(t *testing.T, env *testEnv, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		entry := models.AuditLogEntry{
			Request: fmt.Sprintf("request-%d", i),
			Status:  models.AuditStatusSuccess,
			Result:  fmt.Sprintf("result-%d", i),
		}
		require.NoError(t, entry.Create(env.srv.DB))
	}
}

func TestAuditLogHandler(t *testing.T) {
	env := newTestEnv(t, nil)
	seedAuditEntries(t, env, 3)

	w := env.getLog(t, "better_ld_api="+testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.AuditLogPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))

	assert.Equal(t, int64(3), page.TotalCount)
	assert.True(t, page.IsLastPage)
	require.Len(t, page.Entries, 3)
	assert.Equal(t, "request-2", page.Entries[0].Request, "newest entry first")
	assert.Equal(t, "request-0", page.Entries[2].Request)
}

func TestAuditLogHandlerPaging(t *testing.T) {
	env := newTestEnv(t, nil)
	seedAuditEntries(t, env, models.DefaultAuditLogPageSize+5)

	w := env.getLog(t, "better_ld_api="+testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	var first models.AuditLogPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&first))
	assert.Len(t, first.Entries, models.DefaultAuditLogPageSize)
	assert.False(t, first.IsLastPage)

	w = env.getLog(t, "better_ld_api="+testAPIKey+"&page=1")
	require.Equal(t, http.StatusOK, w.Code)

	var second models.AuditLogPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))
	assert.Len(t, second.Entries, 5)
	assert.True(t, second.IsLastPage)
	assert.Equal(t, "request-0", second.Entries[4].Request)
}

func TestAuditLogHandlerRejectsBadKey(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.getLog(t, "better_ld_api=wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.getLog(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditLogHandlerRejectsBadPage(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.getLog(t, "better_ld_api="+testAPIKey+"&page=banana")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.getLog(t, "better_ld_api="+testAPIKey+"&page=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogHandlerRejectsPost(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/log", nil)
	w := httptest.NewRecorder()
	AuditLogHandler(env.srv).ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
