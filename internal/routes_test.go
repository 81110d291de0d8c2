package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejfox/dispatch-obsidian/internal/controllers"
	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/services"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

// --- minimal mocks for routes test ---

type routeTestLogger struct{}

func (m *routeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Close()                                                  {}

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}
func (m *routeTestCache) Del(_ string)                {}

type routeTestStatus struct{}

func (m *routeTestStatus) Refresh()                          {}
func (m *routeTestStatus) IsFresh() bool                     { return false }
func (m *routeTestStatus) Snapshot() *models.StatusSnapshot  { return nil }
func (m *routeTestStatus) ComputeCounts() models.StatusStats { return models.StatusStats{} }
func (m *routeTestStatus) SummaryLabel() string              { return "" }
func (m *routeTestStatus) LastPublish() string               { return "" }
func (m *routeTestStatus) OnPublish(_ func(slug string))     {}

type routeTestQueue struct{}

func (m *routeTestQueue) MarkReady(_, _ string) error { return nil }
func (m *routeTestQueue) UnmarkReady(_ string) error  { return nil }
func (m *routeTestQueue) IsReady(_ string) bool       { return false }
func (m *routeTestQueue) Queue() models.PublishQueue  { return models.PublishQueue{} }
func (m *routeTestQueue) Persist() error              { return nil }

type routeTestStreaks struct{}

func (m *routeTestStreaks) RecordWritingDay() bool  { return false }
func (m *routeTestStreaks) RecordPublishDay() bool  { return false }
func (m *routeTestStreaks) WritingStreak() int      { return 0 }
func (m *routeTestStreaks) PublishStreak() int      { return 0 }
func (m *routeTestStreaks) Data() models.StreakData { return models.StreakData{} }
func (m *routeTestStreaks) Put(_ models.StreakData) {}

type routeTestSession struct{}

func (m *routeTestSession) Start()                               {}
func (m *routeTestSession) DailyWordCount() int                  { return 0 }
func (m *routeTestSession) SessionWordsWritten() int             { return 0 }
func (m *routeTestSession) CheckMilestones() (int, bool)         { return 0, false }
func (m *routeTestSession) OnThisDay() []services.OnThisDayMatch { return nil }
func (m *routeTestSession) InvalidateDaily()                     {}

type routeTestPosts struct{}

func (m *routeTestPosts) Create(_ string) (string, error)         { return "", nil }
func (m *routeTestPosts) ToggleVisibility(_ string) (bool, error) { return false, nil }
func (m *routeTestPosts) SetPassword(_, _ string) error           { return nil }
func (m *routeTestPosts) RandomDraft() (string, error)            { return "", nil }

func routeTestController() *controllers.ApiController {
	return controllers.NewApiController(
		&structures.Config{},
		&routeTestLogger{},
		&routeTestStatus{},
		&routeTestQueue{},
		&routeTestStreaks{},
		&routeTestSession{},
		&routeTestPosts{},
		&routeTestCache{},
	)
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	router := InitRoutes(routeTestController(), &structures.Config{})
	routes := router.GetRoutes()

	require.Len(t, routes, 11)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/status")
	assert.Contains(t, urls, "/queue")
	assert.Contains(t, urls, "/queue/mark")
	assert.Contains(t, urls, "/queue/unmark")
	assert.Contains(t, urls, "/streaks")
	assert.Contains(t, urls, "/session")
	assert.Contains(t, urls, "/onthisday")
	assert.Contains(t, urls, "/drafts/random")
	assert.Contains(t, urls, "/posts")
	assert.Contains(t, urls, "/posts/visibility")
	assert.Contains(t, urls, "/posts/password")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(routeTestController(), &structures.Config{})

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /status with POST should fail
	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /queue/mark with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/queue/mark", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
