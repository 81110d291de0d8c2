package controllers

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/services"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	conf    *structures.Config
	logger  providers.Logger
	status  services.StatusServiceInterface
	queue   services.QueueServiceInterface
	streaks services.StreakServiceInterface
	session services.SessionServiceInterface
	posts   services.PostServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(
	conf *structures.Config,
	logger providers.Logger,
	status services.StatusServiceInterface,
	queue services.QueueServiceInterface,
	streaks services.StreakServiceInterface,
	session services.SessionServiceInterface,
	posts services.PostServiceInterface,
	cache providers.CacheProviderInterface,
) *ApiController {
	return &ApiController{
		conf:    conf,
		logger:  logger,
		status:  status,
		queue:   queue,
		streaks: streaks,
		session: session,
		posts:   posts,
		cache:   cache,
	}
}

type statusResponse struct {
	Fresh       bool   `json:"fresh"`
	Summary     string `json:"summary"`
	Drafts      int    `json:"drafts"`
	Published   int    `json:"published"`
	TotalWords  int    `json:"total_words,omitempty"`
	LastPublish string `json:"last_publish,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type queueItem struct {
	Path string `json:"path"`
	Note string `json:"note"`
}

type queueResponse struct {
	UpdatedAt time.Time   `json:"updated_at"`
	Items     []queueItem `json:"items"`
}

type streaksResponse struct {
	WritingDays   int  `json:"writing_days"`
	PublishWeeks  int  `json:"publish_weeks"`
	TodayRecorded bool `json:"today_recorded"`
}

type sessionResponse struct {
	SessionWords int  `json:"session_words"`
	DailyWords   int  `json:"daily_words"`
	DailyGoal    int  `json:"daily_goal"`
	GoalReached  bool `json:"goal_reached"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "status", func() (any, error) {
		counts := ac.status.ComputeCounts()
		resp := statusResponse{
			Fresh:       ac.status.IsFresh(),
			Summary:     ac.status.SummaryLabel(),
			Drafts:      counts.Drafts,
			Published:   counts.Published,
			TotalWords:  counts.TotalWords,
			LastPublish: ac.status.LastPublish(),
		}
		if snap := ac.status.Snapshot(); snap != nil {
			resp.UpdatedAt = snap.UpdatedAt.Format(time.RFC3339)
		}
		return resp, nil
	})
}

func (ac *ApiController) GetQueue(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "queue", func() (any, error) {
		q := ac.queue.Queue()
		items := make([]queueItem, 0, len(q.Ready))
		for _, path := range q.Ready {
			items = append(items, queueItem{Path: path, Note: q.Notes[path]})
		}
		return queueResponse{UpdatedAt: q.UpdatedAt, Items: items}, nil
	})
}

type markRequest struct {
	Path string `json:"path"`
	Note string `json:"note"`
}

func (ac *ApiController) MarkReady(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload markRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Path == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.queue.MarkReady(payload.Path, payload.Note); err != nil {
		ac.logger.Errorf(providers.TypeDispatch, "Mark ready failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Del("queue")
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) UnmarkReady(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload markRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Path == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.queue.UnmarkReady(payload.Path); err != nil {
		ac.logger.Errorf(providers.TypeDispatch, "Unmark ready failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Del("queue")
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetStreaks(w http.ResponseWriter, r *http.Request) {
	resp := streaksResponse{
		WritingDays:  ac.streaks.WritingStreak(),
		PublishWeeks: ac.streaks.PublishStreak(),
	}
	resp.TodayRecorded = resp.WritingDays > 0
	writeJSON(w, http.StatusOK, resp)
}

func (ac *ApiController) GetSession(w http.ResponseWriter, r *http.Request) {
	daily := ac.session.DailyWordCount()
	goal := ac.conf.Goals.DailyWords
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionWords: ac.session.SessionWordsWritten(),
		DailyWords:   daily,
		DailyGoal:    goal,
		GoalReached:  goal > 0 && daily >= goal,
	})
}

func (ac *ApiController) GetOnThisDay(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "onthisday", func() (any, error) {
		return ac.session.OnThisDay(), nil
	})
}

type createPostRequest struct {
	Title string `json:"title"`
}

func (ac *ApiController) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	path, err := ac.posts.Create(payload.Title)
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, services.ErrPostExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		ac.logger.Errorf(providers.TypeVault, "Create post failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Del("status")
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

type pathRequest struct {
	Path     string `json:"path"`
	Password string `json:"password"`
}

func (ac *ApiController) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload pathRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Path == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	unlisted, err := ac.posts.ToggleVisibility(payload.Path)
	if errors.Is(err, services.ErrPostNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeVault, "Toggle visibility failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unlisted": unlisted})
}

func (ac *ApiController) SetPassword(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload pathRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Path == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err := ac.posts.SetPassword(payload.Path, payload.Password)
	if errors.Is(err, services.ErrPostNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeVault, "Set password failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetRandomDraft(w http.ResponseWriter, r *http.Request) {
	path, err := ac.posts.RandomDraft()
	if errors.Is(err, services.ErrNoDrafts) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeVault, "Random draft failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}
