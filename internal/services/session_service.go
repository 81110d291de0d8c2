package services

import (
	"sort"
	"sync"
	"time"

	"github.com/spf13/cast"

	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/vault"
)

// OnThisDayMatch is a post published on today's month-day in an earlier year.
type OnThisDayMatch struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Year  int    `json:"year"`
	Date  string `json:"date"`
}

type SessionServiceInterface interface {
	Start()
	DailyWordCount() int
	SessionWordsWritten() int
	CheckMilestones() (int, bool)
	OnThisDay() []OnThisDayMatch
	InvalidateDaily()
}

// SessionService derives the user-facing word numbers from the status
// snapshot when one is fresh and from rough local heuristics when not.
// Milestone state lives only in memory; a restart starts a new session.
type SessionService struct {
	conf    *structures.Config
	logger  providers.Logger
	status  StatusServiceInterface
	scanner vault.ScannerInterface

	mu          sync.Mutex
	baseline    int
	baselineSet bool
	dailyCache  int
	dailyDay    string
	celebrated  int

	now func() time.Time
}

func NewSessionService(conf *structures.Config, logger providers.Logger, status StatusServiceInterface, scanner vault.ScannerInterface) SessionServiceInterface {
	return &SessionService{
		conf:    conf,
		logger:  logger,
		status:  status,
		scanner: scanner,
		now:     time.Now,
	}
}

// Start captures the session word baseline. Call once, after the first
// status refresh, so a fresh snapshot can seed an exact total.
func (s *SessionService) Start() {
	total := s.totalWords()
	s.mu.Lock()
	if !s.baselineSet {
		s.baseline = total
		s.baselineSet = true
	}
	s.mu.Unlock()
}

// totalWords is the current total across all tracked files: exact from the
// snapshot aggregate when fresh, otherwise file sizes over an average word
// length. Explicitly a rough estimate in the fallback.
func (s *SessionService) totalWords() int {
	// One Snapshot() call, then the nil check: a concurrent refresh may
	// clear the held snapshot at any point.
	if snap := s.status.Snapshot(); snap != nil && s.status.IsFresh() {
		return snap.Stats.TotalWords
	}

	files, err := s.scanner.List()
	if err != nil {
		s.logger.Warnf(providers.TypeVault, "Vault scan failed: %s", err)
		return 0
	}
	bytesPerWord := s.conf.Goals.BytesPerWord
	if bytesPerWord <= 0 {
		bytesPerWord = 6
	}
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return int(total) / bytesPerWord
}

func (s *SessionService) SessionWordsWritten() int {
	total := s.totalWords()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.baselineSet {
		s.baseline = total
		s.baselineSet = true
	}
	written := total - s.baseline
	if written < 0 {
		return 0
	}
	return written
}

// DailyWordCount sums words over files modified since local midnight,
// cached per calendar day. With a fresh snapshot the per-file exact counts
// are used; without one, non-blank body lines times a fixed multiplier.
func (s *SessionService) DailyWordCount() int {
	day := s.now().Format(dayFormat)

	s.mu.Lock()
	if s.dailyDay == day {
		cached := s.dailyCache
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	count := s.computeDaily()

	s.mu.Lock()
	s.dailyCache = count
	s.dailyDay = day
	s.mu.Unlock()
	return count
}

// InvalidateDaily drops the per-day cache so the next read recomputes. The
// vault watcher calls this after a debounced change burst.
func (s *SessionService) InvalidateDaily() {
	s.mu.Lock()
	s.dailyDay = ""
	s.mu.Unlock()
}

func (s *SessionService) computeDaily() int {
	today := s.now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)

	if snap := s.status.Snapshot(); snap != nil && s.status.IsFresh() {
		total := 0
		for _, f := range snap.Files {
			if !time.Unix(f.Modified, 0).Before(midnight) {
				total += f.WordCount
			}
		}
		return total
	}

	files, err := s.scanner.List()
	if err != nil {
		return 0
	}
	wordsPerLine := s.conf.Goals.WordsPerLine
	if wordsPerLine <= 0 {
		wordsPerLine = 8
	}
	total := 0
	for _, f := range files {
		if f.ModTime.Before(midnight) {
			continue
		}
		meta, err := s.scanner.Meta(f)
		if err != nil {
			continue
		}
		total += meta.LineCount * wordsPerLine
	}
	return total
}

// CheckMilestones fires at most one celebration per call: the highest
// uncelebrated threshold at or below the current session total. Thresholds
// at or under a fired one never re-fire within the session, even if the
// total later dips and recovers.
func (s *SessionService) CheckMilestones() (int, bool) {
	if !s.conf.Goals.CelebrationsEnabled {
		return 0, false
	}

	total := s.SessionWordsWritten()

	s.mu.Lock()
	defer s.mu.Unlock()

	best := 0
	for _, threshold := range s.conf.Goals.Milestones {
		if threshold <= total && threshold > s.celebrated && threshold > best {
			best = threshold
		}
	}
	if best == 0 {
		return 0, false
	}
	s.celebrated = best
	return best, true
}

// OnThisDay lists posts whose front-matter date lands on today's month-day
// in a prior year, ascending by year.
func (s *SessionService) OnThisDay() []OnThisDayMatch {
	files, err := s.scanner.List()
	if err != nil {
		return nil
	}

	today := s.now()
	matches := make([]OnThisDayMatch, 0)
	for _, f := range files {
		meta, err := s.scanner.Meta(f)
		if err != nil {
			continue
		}
		date, ok := noteDate(meta.FrontMatter[s.conf.Vault.DateKey])
		if !ok {
			continue
		}
		if date.Month() != today.Month() || date.Day() != today.Day() || date.Year() == today.Year() {
			continue
		}
		matches = append(matches, OnThisDayMatch{
			Path:  f.Path,
			Title: cast.ToString(meta.FrontMatter[s.conf.Vault.TitleKey]),
			Year:  date.Year(),
			Date:  date.Format(dayFormat),
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Year < matches[j].Year })
	return matches
}

// noteDate accepts the date shapes found in the wild: a decoded timestamp,
// a bare "YYYY-MM-DD" day or a full RFC 3339 string.
func noteDate(value any) (time.Time, bool) {
	if t, ok := value.(time.Time); ok {
		return t, true
	}
	raw := cast.ToString(value)
	if len(raw) >= len(dayFormat) {
		if t, err := time.ParseInLocation(dayFormat, raw[:len(dayFormat)], time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
