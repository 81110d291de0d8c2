package models

// StreakData holds the bounded day-level history behind the streak features.
// Both lists contain distinct "YYYY-MM-DD" strings in insertion order; the
// oldest entries are dropped once a list exceeds its cap.
type StreakData struct {
	Dates        []string `json:"dates"`
	PublishDates []string `json:"publishDates"`
}

// PluginState is the on-disk shape of everything this daemon persists for
// itself (as opposed to the shared queue file).
type PluginState struct {
	Streaks StreakData `json:"streaks"`
}
