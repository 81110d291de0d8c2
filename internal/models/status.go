package models

import "time"

// FileStatus is one tracked post inside the externally written status file.
type FileStatus struct {
	Path         string   `json:"path"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	PublishedURL string   `json:"published_url"`
	Warnings     []string `json:"warnings"`
	WordCount    int      `json:"word_count"`
	IsSafe       bool     `json:"is_safe"`
	Unlisted     bool     `json:"unlisted"`
	HasPassword  bool     `json:"has_password"`
	Modified     int64    `json:"modified"`
}

type StatusStats struct {
	Total      int `json:"total"`
	Drafts     int `json:"drafts"`
	Published  int `json:"published"`
	TotalWords int `json:"total_words"`
}

// StatusSnapshot mirrors .dispatch/status.json. The file is owned by the
// external Dispatch tool and is never written from this side.
type StatusSnapshot struct {
	UpdatedAt   time.Time    `json:"updated_at"`
	LastPublish string       `json:"last_publish"`
	Files       []FileStatus `json:"files"`
	Stats       StatusStats  `json:"stats"`
}

// ByPath indexes the snapshot files by their unique vault-relative path.
func (s *StatusSnapshot) ByPath() map[string]*FileStatus {
	idx := make(map[string]*FileStatus, len(s.Files))
	for i := range s.Files {
		idx[s.Files[i].Path] = &s.Files[i]
	}
	return idx
}
