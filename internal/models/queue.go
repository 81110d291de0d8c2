package models

import "time"

// PublishQueue mirrors .dispatch/queue.json: the ordered set of posts marked
// ready for review plus a free-text note per path. The file is written here
// and consumed by the external Dispatch tool; last writer wins.
type PublishQueue struct {
	UpdatedAt time.Time         `json:"updated_at"`
	Ready     []string          `json:"ready"`
	Notes     map[string]string `json:"notes"`
}

func NewPublishQueue() PublishQueue {
	return PublishQueue{
		Ready: make([]string, 0),
		Notes: make(map[string]string),
	}
}

func (q *PublishQueue) Contains(path string) bool {
	for _, p := range q.Ready {
		if p == path {
			return true
		}
	}
	return false
}

// Normalize repairs a queue loaded from disk: nil slices/maps become empty
// and notes keyed by a path absent from Ready are pruned.
func (q *PublishQueue) Normalize() {
	if q.Ready == nil {
		q.Ready = make([]string, 0)
	}
	if q.Notes == nil {
		q.Notes = make(map[string]string)
		return
	}
	for path := range q.Notes {
		if !q.Contains(path) {
			delete(q.Notes, path)
		}
	}
}
