package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Window exposes a monotonically growing visible slice over a locally
// cached collection, decoupled from how much has been fetched remotely.
type Window struct {
	mu          sync.Mutex
	limit       int
	page        int
	loadingMore bool
}

// NewWindow creates a window showing limit items per page, starting at page 1.
func NewWindow(limit int) *Window {
	if limit <= 0 {
		limit = 10
	}
	return &Window{limit: limit, page: 1}
}

// Visible returns how many of total items are currently visible:
// min(page*limit, total), clamped into [0, total].
func (w *Window) Visible(total int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visibleLocked(total)
}

func (w *Window) visibleLocked(total int) int {
	if total < 0 {
		total = 0
	}
	visible := w.page * w.limit
	if visible > total {
		visible = total
	}
	if visible < 0 {
		log.Warn().Int("page", w.page).Int("limit", w.limit).Int("total", total).
			Msg("pagination window out of bounds, clamping")
		visible = 0
	}
	return visible
}

// LoadMore advances the window by one page. It is a no-op when everything
// is already visible or a load is in progress.
func (w *Window) LoadMore(total int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loadingMore {
		return false
	}
	if w.visibleLocked(total) >= total {
		return false
	}
	w.loadingMore = true
	w.page++
	w.loadingMore = false
	return true
}

// HasMore reports whether items beyond the visible slice remain.
func (w *Window) HasMore(total int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visibleLocked(total) < total
}

// LoadingMore reports whether a load is in progress.
func (w *Window) LoadingMore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadingMore
}

// Reset rewinds to page 1. Called whenever the source collection is
// replaced, grown or shrunk, so the window restarts from the top.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.page = 1
}

// Page returns the current page counter.
func (w *Window) Page() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.page
}

// SetPage restores a persisted page counter, clamped to at least 1.
func (w *Window) SetPage(page int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if page < 1 {
		page = 1
	}
	w.page = page
}
