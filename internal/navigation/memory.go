package navigation

import (
	"net/url"
	"sync"
)

// MemoryNavigator holds the canonical location for one funnel session. The
// server is the source of truth; step views read the location back from the
// session snapshot and mirror it into the browser.
type MemoryNavigator struct {
	mu  sync.Mutex
	loc Location
}

// NewMemoryNavigator creates a navigator seeded with the given location
func NewMemoryNavigator(initial Location) *MemoryNavigator {
	if initial.Query == nil {
		initial.Query = url.Values{}
	}
	return &MemoryNavigator{loc: initial}
}

func (n *MemoryNavigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loc
}

func (n *MemoryNavigator) Replace(loc Location) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loc = loc
}
