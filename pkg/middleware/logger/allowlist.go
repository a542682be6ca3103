package logger

import (
	"strings"
	"sync"
)

var (
	skipMu    sync.RWMutex
	skipPaths = map[string]struct{}{
		"/ping":    {},
		"/metrics": {},
	}
)

// AddSkipPaths excludes paths from access logging (health checks, scrapes).
func AddSkipPaths(paths ...string) {
	skipMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			skipPaths[p] = struct{}{}
		}
	}
	skipMu.Unlock()
}

func skipAccessLog(path string) bool {
	skipMu.RLock()
	_, ok := skipPaths[path]
	skipMu.RUnlock()
	return ok
}
