/*
Copyright 2026 The finest-grained-auth-proxy Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package httpclient holds the process-wide shared outbound HTTP client
// described in spec.md section 4.3: created once at server startup, used by
// the GraphQL, REST and health-probe callers, and torn down at shutdown.
// The git smart-HTTP proxy builds its own client with a fixed timeout. Callers that run outside of a started server (tests)
// fall back to an ad-hoc client they own and close themselves.
package httpclient

import (
	"net/http"
	"sync"
	"time"
)

var (
	mu     sync.RWMutex
	shared *http.Client
)

// Set installs the shared client, replacing any previous one. Called once
// from server bootstrap.
func Set(c *http.Client) {
	mu.Lock()
	defer mu.Unlock()
	shared = c
}

// Get returns the shared client and true, or nil and false if none has been
// installed (e.g. in a test that never calls Set).
func Get() (*http.Client, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if shared == nil {
		return nil, false
	}
	return shared, true
}

// Clear removes the shared client at shutdown.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	shared = nil
}

// GetOrNew returns the shared client if one is installed, or a fresh ad-hoc
// client with the given timeout. Use this from any component that needs an
// *http.Client and may run before/without server bootstrap (e.g. unit
// tests for a single plugin).
func GetOrNew(timeout time.Duration) *http.Client {
	if c, ok := Get(); ok {
		return c
	}
	return &http.Client{Timeout: timeout}
}
