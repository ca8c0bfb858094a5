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

// Package credential implements the first-match-wins selection algorithm
// of spec.md section 4.5.
package credential

import (
	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/resource"
)

// HasSecret reports whether a credential carries the secret material its
// owning plugin requires (e.g. GitHub requires Token, Google requires
// KeyringPassword). Credentials failing this check are skipped entirely,
// even if one of their resource patterns would otherwise match.
type HasSecret func(config.Credential) bool

// Select walks creds in declared order and, for each one satisfying
// hasSecret, walks its Resources in declared order; the first pattern
// matching resource wins. Ordering is a designed feature: callers write
// specific patterns first and "*" last.
func Select(resourceStr string, creds []config.Credential, hasSecret HasSecret) (*config.Credential, bool) {
	for i := range creds {
		cred := creds[i]
		if !hasSecret(cred) {
			continue
		}
		for _, pattern := range cred.Resources {
			if resource.Match(pattern, resourceStr) {
				return &cred, true
			}
		}
	}
	return nil, false
}
