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

// Package resource implements the credential-selection glob grammar from
// spec.md section 3: "*" matches anything, "prefix/*" matches by the
// substring before the first "/", and everything else is a case-insensitive
// shell glob.
package resource

import (
	"strings"

	"github.com/mattn/go-zglob"
)

// Match reports whether pattern matches resource under the grammar in
// spec.md section 3. Matching is always case-insensitive.
func Match(pattern, resource string) bool {
	pattern = strings.ToLower(pattern)
	resource = strings.ToLower(resource)

	if pattern == "*" {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		head, _, found := strings.Cut(resource, "/")
		if !found {
			return false
		}
		return head == prefix
	}

	ok, err := zglob.Match(pattern, resource)
	if err != nil {
		return false
	}
	return ok
}
