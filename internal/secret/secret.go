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

// Package secret implements the masking log subsystem from spec.md
// section 4.2: collecting secret values out of the loaded configuration and
// substituting them (and email local-parts) with "***" wherever logged.
package secret

import (
	"encoding/json"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// secretTag is the struct tag that marks a config field as secret material.
// internal/config's Credential type tags token/keyring_password this way;
// any named struct field wishing to be masked must do the same. Fields that
// survive only as raw JSON are matched by key name against jsonSecretKeys
// instead (see spec.md's design note on "Secret collection via key name" —
// both are the same structural heuristic: a fixed, documented marker, not
// semantic secret-detection).
const secretTag = "secret"

// jsonSecretKeys is the fallback allow-list for values that arrive as
// untyped map[string]interface{} (e.g. a plugin's RawConfig re-decoded),
// matching spec.md section 3's literal key set.
var jsonSecretKeys = sets.New[string]("token", "keyring_password", "client_secret", "refresh_token", "password")

// Collect recursively walks cfg (a config.Config, or any value reachable
// from it) and returns the set of non-empty secret values found either via
// the `secret:"true"` struct tag or, for untyped JSON-shaped values, the
// jsonSecretKeys allow-list.
func Collect(cfg interface{}) sets.Set[string] {
	out := sets.New[string]()
	collect(reflect.ValueOf(cfg), out)
	return out
}

func collect(v reflect.Value, out sets.Set[string]) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return
		}
		collect(v.Elem(), out)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fv := v.Field(i)
			if field.Tag.Get(secretTag) == "true" && fv.Kind() == reflect.String {
				addNonEmpty(out, fv.String())
				continue
			}
			collect(fv, out)
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			mv := v.MapIndex(key)
			if key.Kind() == reflect.String && jsonSecretKeys.Has(key.String()) {
				if mv.Kind() == reflect.Interface {
					mv = mv.Elem()
				}
				if mv.Kind() == reflect.String {
					addNonEmpty(out, mv.String())
					continue
				}
			}
			collect(mv, out)
		}
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			// config.Plugin.RawConfig and config.Credential.Raw carry
			// unmodeled fields as json.RawMessage; re-parse them generically
			// instead of walking them byte-by-byte so jsonSecretKeys still
			// finds fields like client_secret/refresh_token/password that
			// have no named Go struct field.
			collectRawJSON(v.Bytes(), out)
			return
		}
		for i := 0; i < v.Len(); i++ {
			collect(v.Index(i), out)
		}
	default:
		// scalars other than strings under a secret tag are not secrets.
	}
}

// collectRawJSON unmarshals raw JSON bytes into a generic interface{} tree
// and walks it with collect, so the jsonSecretKeys allow-list applies to
// fields that survive only as json.RawMessage, not a named struct field.
func collectRawJSON(data []byte, out sets.Set[string]) {
	if len(data) == 0 {
		return
	}
	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return
	}
	collect(reflect.ValueOf(parsed), out)
}

func addNonEmpty(out sets.Set[string], s string) {
	if s != "" {
		out.Insert(s)
	}
}

// Mask replaces every non-overlapping occurrence of each secret in secrets
// with "***". Secrets are applied longest-first so that a short secret
// can't partially consume and corrupt a longer one's occurrence.
func Mask(text string, secrets sets.Set[string]) string {
	if len(secrets) == 0 {
		return text
	}
	ordered := secrets.UnsortedList()
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })
	for _, s := range ordered {
		if s == "" {
			continue
		}
		text = strings.ReplaceAll(text, s, "***")
	}
	return text
}

// MaskValue returns the first prefix characters of v followed by "***", or
// just "***" if v is no longer than prefix.
func MaskValue(v string, prefix int) string {
	if len(v) <= prefix {
		return "***"
	}
	return v[:prefix] + "***"
}

// DefaultMaskPrefix is the prefix length spec.md 4.2 names as the default
// for mask_value.
const DefaultMaskPrefix = 8

// MaskEmail masks the local part of an email address, leaving the domain
// verbatim. Strings without an "@" are returned unchanged.
func MaskEmail(addr string) string {
	local, domain, found := strings.Cut(addr, "@")
	if !found {
		return addr
	}
	if len([]rune(local)) <= 2 {
		return "***@" + domain
	}
	runes := []rune(local)
	return string(runes[:2]) + "***@" + domain
}

// emailPattern matches simple email-shaped substrings for MaskEmailsInText.
// It intentionally accepts a slightly loose local-part/domain grammar since
// its job is redaction, not RFC 5322 validation: false positives mask a
// little too much, false negatives leak an address.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// MaskEmailsInText applies MaskEmail to every email-like substring of text.
func MaskEmailsInText(text string) string {
	return emailPattern.ReplaceAllStringFunc(text, MaskEmail)
}
