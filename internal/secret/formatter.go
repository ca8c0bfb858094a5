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

package secret

import (
	"sync"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
)

// CensoringFormatter wraps another logrus.Formatter and masks its output,
// mirroring how prow/github/client.go applies c.censor as a final step on
// marshaled request bytes rather than threading redaction through every
// call site.
type CensoringFormatter struct {
	Inner logrus.Formatter

	mu      sync.RWMutex
	secrets sets.Set[string]
}

// NewCensoringFormatter builds a formatter that masks secrets out of every
// formatted log line produced by inner.
func NewCensoringFormatter(inner logrus.Formatter, secrets sets.Set[string]) *CensoringFormatter {
	return &CensoringFormatter{Inner: inner, secrets: secrets}
}

// Refresh replaces the secret set the formatter masks against, for config
// reloads.
func (f *CensoringFormatter) Refresh(secrets sets.Set[string]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets = secrets
}

func (f *CensoringFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b, err := f.Inner.Format(entry)
	if err != nil {
		return b, err
	}
	f.mu.RLock()
	secrets := f.secrets
	f.mu.RUnlock()
	return []byte(Mask(string(b), secrets)), nil
}
