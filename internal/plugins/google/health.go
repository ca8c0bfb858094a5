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

package google

import (
	"context"
	"strings"
	"time"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/executor"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
	"github.com/delight-co/finest-grained-auth-proxy/internal/secret"
)

const (
	healthCheckTimeout = 10 * time.Second
	authListBinary     = "gog"
)

const spawnFailureExitCode = -1

// healthCheck implements spec.md 4.11's Google probe: spawn "gog auth list"
// with the keyring password (and account, if set) in the environment.
func healthCheck(cfg config.Plugin) []plugin.StatusRecord {
	records := make([]plugin.StatusRecord, 0, len(cfg.Credentials))
	for _, cred := range cfg.Credentials {
		records = append(records, probeCredential(cred))
	}
	return records
}

func probeCredential(cred config.Credential) plugin.StatusRecord {
	rec := plugin.StatusRecord{
		"masked_keyring_password": secret.MaskValue(cred.KeyringPassword, secret.DefaultMaskPrefix),
		"resources":               cred.Resources,
	}
	if cred.KeyringPassword == "" {
		rec["valid"] = false
		rec["error"] = "no keyring_password configured"
		return rec
	}

	env := map[string]string{"GOG_KEYRING_PASSWORD": cred.KeyringPassword}
	if cred.Account != "" {
		env["GOG_ACCOUNT"] = cred.Account
	}

	result := executor.Execute(context.Background(), authListBinary, []string{"auth", "list"}, env, healthCheckTimeout, nil)

	// The executor also reports a timeout as exit code -1; that case is not a
	// spawn failure and falls through to the stderr branch below.
	if result.ExitCode == spawnFailureExitCode && !strings.HasPrefix(result.Stderr, "Command timed out") {
		rec["valid"] = false
		rec["error"] = authListBinary + " not found"
		return rec
	}
	if result.ExitCode != 0 {
		rec["valid"] = false
		rec["error"] = result.Stderr
		return rec
	}

	rec["valid"] = true
	rec["accounts"] = secret.MaskEmailsInText(result.Stdout)
	return rec
}
