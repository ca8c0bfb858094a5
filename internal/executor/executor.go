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

// Package executor runs the wrapped CLI subprocesses on behalf of /cli
// requests, per the contract in spec.md section 4.4: an overlay environment
// that never mutates the proxy's own environment, captured stdout/stderr,
// a hard timeout, and optional piped stdin.
//
// Grounded on pkg/git/v2/executor.go's censoringExecutor.Run: an
// exec.LookPath pre-check before spawning, and logrus debug-level logging
// of what ran and how it went.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Result is the outcome of a subprocess invocation, matching the response
// envelope in spec.md section 3. ExitCode -1 signals a proxy-observed
// failure (spawn failure or timeout); the reason is in Stderr.
type Result struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

const proxyObservedFailure = -1

// Execute launches binary with argv, overlaying env on top of the proxy's
// own environment (overlay wins on key collision), bounded by timeout, and
// optionally feeding stdin to the child before closing it.
func Execute(ctx context.Context, binary string, argv []string, env map[string]string, timeout time.Duration, stdin *string) Result {
	logger := logrus.WithFields(logrus.Fields{"binary": binary, "args": strings.Join(argv, " ")})

	if _, err := exec.LookPath(binary); err != nil {
		logger.WithError(err).Debug("binary not found")
		return Result{
			ExitCode: proxyObservedFailure,
			Stderr:   fmt.Sprintf("Command not found: %s", binary),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, argv...)
	cmd.Env = mergeEnv(os.Environ(), env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if stdin != nil {
		cmd.Stdin = strings.NewReader(*stdin)
	}

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		logger.Debug("command timed out")
		return Result{
			ExitCode: proxyObservedFailure,
			Stderr:   fmt.Sprintf("Command timed out after %ds", int(timeout.Seconds())),
		}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.WithField("exit_code", exitErr.ExitCode()).Debug("command exited non-zero")
			return Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   decodeUTF8(stdout.Bytes()),
				Stderr:   decodeUTF8(stderr.Bytes()),
			}
		}
		logger.WithError(err).Debug("command failed to run")
		return Result{
			ExitCode: proxyObservedFailure,
			Stderr:   err.Error(),
		}
	}

	logger.Debug("command succeeded")
	return Result{
		ExitCode: 0,
		Stdout:   decodeUTF8(stdout.Bytes()),
		Stderr:   decodeUTF8(stderr.Bytes()),
	}
}

// decodeUTF8 decodes b as UTF-8, substituting the replacement character for
// any invalid byte sequences, per spec.md 4.4.
func decodeUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// mergeEnv overlays overlay on top of base, with overlay winning on key
// collision. base is never mutated.
func mergeEnv(base []string, overlay map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overlay))
	merged = append(merged, base...)
	for k, v := range overlay {
		merged = append(merged, k+"="+v)
	}
	return merged
}
