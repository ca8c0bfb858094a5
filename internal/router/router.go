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

// Package router implements the request pipeline of spec.md 4.1 (C8): the
// three core HTTP endpoints plus whatever extra routes plugins contribute,
// grounded on prow/cmd/hook/main.go's http.ServeMux composition and
// pkg/pjutil/health.go's liveness handler shape.
package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/executor"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// PolicyHook evaluates whether a request may proceed. The default
// implementation (AllowAll) always returns true; spec.md 4.1 step 4 names
// this a concrete extension point out of scope for this system.
type PolicyHook func(tool, firstArg, resource string, cfg *config.Config) bool

// AllowAll is the default policy hook.
func AllowAll(tool, firstArg, resource string, cfg *config.Config) bool { return true }

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fgap_cli_requests_total",
		Help: "Total /cli requests by tool and terminal status.",
	}, []string{"tool", "status"})
	rejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fgap_cli_rejections_total",
		Help: "Total /cli requests rejected before dispatch, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(requestsTotal, rejectionsTotal)
}

// Router owns the configured plugin set and composes the HTTP surface.
type Router struct {
	cfg        *config.Config
	plugins    map[string]plugin.Plugin
	toolIndex  map[string]plugin.Plugin
	policyHook PolicyHook
}

// New builds a Router over an already-instantiated plugin set, indexing
// plugins by every tool name they declare (spec.md 4.1 step 3).
func New(cfg *config.Config, plugins map[string]plugin.Plugin, policyHook PolicyHook) *Router {
	if policyHook == nil {
		policyHook = AllowAll
	}
	toolIndex := make(map[string]plugin.Plugin)
	for _, p := range plugins {
		for _, tool := range p.Tools() {
			toolIndex[tool] = p
		}
	}
	return &Router{cfg: cfg, plugins: plugins, toolIndex: toolIndex, policyHook: policyHook}
}

// Mux builds the http.ServeMux covering /cli, /health, /auth/status and
// every plugin-contributed route.
func (rt *Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /cli", rt.handleCLI)
	mux.HandleFunc("GET /health", rt.handleHealth)
	mux.HandleFunc("GET /auth/status", rt.handleAuthStatus)

	for name, p := range rt.plugins {
		rp, ok := p.(plugin.RouteProvider)
		if !ok {
			continue
		}
		pluginCfg := rt.cfg.Plugins[name]
		for _, route := range rp.Routes(pluginCfg) {
			mux.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
		}
	}
	return mux
}

// cliRequest is the /cli request envelope of spec.md section 3.
type cliRequest struct {
	Tool      string   `json:"tool"`
	Args      []string `json:"args"`
	Resource  string   `json:"resource"`
	StdinData *string  `json:"stdin_data,omitempty"`
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	out := map[string][]plugin.StatusRecord{}
	for name, p := range rt.plugins {
		hp, ok := p.(plugin.HealthProvider)
		if !ok {
			continue
		}
		out[name] = hp.HealthCheck(rt.cfg.Plugins[name])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"plugins": out})
}

func (rt *Router) handleCLI(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	var req cliRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.reject(w, requestID, "", "", "", http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Tool == "" {
		rt.reject(w, requestID, req.Tool, firstArg(req.Args), req.Resource, http.StatusBadRequest, "missing field: tool")
		return
	}
	if req.Resource == "" {
		rt.reject(w, requestID, req.Tool, firstArg(req.Args), req.Resource, http.StatusBadRequest, "missing field: resource")
		return
	}

	p, ok := rt.toolIndex[req.Tool]
	if !ok {
		rt.reject(w, requestID, req.Tool, firstArg(req.Args), req.Resource, http.StatusBadRequest, "No plugin handles tool: "+req.Tool)
		return
	}

	if !rt.policyHook(req.Tool, firstArg(req.Args), req.Resource, rt.cfg) {
		rt.reject(w, requestID, req.Tool, firstArg(req.Args), req.Resource, http.StatusForbidden, "Policy denied")
		return
	}

	cred, ok := p.SelectCredential(req.Resource, rt.cfg.Plugins[p.Name()])
	if !ok {
		rt.reject(w, requestID, req.Tool, firstArg(req.Args), req.Resource, http.StatusForbidden, "No credential for "+req.Tool+" on "+req.Resource)
		return
	}

	if cp, ok := p.(plugin.CommandProvider); ok && len(req.Args) > 0 {
		if handler, ok := cp.Commands()[req.Args[0]]; ok {
			result := handler(req.Args[1:], req.Resource, cred)
			if result.Handled {
				rt.audit(requestID, req.Tool, req.Resource, req.Args[0], result.Result.ExitCode)
				writeJSON(w, http.StatusOK, result.Result)
				return
			}
		}
	}

	timeout := time.Duration(rt.cfg.Timeouts.CLITimeoutSeconds()) * time.Second
	result := executor.Execute(r.Context(), req.Tool, req.Args, cred.Env, timeout, req.StdinData)
	rt.audit(requestID, req.Tool, req.Resource, firstArg(req.Args), result.ExitCode)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) reject(w http.ResponseWriter, requestID, tool, cmd, resource string, status int, reason string) {
	rejectionsTotal.WithLabelValues(reason).Inc()
	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"tool":       tool,
		"resource":   resource,
		"cmd":        cmd,
	}).Warnf("cli tool=%s resource=%s cmd=%s rejected=%d %s", tool, resource, cmd, status, reason)
	writeJSON(w, status, map[string]string{"error": reason})
}

func (rt *Router) audit(requestID, tool, resource, cmd string, exitCode int) {
	requestsTotal.WithLabelValues(tool, statusLabel(exitCode)).Inc()
	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"tool":       tool,
		"resource":   resource,
		"cmd":        cmd,
		"exit_code":  exitCode,
	}).Infof("cli tool=%s resource=%s cmd=%s exit_code=%d", tool, resource, cmd, exitCode)
}

func statusLabel(exitCode int) string {
	if exitCode == 0 {
		return "ok"
	}
	return "error"
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
