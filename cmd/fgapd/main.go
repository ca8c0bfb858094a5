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

// Command fgapd is the finest-grained auth proxy server (C16): it loads the
// on-disk configuration, builds the masking logger, composes the plugin
// registry, and binds the HTTP listener, grounded on
// prow/cmd/hook/main.go's gatherOptions/main bootstrap shape.
package main

import (
	"encoding/json"
	"flag"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/httpclient"
	"github.com/delight-co/finest-grained-auth-proxy/internal/interrupts"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugins/github"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugins/google"
	"github.com/delight-co/finest-grained-auth-proxy/internal/router"
	"github.com/delight-co/finest-grained-auth-proxy/internal/secret"
)

type options struct {
	configPath  string
	host        string
	port        int
	gracePeriod time.Duration
}

func gatherOptions(fs *flag.FlagSet, args ...string) options {
	var o options
	fs.StringVar(&o.configPath, "config", "", "Path to the proxy configuration file (required).")
	fs.StringVar(&o.host, "host", "0.0.0.0", "Host to bind the HTTP listener on.")
	fs.IntVar(&o.port, "port", 0, "Port to listen on, overriding the config file's port.")
	fs.DurationVar(&o.gracePeriod, "grace-period", 10*time.Second, "On shutdown, try to finish in-flight requests for this long.")
	fs.Parse(args)
	return o
}

func (o options) validate() error {
	if o.configPath == "" {
		return errRequiredFlag("config")
	}
	return nil
}

type errRequiredFlag string

func (e errRequiredFlag) Error() string { return "missing required flag: --" + string(e) }

// loadConfig is a minimal stand-in for the lenient JSON-with-comments
// config loader spec.md section 1 names as an out-of-scope external
// collaborator; this reads strict JSON, which is the on-disk shape every
// core component (credential selection, secret collection) actually
// depends on.
func loadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	o := gatherOptions(flag.NewFlagSet(os.Args[0], flag.ExitOnError), os.Args[1:]...)
	if err := o.validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid options")
	}

	if err := config.CheckFileMode(o.configPath); err != nil {
		logrus.WithError(err).Fatal("Config file failed permission check")
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Error loading config")
	}
	if o.port != 0 {
		cfg.Port = o.port
	}

	secrets := secret.Collect(cfg)
	formatter := secret.NewCensoringFormatter(&logrus.TextFormatter{}, secrets)
	logrus.SetFormatter(formatter)

	httpclient.Set(&http.Client{Timeout: time.Duration(cfg.Timeouts.HTTPTimeoutSeconds()) * time.Second})

	registry := plugin.NewRegistry()
	if err := registry.Register(github.PluginName, github.New); err != nil {
		logrus.WithError(err).Fatal("Error registering github plugin")
	}
	if err := registry.Register(google.PluginName, google.New); err != nil {
		logrus.WithError(err).Fatal("Error registering google plugin")
	}
	plugins, err := registry.Instantiate(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Error instantiating plugins")
	}

	rt := router.New(cfg, plugins, router.AllowAll)

	defer interrupts.WaitForGracefulShutdown()

	addr := net.JoinHostPort(o.host, strconv.Itoa(cfg.Port))
	server := &http.Server{Addr: addr, Handler: rt.Mux()}

	interrupts.OnInterrupt(func() {
		httpclient.Clear()
	})

	logrus.WithField("addr", addr).Info("Starting finest-grained-auth-proxy")
	interrupts.ListenAndServe(server, o.gracePeriod)
}
