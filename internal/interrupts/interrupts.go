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

// Package interrupts provides the small graceful-shutdown surface the
// teacher's server binaries (prow/cmd/hook/main.go, pkg/pjutil/health.go)
// call into: register shutdown callbacks, serve an *http.Server until
// SIGINT/SIGTERM then drain it within a grace period, and block main()
// until every registered server and callback has finished.
//
// Only the usage contract of prow's interrupts package survived retrieval
// (its own source file was not kept by the pack); this is a from-scratch
// implementation satisfying that contract.
package interrupts

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	sig  chan os.Signal

	mu        sync.Mutex
	callbacks []func()
	wg        sync.WaitGroup
)

func sigChan() chan os.Signal {
	once.Do(func() {
		sig = make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go broadcast()
	})
	return sig
}

var fired = make(chan struct{})
var fireOnce sync.Once

func broadcast() {
	<-sig
	fireOnce.Do(func() {
		close(fired)
		mu.Lock()
		cbs := append([]func(){}, callbacks...)
		mu.Unlock()
		for _, cb := range cbs {
			cb := cb
			wg.Add(1)
			go func() {
				defer wg.Done()
				cb()
			}()
		}
	})
}

// OnInterrupt registers fn to run (in its own goroutine) when the process
// receives SIGINT or SIGTERM. Safe to call from multiple goroutines during
// startup.
func OnInterrupt(fn func()) {
	sigChan()
	mu.Lock()
	callbacks = append(callbacks, fn)
	mu.Unlock()
}

// ListenAndServe runs server.ListenAndServe in the background and arranges
// for it to be gracefully shut down (within grace) when an interrupt fires.
func ListenAndServe(server *http.Server, grace time.Duration) {
	sigChan()
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("server exited with error")
		}
	}()
	OnInterrupt(func() {
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("error shutting down server")
		}
	})
}

// WaitForGracefulShutdown blocks until an interrupt has been received and
// every registered callback and server has finished.
func WaitForGracefulShutdown() {
	sigChan()
	<-fired
	wg.Wait()
}
