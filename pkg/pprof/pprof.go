// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pprof

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"sync"

	"github.com/go-arcade/permsync/pkg/log"
)

// PprofConfig holds pprof server configuration
type PprofConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// SetDefaults sets default values for PprofConfig
func (p *PprofConfig) SetDefaults() {
	if p.Host == "" {
		p.Host = "127.0.0.1"
	}
	if p.Port == 0 {
		p.Port = 6060
	}
	if p.Path == "" {
		p.Path = "/debug/pprof"
	}
}

// Server exposes runtime profiles for the long-running mode
type Server struct {
	config PprofConfig
	mu     sync.Mutex
	server *http.Server
}

func NewServer(config PprofConfig) *Server {
	config.SetDefaults()
	return &Server{config: config}
}

// Handler returns the profile routes under the configured path
func (s *Server) Handler() http.Handler {
	p := s.config.Path
	mux := http.NewServeMux()
	mux.HandleFunc(p+"/", pprof.Index)
	mux.HandleFunc(p+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(p+"/profile", pprof.Profile)
	mux.HandleFunc(p+"/symbol", pprof.Symbol)
	mux.HandleFunc(p+"/trace", pprof.Trace)
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		mux.Handle(p+"/"+name, pprof.Handler(name))
	}
	return mux
}

// Start listens in the background; it is a no-op when disabled
func (s *Server) Start() error {
	if !s.config.Enable {
		log.Debug("pprof server is disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return fmt.Errorf("pprof server already started")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		log.Infow("pprof server started", "address", addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("pprof server failed", "address", addr, "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
