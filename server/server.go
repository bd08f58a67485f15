// Package server provides a small compile-as-a-service HTTP layer over
// the S-ONNX compiler. It is stateless: every request compiles an
// independent source with its own AST, symbol table, and analyzer, so
// requests may be served concurrently. The only thing they share is the
// parser that package fe builds once and hands to every frontend.
package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// CompileServer serves compile requests over HTTP.
//
// server:
//   - POST /compile  - accepts model source and returns IR or diagnostics
//   - GET  /health   - liveness probe
type CompileServer struct {
	router chi.Router
}

// New creates a CompileServer with its routes mounted.
func New() CompileServer {
	cs := CompileServer{}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/compile", cs.handleCompile)
	r.Get("/health", cs.handleHealth)

	cs.router = r
	return cs
}

// ServeForever begins listening on the given address and port. If addr
// is empty, it defaults to "localhost". If port is less than 1, it
// defaults to 8080.
func (cs CompileServer) ServeForever(addr string, port int) error {
	if addr == "" {
		addr = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("INFO  serving on %s", listenAddr)
	return http.ListenAndServe(listenAddr, cs.router)
}

// ServeHTTP implements http.Handler so the server can be mounted in
// tests or larger routers.
func (cs CompileServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	cs.router.ServeHTTP(w, req)
}
