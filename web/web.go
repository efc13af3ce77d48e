// Package web provides an HTTP API around the validation engine.
//
// Pasted or uploaded batches are validated on demand with POST /api/validate
// and stored with POST /api/save.
// When started with a file, the server also serves the report and control
// summary of that file and, in watch mode, pushes a "reload" event to SSE
// clients whenever the file changes.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/logger"
	"github.com/fsecamp/reimburse/store"
	"github.com/fsecamp/reimburse/store/inmemory"
	"github.com/fsecamp/reimburse/telemetry"
	"github.com/fsecamp/reimburse/validation"
)

// maxBodySize bounds request bodies of /api/validate.
const maxBodySize = 10 << 20

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	WatchEnabled bool

	// User is recorded in the activity log.
	User string

	// Metadata is applied to the served file when its layout carries none.
	Metadata loader.Metadata

	// Store receives submissions posted to /api/save.
	Store store.Store

	mu       sync.RWMutex
	filename string // Absolute path of the served file
	report   *validation.Report
	loadErr  error

	// inputFile is the file path passed to New(), used only for initial loading.
	inputFile string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, filename string) *Server {
	return NewWithVersion(port, filename, "", "")
}

func NewWithVersion(port int, filename, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		inputFile:  filename,
		Store:      inmemory.New(),
		sseClients: make(map[chan string]struct{}),
	}
}

func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	if s.inputFile != "" {
		loadTimer := timer.Child(fmt.Sprintf("web.load %s", filepath.Base(s.inputFile)))
		s.reload(ctx)
		loadTimer.End()

		if s.WatchEnabled {
			if err := s.startWatcher(ctx); err != nil {
				return fmt.Errorf("failed to start file watcher: %w", err)
			}
		}
	}

	setupTimer := timer.Child("web.setup_router")
	handler := s.handler(logger.FromContext(ctx))
	setupTimer.End()

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("GET /api/report", s.handleGetReport)
	mux.HandleFunc("GET /api/summary", s.handleGetSummary)
	mux.HandleFunc("GET /api/version", s.handleGetVersion)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// handler wraps the router with request logging and panic recovery.
func (s *Server) handler(log zerolog.Logger) http.Handler {
	return recovery(log)(withLogger(log)(s.setupRouter()))
}

// reload loads and validates the served file. Load failures are kept and
// reported by /api/report rather than stopping the server.
func (s *Server) reload(ctx context.Context) {
	abs, err := filepath.Abs(s.inputFile)
	if err != nil {
		abs = s.inputFile
	}

	var report *validation.Report
	result, err := loader.New(loader.WithMetadata(s.Metadata)).Load(ctx, abs)
	if err == nil {
		report, err = validation.Validate(ctx, result.Batch, result.Bindings)
	}

	s.mu.Lock()
	s.filename = abs
	s.report = report
	s.loadErr = err
	s.mu.Unlock()

	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("file", abs).Msg("failed to load batch")
	}
}

// current returns the report of the served file and its load error.
func (s *Server) current() (string, *validation.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename, s.report, s.loadErr
}

// startWatcher watches the served file and reloads it on change.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	filename, _, _ := s.current()
	// The directory is watched so atomic replacements of the file are seen.
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	go s.runWatcher(ctx, watcher, filename)
	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, filename string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	const debounceDelay = 100 * time.Millisecond
	log := logger.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.reload(ctx)
				s.broadcast("reload")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
