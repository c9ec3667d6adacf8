package docs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hansl-tools/hanslint/pkg/lint"
)

// DevServer previews the rule reference with watch mode and live reload.
type DevServer struct {
	title      string
	pluginsDir string
	configPath string
	port       int

	mu          sync.RWMutex
	currentHTML []byte

	clients   map[chan struct{}]struct{}
	clientsMu sync.Mutex
}

// NewDevServer creates a development server for the rule reference.
// pluginsDir and configPath may be empty when the project has no custom
// rules or no hanslint.yaml.
func NewDevServer(title, pluginsDir, configPath string, port int) *DevServer {
	return &DevServer{
		title:      title,
		pluginsDir: pluginsDir,
		configPath: configPath,
		port:       port,
		clients:    make(map[chan struct{}]struct{}),
	}
}

// Serve starts the development server with watch mode.
func (s *DevServer) Serve(ctx context.Context) error {
	// Initial build
	if err := s.rebuild(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if s.pluginsDir != "" {
		// A project without custom rules has no directory to watch yet.
		if err := s.watchDir(watcher, s.pluginsDir); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch custom rules dir: %w", err)
		}
	}
	if s.configPath != "" {
		// Editors replace files on save, so watch the directory and
		// filter events down to the config file itself.
		if err := watcher.Add(filepath.Dir(s.configPath)); err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
	}

	go s.watchLoop(ctx, watcher)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/__reload", s.handleSSE)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown gracefully
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Rule reference running at http://localhost:%d", s.port)
	if s.pluginsDir != "" || s.configPath != "" {
		log.Printf("Watching for changes in:")
		if s.pluginsDir != "" {
			log.Printf("  - %s (custom rules)", s.pluginsDir)
		}
		if s.configPath != "" {
			log.Printf("  - %s (config)", s.configPath)
		}
	}
	log.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// watchDir recursively adds a directory to the watcher.
func (s *DevServer) watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// watchLoop handles file system events.
func (s *DevServer) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(event) {
				continue
			}

			// Debounce rebuilds
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				log.Printf("Change detected: %s", filepath.Base(event.Name))
				if err := s.rebuild(); err != nil {
					log.Printf("Rebuild error: %v", err)
				} else {
					s.notifyClients()
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// relevant reports whether an event should trigger a rebuild. Removals
// and renames count so a deleted custom rule drops out of the preview.
func (s *DevServer) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Ext(event.Name) == ".star" {
		return true
	}
	return s.configPath != "" && filepath.Clean(event.Name) == filepath.Clean(s.configPath)
}

// rebuild regenerates the preview HTML.
func (s *DevServer) rebuild() error {
	gen := NewGenerator(s.title)

	// A broken rule file is the normal state mid-edit; render the error
	// on the page instead of going stale.
	var loadErr string
	if s.pluginsDir != "" {
		if err := gen.LoadPlugins(s.pluginsDir); err != nil {
			loadErr = err.Error()
		}
	}

	tmpl, err := template.New("rules").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	data := templateData{
		Title:       s.title,
		GeneratedAt: time.Now().Format("15:04:05"),
		RuleCount:   len(gen.Rules()),
		LoadError:   loadErr,
		Groups:      groupRules(gen.Rules()),
		ReloadJS:    template.JS(liveReloadScript), //nolint:gosec // G203: script is a compile-time constant
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	s.mu.Lock()
	s.currentHTML = buf.Bytes()
	s.mu.Unlock()
	return nil
}

// handleIndex serves the current HTML.
func (s *DevServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	html := s.currentHTML
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	_, _ = w.Write(html)
}

// handleSSE handles Server-Sent Events for live reload.
func (s *DevServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	ch := make(chan struct{}, 1)
	s.clientsMu.Lock()
	s.clients[ch] = struct{}{}
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, ch)
		s.clientsMu.Unlock()
		close(ch)
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			_, _ = fmt.Fprintf(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

// notifyClients sends a reload signal to all connected clients.
func (s *DevServer) notifyClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for ch := range s.clients {
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, skip
		}
	}
}

// templateData feeds the preview page template.
type templateData struct {
	Title       string
	GeneratedAt string
	RuleCount   int
	LoadError   string
	Groups      []templateGroup
	ReloadJS    template.JS
}

type templateGroup struct {
	Name  string
	Rules []lint.RuleInfo
}

// groupRules buckets rules by group, groups sorted by name.
func groupRules(rules []lint.RuleInfo) []templateGroup {
	byGroup := make(map[string][]lint.RuleInfo)
	var names []string
	for _, info := range rules {
		if _, ok := byGroup[info.Group]; !ok {
			names = append(names, info.Group)
		}
		byGroup[info.Group] = append(byGroup[info.Group], info)
	}
	sort.Strings(names)

	groups := make([]templateGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, templateGroup{Name: name, Rules: byGroup[name]})
	}
	return groups
}

// liveReloadScript is injected into the page for dev mode.
const liveReloadScript = `
;(function() {
  var es = new EventSource('/__reload');
  es.onmessage = function(e) {
    if (e.data === 'reload') {
      console.log('[dev] Reloading...');
      window.location.reload();
    }
  };
  es.onerror = function() {
    console.log('[dev] Connection lost, reconnecting...');
    setTimeout(function() { window.location.reload(); }, 1000);
  };
})();
`

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #0f1115; --panel: #161a22; --border: #242a35; --text: #e2e6ec;
    --muted: #8b949e; --error: #f85149; --warning: #d29922; --info: #58a6ff;
    --hint: #8b949e; --good: #3fb950;
  }
  * { box-sizing: border-box; }
  body { margin: 0; padding: 2rem; background: var(--bg); color: var(--text);
         font: 15px/1.5 system-ui, sans-serif; max-width: 60rem; margin-inline: auto; }
  h1 { margin: 0 0 0.25rem; font-size: 1.5rem; }
  h2 { margin: 2rem 0 0.75rem; font-size: 1.1rem; text-transform: capitalize;
       border-bottom: 1px solid var(--border); padding-bottom: 0.4rem; }
  .meta { color: var(--muted); font-size: 0.85rem; margin: 0 0 1rem; }
  .load-error { background: rgba(248, 81, 73, 0.12); border: 1px solid var(--error);
                border-radius: 6px; padding: 0.6rem 0.9rem; margin: 1rem 0;
                font-family: ui-monospace, monospace; font-size: 0.85rem; }
  .rule { background: var(--panel); border: 1px solid var(--border); border-radius: 8px;
          padding: 1rem 1.25rem; margin-bottom: 0.75rem; }
  .rule h3 { margin: 0 0 0.5rem; font-size: 1rem; display: flex; align-items: center; gap: 0.5rem; }
  .rule h3 code { color: var(--info); }
  .rule p { margin: 0.4rem 0; }
  .why { color: var(--muted); font-size: 0.9rem; }
  .rule h4 { margin: 0.75rem 0 0.25rem; font-size: 0.8rem; text-transform: uppercase;
             letter-spacing: 0.05em; color: var(--muted); }
  pre { background: var(--bg); border: 1px solid var(--border); border-radius: 6px;
        padding: 0.6rem 0.9rem; overflow-x: auto; font-size: 0.85rem; margin: 0.25rem 0; }
  .badge { font-size: 0.7rem; padding: 0.1rem 0.5rem; border-radius: 999px;
           text-transform: uppercase; letter-spacing: 0.05em; }
  .badge-error { background: rgba(248, 81, 73, 0.15); color: var(--error); }
  .badge-warning { background: rgba(210, 153, 34, 0.15); color: var(--warning); }
  .badge-info { background: rgba(88, 166, 255, 0.15); color: var(--info); }
  .badge-hint { background: rgba(139, 148, 158, 0.15); color: var(--hint); }
  .kind { color: var(--muted); font-size: 0.75rem; margin-left: auto; }
  .options code { background: var(--bg); border: 1px solid var(--border);
                  border-radius: 4px; padding: 0 0.3rem; font-size: 0.85rem; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">{{.RuleCount}} rules, rendered at {{.GeneratedAt}}</p>
</header>
{{if .LoadError}}<div class="load-error">custom rules failed to load: {{.LoadError}}</div>{{end}}
{{range .Groups}}
<section>
  <h2>{{.Name}}</h2>
  {{range .Rules}}
  <article class="rule" id="{{.ID}}">
    <h3><code>{{.ID}}</code> {{.Name}}
      <span class="badge badge-{{.DefaultSeverity}}">{{.DefaultSeverity}}</span>
      <span class="kind">{{.Type}}</span>
    </h3>
    <p>{{.Description}}</p>
    {{if .Rationale}}<p class="why">{{.Rationale}}</p>{{end}}
    {{if .BadExample}}<h4>Bad</h4><pre>{{.BadExample}}</pre>{{end}}
    {{if .GoodExample}}<h4>Good</h4><pre>{{.GoodExample}}</pre>{{end}}
    {{if .Fix}}<h4>Fix</h4><p>{{.Fix}}</p>{{end}}
    {{if .ConfigKeys}}<p class="options">Options: {{range .ConfigKeys}}<code>{{.}}</code> {{end}}</p>{{end}}
  </article>
  {{end}}
</section>
{{end}}
<script>{{.ReloadJS}}</script>
</body>
</html>
`

// ServeDev runs the preview server until interrupted.
func ServeDev(title, pluginsDir, configPath string, port int) error {
	server := NewDevServer(title, pluginsDir, configPath, port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nShutting down...")
		cancel()
	}()

	return server.Serve(ctx)
}
