// Package status serves the read-only monitoring surface: an HTML page of
// highscores, JSON endpoints and a websocket feed of rendered frames.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ledtris/internal/engine"
)

const (
	writeDeadline   = 200 * time.Millisecond
	clientBuffer    = 8
	shutdownTimeout = 5 * time.Second
)

// Scores provides the persisted top scores, best first.
type Scores interface {
	Top() []int
}

// Frames provides the last published display rows and their sequence.
type Frames interface {
	Frame() ([]uint8, uint64)
}

// Server is the status HTTP surface.
type Server struct {
	scores Scores
	frames Frames
	logger *log.Logger
	start  time.Time

	mu      sync.RWMutex
	last    engine.Snapshot
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New returns a server. frames may be nil when nothing is being rendered.
func New(scores Scores, frames Frames, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		scores:  scores,
		frames:  frames,
		logger:  logger,
		start:   time.Now(),
		clients: make(map[*client]struct{}),
	}
}

// Handler routes the status endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.HandleIndex)
	mux.HandleFunc("GET /scores", s.HandleScores)
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /ws", s.HandleFramesWS)
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status page listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>ledtris highscores</title></head>
<body>
<h1>Highscores</h1>
{{- if .Scores}}
<ol>
{{- range .Scores}}
<li>{{.}}</li>
{{- end}}
</ol>
{{- else}}
<p>no highscores recorded yet</p>
{{- end}}
</body>
</html>
`))

// HandleIndex renders the highscore page.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Scores []int }{Scores: s.scores.Top()}
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Warn("render index", "err", err)
	}
}

// HandleScores returns the top scores as a JSON array.
func (s *Server) HandleScores(w http.ResponseWriter, r *http.Request) {
	top := s.scores.Top()
	if top == nil {
		top = []int{}
	}
	writeJSON(w, top)
}

// HandleHealth reports liveness and the latest frame.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	clients := len(s.clients)
	s.mu.RUnlock()

	resp := map[string]any{
		"frame_id": last.Tick,
		"mode":     last.Mode,
		"score":    last.Score,
		"uptime_s": time.Since(s.start).Seconds(),
		"clients":  clients,
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// HandleFramesWS upgrades to a websocket that receives every published
// frame. Clients only listen; anything they send is discarded.
func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("frame client connected", "remote", r.RemoteAddr)

	go s.writePump(c)
	go func() {
		defer s.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.logger.Debug("write frame", "err", err)
			s.drop(c)
			return
		}
	}
}

// drop unregisters c and stops its writer. It is safe to call twice.
func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	_ = c.conn.Close()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.drop(c)
	}
}

// FrameMessage is the websocket payload.
type FrameMessage struct {
	FrameID uint64      `json:"frame_id"`
	Mode    engine.Mode `json:"mode"`
	Score   int         `json:"score"`
	Rows    []int       `json:"rows"` // one bitmask per row, leftmost pixel in the high bit
}

// Publish records snap and forwards the current frame to every client.
// It never blocks; a client whose buffer is full is disconnected.
func (s *Server) Publish(snap engine.Snapshot) {
	msg := FrameMessage{FrameID: snap.Tick, Mode: snap.Mode, Score: snap.Score}
	if s.frames != nil {
		rows, _ := s.frames.Frame()
		msg.Rows = make([]int, len(rows))
		for i, r := range rows {
			msg.Rows[i] = int(r)
		}
	}
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("encode frame", "err", err)
		return
	}

	var slow []*client
	s.mu.Lock()
	s.last = snap
	for c := range s.clients {
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	s.mu.Unlock()

	for _, c := range slow {
		s.logger.Debug("dropping slow frame client")
		s.drop(c)
	}
}
