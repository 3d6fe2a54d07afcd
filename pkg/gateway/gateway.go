// Package gateway is the connection manager of the transcription service.
// It upgrades WebSocket connections on the configured path, owns the registry
// of live client sessions, and wires each connection's audio pipeline:
// frame splitter, utterance state machine, segment merger, and transcription
// dispatcher.
package gateway

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voicegw/voicegw/pkg/asr"
	"github.com/voicegw/voicegw/pkg/dispatch"
	"github.com/voicegw/voicegw/pkg/segment"
	"github.com/voicegw/voicegw/pkg/sink"
	"github.com/voicegw/voicegw/pkg/vad"
)

const (
	DefaultWSPath          = "/ws"
	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 4096
	DefaultEventBufferSize = 100
	DefaultWriteWait       = 10 * time.Second
	DefaultPongWait        = 60 * time.Second
	DefaultPingPeriod      = 54 * time.Second // Must be less than PongWait
)

// Config holds the gateway's connection and pipeline parameters.
type Config struct {
	// Path is the WebSocket endpoint path.
	Path string

	// ReadBufferSize / WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// EventBufferSize caps the per-session outbound event channel. A
	// session that fills it is treated as a failed transport.
	EventBufferSize int

	// WriteWait, PongWait, PingPeriod control the write deadline and
	// keepalive cadence.
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration

	// SilenceTolerance is the seconds of silence that seal an utterance.
	SilenceTolerance float64

	// Merger holds the deferred-merge window parameters.
	Merger segment.MergerConfig

	// Workers bounds concurrent transcriptions per session.
	Workers int

	// EmitVADResults enables per-frame vad_result events for client-side
	// visualization.
	EmitVADResults bool

	// DefaultModel is used until the client sends a model_selection.
	DefaultModel asr.Model
}

// DefaultConfig returns the production gateway configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:             DefaultWSPath,
		ReadBufferSize:   DefaultReadBufferSize,
		WriteBufferSize:  DefaultWriteBufferSize,
		EventBufferSize:  DefaultEventBufferSize,
		WriteWait:        DefaultWriteWait,
		PongWait:         DefaultPongWait,
		PingPeriod:       DefaultPingPeriod,
		SilenceTolerance: segment.DefaultSilenceTolerance,
		Merger:           segment.DefaultMergerConfig(),
		Workers:          dispatch.DefaultWorkers,
		DefaultModel:     asr.DefaultModel,
	}
}

// DetectorFactory builds a fresh detector per session. Detectors carry
// per-stream model state, so they are never shared across sessions.
type DetectorFactory func() (vad.Detector, error)

// Gateway accepts connections and keeps the client_id → session registry,
// the only cross-session structure in the process.
type Gateway struct {
	cfg         *Config
	transcriber asr.Transcriber
	newDetector DetectorFactory
	snk         sink.Sink

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*ClientSession
}

// New creates a gateway. snk may be nil to disable segment archival.
func New(cfg *Config, tr asr.Transcriber, df DetectorFactory, snk sink.Sink) *Gateway {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Gateway{
		cfg:         cfg,
		transcriber: tr,
		newDetector: df,
		snk:         snk,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins; customize for production
			},
		},
		sessions: make(map[string]*ClientSession),
	}
}

// Register mounts the WebSocket endpoint on mux.
func (g *Gateway) Register(mux *http.ServeMux) {
	mux.HandleFunc(g.cfg.Path, g.HandleWebSocket)
}

// HandleWebSocket upgrades one connection and serves it until disconnect.
// The client may pick its id with the client_id query parameter; otherwise
// one is assigned from the wall clock.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	det, err := g.newDetector()
	if err != nil {
		log.Printf("[Gateway] detector unavailable for client %s: %v", clientID, err)
		http.Error(w, "voice activity detector unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		det.Close()
		log.Printf("[Gateway] WebSocket upgrade failed: %v", err)
		return
	}

	session := newClientSession(g.cfg, conn, clientID, det, g.transcriber, g.snk)
	session.onClose = func(s *ClientSession) {
		g.unregister(s)
	}
	g.register(session)

	session.start()
	session.readLoop()
	session.Close()
}

// GetSession returns the live session for a client id, if any.
func (g *Gateway) GetSession(clientID string) *ClientSession {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sessions[clientID]
}

// SessionCount returns the number of live sessions.
func (g *Gateway) SessionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}

// Shutdown aborts every live session and waits for their teardown to finish
// or ctx to expire.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.RLock()
	live := make([]*ClientSession, 0, len(g.sessions))
	for _, s := range g.sessions {
		live = append(live, s)
	}
	g.mu.RUnlock()

	for _, s := range live {
		s.Abort()
	}
	for _, s := range live {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (g *Gateway) register(s *ClientSession) {
	g.mu.Lock()
	old := g.sessions[s.clientID]
	g.sessions[s.clientID] = s
	g.mu.Unlock()

	if old != nil {
		// A reconnect with the same id supersedes the stale session.
		log.Printf("[Gateway] client %s reconnected, aborting stale session", s.clientID)
		old.Abort()
	}
	log.Printf("[Gateway] client %s connected", s.clientID)
}

func (g *Gateway) unregister(s *ClientSession) {
	g.mu.Lock()
	if g.sessions[s.clientID] == s {
		delete(g.sessions, s.clientID)
	}
	g.mu.Unlock()
	log.Printf("[Gateway] client %s disconnected", s.clientID)
}
