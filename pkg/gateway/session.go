package gateway

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/voicegw/voicegw/pkg/asr"
	"github.com/voicegw/voicegw/pkg/audio"
	"github.com/voicegw/voicegw/pkg/dispatch"
	"github.com/voicegw/voicegw/pkg/gateway/events"
	"github.com/voicegw/voicegw/pkg/segment"
	"github.com/voicegw/voicegw/pkg/sink"
	"github.com/voicegw/voicegw/pkg/trace"
	"github.com/voicegw/voicegw/pkg/vad"
)

// ClientSession owns everything belonging to one live connection: the audio
// pipeline (splitter, FSM, merger, dispatcher), the chosen model, the packet
// counter, and the outbound writer.
//
// The read loop runs on the goroutine that accepted the connection and is
// the only toucher of the splitter and FSM. The merger and dispatcher are
// safe to reach from timer and worker goroutines.
type ClientSession struct {
	clientID   string
	sessionDir string
	cfg        *Config
	conn       *websocket.Conn

	detector   vad.Detector
	splitter   *audio.FrameSplitter
	fsm        *segment.StateMachine
	merger     *segment.Merger
	dispatcher *dispatch.Dispatcher

	eventChan chan events.ServerMessage

	ctx    context.Context
	cancel context.CancelFunc
	span   oteltrace.Span

	mu          sync.RWMutex
	model       asr.Model
	packetCount atomic.Uint64

	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup

	onClose func(*ClientSession)
}

// newClientSession wires the per-connection pipeline. The caller starts the
// pumps with start and drives the read loop.
func newClientSession(cfg *Config, conn *websocket.Conn, clientID string, det vad.Detector, tr asr.Transcriber, snk sink.Sink) *ClientSession {
	sctx, span := trace.StartSessionSpan(context.Background(), clientID)
	ctx, cancel := context.WithCancel(sctx)

	s := &ClientSession{
		clientID:   clientID,
		sessionDir: time.Now().Format("20060102_150405") + "_" + clientID,
		cfg:        cfg,
		conn:       conn,
		detector:   det,
		splitter:   audio.NewFrameSplitter(),
		fsm:        segment.NewStateMachine(det, cfg.SilenceTolerance),
		eventChan:  make(chan events.ServerMessage, cfg.EventBufferSize),
		ctx:        ctx,
		cancel:     cancel,
		span:       span,
		model:      cfg.DefaultModel,
		closed:     make(chan struct{}),
	}

	s.dispatcher = dispatch.New(dispatch.Config{
		ClientID:   clientID,
		SessionDir: s.sessionDir,
		Workers:    cfg.Workers,
	}, tr, snk, s.enqueue)

	s.merger = segment.NewMerger(cfg.Merger, s.onSegmentReady, s.onMergeError)

	return s
}

// ClientID returns the session's client identifier.
func (s *ClientSession) ClientID() string {
	return s.clientID
}

// SessionDir returns the per-session archive directory name.
func (s *ClientSession) SessionDir() string {
	return s.sessionDir
}

// Model returns the model future segments will be dispatched with.
func (s *ClientSession) Model() asr.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// PacketCount returns the number of binary chunks received so far.
func (s *ClientSession) PacketCount() uint64 {
	return s.packetCount.Load()
}

// Done is closed when the session has fully shut down.
func (s *ClientSession) Done() <-chan struct{} {
	return s.closed
}

// start greets the client and launches the write pump.
func (s *ClientSession) start() {
	s.enqueue(events.NewConnectionEstablished(s.clientID, s.Model()))

	s.wg.Add(1)
	go s.writePump()
}

// readLoop demuxes inbound messages until the connection fails or closes.
// Binary payloads feed the audio pipeline; text payloads are control
// messages.
func (s *ClientSession) readLoop() {
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		return nil
	})

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[Session %s] read error: %v", s.clientID, err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			s.handleAudio(data)
		case websocket.TextMessage:
			s.handleControl(data)
		}
	}
}

// handleAudio acknowledges one binary chunk and pushes it through the
// splitter and FSM. An empty chunk counts toward packet_count but produces
// no frames.
func (s *ClientSession) handleAudio(data []byte) {
	count := s.packetCount.Add(1)
	s.enqueue(events.NewAudioReceived(len(data), count))
	if count%10 == 0 {
		s.enqueue(events.NewStatistics(count))
	}

	for _, frame := range s.splitter.Push(data) {
		u, decision := s.fsm.Process(frame)
		if s.cfg.EmitVADResults {
			s.enqueue(events.NewVADResult(decision.IsSpeech, decision.Probability))
		}
		if u != nil {
			_, span := trace.StartSegmentSpan(s.ctx, u.SegmentID, u.Samples(), u.SpeechDuration())
			span.End()
			log.Printf("[Session %s] sealed segment %d (%.3fs speech, %.3fs total)",
				s.clientID, u.SegmentID, u.SpeechDuration(), u.Duration())
			s.merger.Offer(*u)
		}
	}
}

// handleControl decodes one text message. A bad message yields an error
// event; the session stays open.
func (s *ClientSession) handleControl(data []byte) {
	msg, err := events.ParseClientMessage(data)
	if err != nil {
		s.enqueue(events.NewError(err.Error()))
		return
	}

	switch m := msg.(type) {
	case *events.ModelSelection:
		s.mu.Lock()
		s.model = m.Model
		s.mu.Unlock()
		log.Printf("[Session %s] model switched to %s", s.clientID, m.Model)
		// Echo the selection; in-flight segments keep the model they were
		// dispatched with.
		s.enqueue(events.NewConnectionEstablished(s.clientID, m.Model))
	}
}

// onSegmentReady is the merger's delivery callback.
func (s *ClientSession) onSegmentReady(u segment.Utterance) error {
	return s.dispatcher.Submit(u, s.Model())
}

// onMergeError reports a merger delivery failure to the client.
func (s *ClientSession) onMergeError(err error) {
	log.Printf("[Session %s] segment merge error: %v", s.clientID, err)
	s.enqueue(events.NewSegmentMergeError(err.Error()))
}

// enqueue hands an event to the write pump. A full channel means the client
// cannot keep up; that is a transport failure and the session is aborted
// rather than silently dropping ordered events.
func (s *ClientSession) enqueue(msg events.ServerMessage) {
	select {
	case s.eventChan <- msg:
	case <-s.ctx.Done():
	default:
		log.Printf("[Session %s] event channel full, disconnecting slow client", s.clientID)
		s.Abort()
	}
}

// writePump is the single writer on the connection: outbound events plus
// keepalive pings.
func (s *ClientSession) writePump() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg := <-s.eventChan:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				log.Printf("[Session %s] write failed: %v", s.clientID, err)
				s.Abort()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Abort()
				return
			}
		}
	}
}

// Abort forces the connection closed. The read loop's exit then drives the
// full teardown in Close, so pipeline state is only ever torn down from one
// place.
func (s *ClientSession) Abort() {
	s.conn.Close()
}

// Close runs the disconnect sequence: seal any in-progress utterance, flush
// the merger synchronously so a final short segment still reaches the
// dispatcher, stop the dispatcher (unstarted tasks are cancelled, running
// calls finish and are discarded), then release the connection and detector.
// Idempotent.
func (s *ClientSession) Close() {
	s.closeOnce.Do(func() {
		log.Printf("[Session %s] closing (packets=%d)", s.clientID, s.PacketCount())

		if u := s.fsm.Drain(); u != nil {
			log.Printf("[Session %s] final segment %d sealed at disconnect", s.clientID, u.SegmentID)
			s.merger.Offer(*u)
		}
		s.merger.Close()
		s.dispatcher.Close()

		s.cancel()
		s.conn.Close()
		s.wg.Wait()

		if err := s.detector.Close(); err != nil {
			log.Printf("[Session %s] detector close: %v", s.clientID, err)
		}
		s.span.End()

		if s.onClose != nil {
			s.onClose(s)
		}
		close(s.closed)
		log.Printf("[Session %s] closed", s.clientID)
	})
}
