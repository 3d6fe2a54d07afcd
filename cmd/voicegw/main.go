// voicegw is the real-time speech transcription gateway. Clients stream raw
// PCM over a WebSocket on /ws and receive ordered JSON events: liveness
// acknowledgements, voice-activity decisions, and per-segment transcription
// results.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voicegw/voicegw/pkg/asr"
	"github.com/voicegw/voicegw/pkg/audio"
	"github.com/voicegw/voicegw/pkg/config"
	"github.com/voicegw/voicegw/pkg/gateway"
	"github.com/voicegw/voicegw/pkg/health"
	"github.com/voicegw/voicegw/pkg/sink"
	"github.com/voicegw/voicegw/pkg/store"
	"github.com/voicegw/voicegw/pkg/trace"
	"github.com/voicegw/voicegw/pkg/vad"
)

const (
	appName    = "voicegw"
	appVersion = "0.1.0"
)

func main() {
	godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}

	ctx := context.Background()

	traceCfg := trace.DefaultConfig()
	traceCfg.ServiceName = appName
	traceCfg.ServiceVersion = appVersion
	traceCfg.ExporterType = cfg.TraceExporter
	if err := trace.Initialize(ctx, traceCfg); err != nil {
		log.Fatalf("[Main] tracing: %v", err)
	}
	defer trace.Shutdown(context.Background())

	transcriber, err := newTranscriber(cfg)
	if err != nil {
		log.Fatalf("[Main] transcriber: %v", err)
	}
	defer transcriber.Close()

	var snk sink.Sink
	if cfg.SegmentsDir != "" {
		fs, err := sink.NewFSSink(cfg.SegmentsDir)
		if err != nil {
			log.Fatalf("[Main] sink: %v", err)
		}
		snk = fs
		log.Printf("[Main] archiving segments under %s", cfg.SegmentsDir)
	}

	var db *store.DB
	if cfg.DatabaseURL != "" {
		db, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			// The gateway works without a database; only the probe
			// degrades.
			log.Printf("[Main] database unavailable: %v", err)
		} else {
			defer db.Close()
		}
	}

	gwCfg := gateway.DefaultConfig()
	gwCfg.SilenceTolerance = cfg.SilenceTolerance
	gwCfg.EmitVADResults = cfg.EmitVADResults
	gw := gateway.New(gwCfg, transcriber, newDetectorFactory(cfg), snk)

	mux := http.NewServeMux()
	gw.Register(mux)

	var pinger health.Pinger
	if db != nil {
		pinger = db
	}
	health.NewHandler(appName, appVersion, pinger).Register(mux)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	go func() {
		log.Printf("[Main] %s %s listening on %s (testing=%v)", appName, appVersion, cfg.Addr, cfg.Testing)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Main] serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Printf("[Main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] http shutdown: %v", err)
	}
	if err := gw.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] gateway shutdown: %v", err)
	}
}

// newTranscriber selects the mock in testing mode and the OpenAI provider
// otherwise.
func newTranscriber(cfg *config.Config) (asr.Transcriber, error) {
	if cfg.Testing {
		log.Printf("[Main] TESTING=true, using mock transcriber")
		return asr.NewMockTranscriber(), nil
	}
	return asr.NewOpenAITranscriber(cfg.OpenAIAPIKey, cfg.Language)
}

// newDetectorFactory builds per-session detectors: mocks in testing mode,
// Silero otherwise (requires the vad build tag).
func newDetectorFactory(cfg *config.Config) gateway.DetectorFactory {
	if cfg.Testing {
		log.Printf("[Main] TESTING=true, using mock detector")
		return func() (vad.Detector, error) {
			m := vad.NewMockDetectorWithProb(vad.DefaultMockProbability)
			m.Threshold = cfg.VADThreshold
			return m, nil
		}
	}
	return func() (vad.Detector, error) {
		return vad.NewSileroDetector(vad.DetectorConfig{
			ModelPath:  cfg.VADModelPath,
			SampleRate: audio.SampleRate,
			Threshold:  cfg.VADThreshold,
		})
	}
}
