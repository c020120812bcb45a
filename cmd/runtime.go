package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/camera/webcam"
	"github.com/edusign/edusign/internal/config"
	"github.com/edusign/edusign/internal/emitter"
	"github.com/edusign/edusign/internal/llm"
	"github.com/edusign/edusign/internal/logging"
	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/recognition"
	"github.com/edusign/edusign/internal/store"
)

// runtime holds the collaborators shared by the TUI and the server.
type runtime struct {
	cfg        *config.Config
	store      *store.Store
	logger     *slog.Logger
	recognizer recognition.Recognizer
	journal    quiz.Journal
	catalog    *quiz.Catalog
	mqtt       *emitter.MQTT
}

// newRuntime loads the config, opens the journal database and builds the
// recognizer. Logs go to w.
func newRuntime(cmd *cobra.Command, w io.Writer) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.Init(cfg.Log, w)

	st, err := openStore(cmd, cfg)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, store: st, logger: logger}

	if err := rt.init(cmd.Context()); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repo := rt.store.EventRepo()

	catalog, err := quiz.NewCatalog(rt.cfg.QuestionSets...)
	if err != nil {
		return fmt.Errorf("load question sets: %w", err)
	}
	rt.catalog = catalog

	var provider llm.Provider
	if rt.cfg.Recognition.Backend == "vision" {
		provider, err = llm.NewProvider(ctx, rt.cfg.LLM, repo, rt.logger)
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}
	}
	rt.recognizer, err = recognition.New(rt.cfg.Recognition, provider, repo, rt.logger)
	if err != nil {
		return fmt.Errorf("create recognizer: %w", err)
	}

	journals := quiz.MultiJournal{quiz.NewStoreJournal(repo, rt.logger)}
	if rt.cfg.MQTT.Enabled {
		rt.mqtt = emitter.New(rt.cfg.MQTT, rt.logger)
		if err := rt.mqtt.Connect(ctx); err != nil {
			// The broker is optional; sessions still reach the database.
			rt.logger.Warn("mqtt unavailable, events will only be stored", "error", err)
		}
		journals = append(journals, rt.mqtt)
	}
	rt.journal = journals
	return nil
}

// cameraSource returns the configured terminal camera.
func (rt *runtime) cameraSource() camera.Source {
	switch rt.cfg.Camera.Source {
	case config.CameraPattern:
		return camera.PatternSource{Width: 320, Height: 240}
	case config.CameraDir:
		return camera.DirSource{Dir: rt.cfg.Camera.Dir}
	default:
		return webcam.New(rt.cfg.Camera.Webcam)
	}
}

// newController builds a controller with its own camera manager.
func (rt *runtime) newController(render quiz.Renderer) *quiz.Controller {
	return quiz.New(rt.cfg.Quiz, quiz.Deps{
		Camera:     camera.NewManager(rt.cameraSource(), rt.logger),
		Recognizer: rt.recognizer,
		Renderer:   render,
		Journal:    rt.journal,
		Logger:     rt.logger,
	})
}

// encoder matches the controller's frame encoding.
func (rt *runtime) encoder() camera.Encoder {
	return camera.Encoder{Scale: rt.cfg.Quiz.FrameScale, Quality: rt.cfg.Quiz.FrameQuality}
}

func (rt *runtime) Close() {
	if rt.mqtt != nil {
		rt.mqtt.Disconnect()
	}
	if rt.store != nil {
		rt.store.Close()
	}
}
