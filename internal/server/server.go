// Package server exposes recognition and remotely driven quiz sessions
// over HTTP and websockets.
package server

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/hub"
	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/recognition"
)

// Deps are what the server builds sessions from.
type Deps struct {
	Recognizer recognition.Recognizer
	Catalog    *quiz.Catalog
	Quiz       quiz.Config
	Journal    quiz.Journal
	Clock      quiz.Clock
	Logger     *slog.Logger
}

// Server is the fiber application plus its session registry.
type Server struct {
	cfg      Config
	deps     Deps
	app      *fiber.App
	sessions *registry
	logger   *slog.Logger
}

// New builds the application and registers routes.
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	log := deps.Logger.With("component", "server")

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		sessions: newRegistry(cfg.SessionTTL, log),
		logger:   log,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "edusign",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	if cfg.RequestLog {
		s.app.Use(logger.New())
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api")
	api.Post("/quiz", s.recognize)
	api.Get("/question-sets", s.questionSets)

	api.Post("/sessions", s.createSession)
	api.Get("/sessions/:id", s.getSession)
	api.Delete("/sessions/:id", s.deleteSession)
	api.Post("/sessions/:id/:action", s.sessionAction)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/sessions/:id/events", s.withSession, websocket.New(s.streamEvents))
	s.app.Get("/ws/sessions/:id/camera", s.withSession, websocket.New(s.receiveFrames))
}

// App returns the fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until Shutdown.
func (s *Server) Listen() error {
	s.logger.Info("listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops accepting requests and closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.sessions.closeAll()
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"sessions": s.sessions.count(),
	})
}

func (s *Server) questionSets(c *fiber.Ctx) error {
	return c.JSON(s.deps.Catalog.Sets())
}

// recognize proxies a capture to the configured recognizer.
func (s *Server) recognize(c *fiber.Ctx) error {
	var req recognition.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Frames) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No frames provided"})
	}

	v, err := s.deps.Recognizer.Recognize(c.UserContext(), req)
	if err != nil {
		s.logger.Warn("recognition proxy failed", "expected", req.ExpectedSign, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to process sign language recognition",
			"details": err.Error(),
		})
	}
	return c.JSON(v)
}

type createSessionRequest struct {
	QuestionSet string `json:"questionSet"`
	Learner     string `json:"learner"`
}

func (s *Server) createSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.QuestionSet == "" {
		req.QuestionSet = quiz.Numbers().Name
	}
	set, ok := s.deps.Catalog.Get(req.QuestionSet)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unknown question set: "+req.QuestionSet)
	}

	sess := s.newSession(set, req.Learner)
	s.sessions.add(sess)
	s.logger.Info("session created", "remote_session", sess.ID, "set", set.Name, "learner", req.Learner)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": sess.ID})
}

func (s *Server) newSession(set quiz.QuestionSet, learner string) *Session {
	id := newSessionID()
	src := camera.NewPushSource()
	h := hub.New(id, s.deps.Logger)
	go h.Run()

	ctrl := quiz.New(s.deps.Quiz, quiz.Deps{
		Camera:     camera.NewManager(src, s.deps.Logger),
		Recognizer: s.deps.Recognizer,
		Clock:      s.deps.Clock,
		Journal:    s.deps.Journal,
		Logger:     s.deps.Logger.With("remote_session", id),
		Renderer: func(v quiz.View) {
			if err := h.BroadcastJSON(v); err != nil {
				s.logger.Warn("failed to broadcast view", "error", err)
			}
		},
	})

	return &Session{
		ID:         id,
		Learner:    learner,
		Set:        set,
		CreatedAt:  time.Now(),
		Controller: ctrl,
		Source:     src,
		Hub:        h,
	}
}

func (s *Server) lookup(c *fiber.Ctx) (*Session, error) {
	sess, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return sess, nil
}

func (s *Server) getSession(c *fiber.Ctx) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(sess.Controller.Snapshot())
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if !s.sessions.remove(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) sessionAction(c *fiber.Ctx) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}

	ctrl := sess.Controller
	switch c.Params("action") {
	case "start":
		err = ctrl.Start(sess.Set, sess.Learner)
	case "submit":
		err = ctrl.Submit()
	case "next":
		err = ctrl.Next()
	case "restart":
		err = ctrl.Restart()
	case "cancel":
		err = ctrl.Cancel()
	default:
		return fiber.NewError(fiber.StatusNotFound, "unknown action: "+c.Params("action"))
	}

	switch {
	case errors.Is(err, quiz.ErrInvalidTransition), errors.Is(err, quiz.ErrSubmitDisabled):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, quiz.ErrClosed):
		return fiber.NewError(fiber.StatusGone, err.Error())
	case err != nil:
		return err
	}
	return c.JSON(ctrl.Snapshot())
}

// withSession resolves the session before the websocket upgrade.
func (s *Server) withSession(c *fiber.Ctx) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	c.Locals("session", sess)
	return c.Next()
}

// streamEvents sends the current view, then every rendered view.
func (s *Server) streamEvents(conn *websocket.Conn) {
	sess := conn.Locals("session").(*Session)

	client := hub.NewClient(sess.Hub, conn)
	if client == nil {
		conn.Close()
		return
	}
	if err := conn.WriteJSON(sess.Controller.Snapshot()); err != nil {
		s.logger.Debug("initial view write failed", "error", err)
	}
	client.Run()
}

// receiveFrames feeds uploaded frames to the session camera. Binary
// messages are JPEG bytes, text messages JPEG data URLs. The socket
// closing means the page lost visibility: any capture is cancelled.
func (s *Server) receiveFrames(conn *websocket.Conn) {
	sess := conn.Locals("session").(*Session)
	log := s.logger.With("remote_session", sess.ID)
	log.Debug("camera connected")

	defer func() {
		err := sess.Controller.Cancel()
		if err != nil && !errors.Is(err, quiz.ErrInvalidTransition) && !errors.Is(err, quiz.ErrClosed) {
			log.Warn("cancel on camera disconnect failed", "error", err)
		}
		log.Debug("camera disconnected", "frames", sess.Source.Pushed())
	}()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		switch mt {
		case websocket.BinaryMessage:
			err = sess.Source.PushEncoded(data)
		case websocket.TextMessage:
			var img image.Image
			if img, err = camera.DecodeDataURL(string(data)); err == nil {
				sess.Source.Push(img)
			}
		}
		if err != nil {
			log.Debug("bad camera frame", "error", err)
		}
	}
}
