// Package api exposes one workbench session over HTTP and pushes state changes
// to websocket clients.
package api

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"

	"github.com/jo-hoe/magickpad/internal/common"
	"github.com/jo-hoe/magickpad/internal/core"
	"github.com/jo-hoe/magickpad/internal/engine"
	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/session"
	"github.com/labstack/echo/v4"
)

const (
	mimePNG         = "image/png"
	multipartField  = "files"
	subscribeBuffer = 64
)

type APIService struct {
	coreService *core.CoreService
	session     *session.Session
	hub         *Hub
}

type commandStringRequest struct {
	Command string `json:"command" validate:"max=65536"`
}

type commandArgsRequest struct {
	Args string `json:"args" validate:"required,max=65536"`
}

type previewsRequest struct {
	Show *bool `json:"show" validate:"required"`
}

func NewAPIService(coreService *core.CoreService) *APIService {
	workbench := coreService.Session()
	return &APIService{
		coreService: coreService,
		session:     workbench,
		hub:         NewHub(workbench.Snapshot),
	}
}

// Start runs the websocket hub and feeds it session updates until ctx is done.
func (s *APIService) Start(ctx context.Context) {
	updates, unsubscribe := s.session.Subscribe(subscribeBuffer)
	go s.hub.Run(ctx)
	go func() {
		defer unsubscribe()
		s.hub.Follow(ctx, updates)
	}()
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.Validator = &common.GenericEchoValidator{}

	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "magickpad is running")
	})

	e.GET("/api/state", s.stateHandler)
	e.PUT("/api/command/string", s.commandStringHandler)
	e.PUT("/api/command/args", s.commandArgsHandler)
	e.POST("/api/execute", s.executeHandler)
	e.POST("/api/files", s.uploadFilesHandler)
	e.POST("/api/files/builtin", s.builtInsHandler)
	e.PUT("/api/previews", s.previewsHandler)
	e.GET("/api/files/:name", s.inputFileHandler)
	e.GET("/api/files/:name/thumbnail", s.thumbnailHandler)
	e.GET("/api/outputs/:name", s.outputFileHandler)
	e.GET("/api/events", s.eventsHandler)
}

func (s *APIService) stateHandler(ctx echo.Context) error {
	setNoCache(ctx)
	return ctx.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *APIService) commandStringHandler(ctx echo.Context) error {
	var req commandStringRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s.session.EditCommandString(req.Command))
}

// commandArgsHandler always answers 200; a syntax error is part of the state.
func (s *APIService) commandArgsHandler(ctx echo.Context) error {
	var req commandArgsRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}
	state, err := s.session.EditCommandArgs(req.Args)
	if err != nil {
		slog.Debug("commandArgsHandler: keeping invalid argument text", "error", err)
	}
	return ctx.JSON(http.StatusOK, state)
}

func (s *APIService) executeHandler(ctx echo.Context) error {
	_, err := s.session.Execute(ctx.Request().Context())
	if err != nil {
		var engineErr *engine.EngineError
		if errors.As(err, &engineErr) {
			slog.Error("executeHandler: engine failed", "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return adapterFailure("executeHandler", err)
	}
	return ctx.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *APIService) uploadFilesHandler(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected a multipart form")
	}
	uploaded, err := files.ReadMultipart(form, multipartField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(uploaded) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files in field "+multipartField)
	}

	if err := s.session.AddFiles(ctx.Request().Context(), uploaded); err != nil {
		var adapterErr *session.AdapterError
		if errors.As(err, &adapterErr) {
			return adapterFailure("uploadFilesHandler", err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ctx.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *APIService) builtInsHandler(ctx echo.Context) error {
	if err := s.session.AddBuiltIns(ctx.Request().Context()); err != nil {
		return adapterFailure("builtInsHandler", err)
	}
	return ctx.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *APIService) previewsHandler(ctx echo.Context) error {
	var req previewsRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}
	s.session.SetShowPreviews(ctx.Request().Context(), *req.Show)
	return ctx.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *APIService) inputFileHandler(ctx echo.Context) error {
	f, err := s.coreService.InputFile(ctx.Request().Context(), pathParam(ctx, "name"))
	if err != nil {
		return fileFailure("inputFileHandler", err)
	}
	setNoCache(ctx)
	return ctx.Blob(http.StatusOK, contentType(f), f.Content)
}

func (s *APIService) outputFileHandler(ctx echo.Context) error {
	f, err := s.coreService.OutputFile(pathParam(ctx, "name"))
	if err != nil {
		return fileFailure("outputFileHandler", err)
	}
	setNoCache(ctx)
	return ctx.Blob(http.StatusOK, contentType(f), f.Content)
}

func (s *APIService) thumbnailHandler(ctx echo.Context) error {
	thumbnail, err := s.coreService.Thumbnail(ctx.Request().Context(), pathParam(ctx, "name"))
	if err != nil {
		if errors.Is(err, core.ErrFileNotFound) {
			return fileFailure("thumbnailHandler", err)
		}
		slog.Warn("thumbnailHandler: failed to render thumbnail", "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (s *APIService) eventsHandler(ctx echo.Context) error {
	if err := s.hub.serve(ctx.Response(), ctx.Request()); err != nil {
		slog.Warn("eventsHandler: websocket upgrade failed", "error", err)
		// the upgrader already wrote the error response
		return nil
	}
	return nil
}

func bindAndValidate(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	return ctx.Validate(req)
}

func adapterFailure(handler string, err error) error {
	slog.Error(handler+": adapter failed", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func fileFailure(handler string, err error) error {
	if errors.Is(err, core.ErrFileNotFound) {
		slog.Warn(handler+": file not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return adapterFailure(handler, err)
}

func pathParam(ctx echo.Context, name string) string {
	raw := ctx.Param(name)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

func contentType(f files.File) string {
	if t := mime.TypeByExtension(path.Ext(f.Name)); t != "" {
		return t
	}
	return http.DetectContentType(f.Content)
}

func setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
