package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
	appwebsocket "maintenance-system/pkg/websocket"
)

type WebSocketController struct {
	hub           *appwebsocket.Hub
	sessions      middleware.SessionResolver
	searchService services.SearchServiceInterface
	upgrader      websocket.Upgrader
	timeout       time.Duration
	logger        *zap.Logger

	// dispatch runs one search; searches run concurrently so a slow query
	// does not hold back the newer ones behind it.
	dispatch func(func())
}

func NewWebSocketController(
	hub *appwebsocket.Hub,
	sessions middleware.SessionResolver,
	searchService services.SearchServiceInterface,
	allowedOrigins []string,
	timeout time.Duration,
	logger *zap.Logger,
) *WebSocketController {
	return &WebSocketController{
		hub:           hub,
		sessions:      sessions,
		searchService: searchService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		timeout:  timeout,
		logger:   logger,
		dispatch: func(fn func()) { go fn() },
	}
}

// ServeWs handles GET /api/ws. It runs behind the auth middleware, which
// accepts the token from the query string for browsers.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", zap.Uint64("userID", userID), zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, userID, c.handleMessage, c.logger)
	c.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("websocket client connected", zap.Uint64("userID", userID), zap.String("connID", client.ID))
	return nil
}

func (c *WebSocketController) errorEnvelope(client *appwebsocket.Client, seq uint64, err error) appwebsocket.Envelope {
	msg := err.Error()
	if utils.StatusFor(err) >= http.StatusInternalServerError {
		c.logger.Error("websocket search failed", zap.String("connID", client.ID), zap.Error(err))
		msg = http.StatusText(http.StatusInternalServerError)
	}
	return appwebsocket.Envelope{
		Type:  appwebsocket.TypeError,
		Seq:   seq,
		Error: msg,
	}
}

func (c *WebSocketController) sendError(client *appwebsocket.Client, seq uint64, err error) {
	_ = c.hub.SendToClient(client, c.errorEnvelope(client, seq, err))
}

func (c *WebSocketController) handleMessage(client *appwebsocket.Client, raw []byte) {
	var req dto.WSSearchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError(client, 0, apperrors.ErrBadRequest)
		return
	}
	if req.Type != dto.WSTypeSearch {
		c.sendError(client, req.Seq, apperrors.ErrBadRequest)
		return
	}
	if req.Seq == 0 {
		c.sendError(client, 0, apperrors.NewBadRequestError("seq must be positive"))
		return
	}
	tag, ok := authz.EntityForPath(req.Entity)
	if !ok {
		c.sendError(client, req.Seq, apperrors.ErrUnknownEntity)
		return
	}

	c.dispatch(func() { c.runSearch(client, req, tag) })
}

// runSearch answers one request. The answer is dropped when a response to a
// newer request has already been sent on this connection.
func (c *WebSocketController) runSearch(client *appwebsocket.Client, req dto.WSSearchRequest, tag entities.PermissionEntity) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	page, err := c.search(ctx, client.UserID, req, tag)

	env := appwebsocket.Envelope{
		Type:    appwebsocket.TypeSearchResult,
		Seq:     req.Seq,
		Payload: page,
	}
	if err != nil {
		env = c.errorEnvelope(client, req.Seq, err)
	}
	sent, err := c.hub.SendSequenced(client, req.Seq, env)
	if err != nil {
		c.logger.Error("websocket response encoding failed", zap.String("connID", client.ID), zap.Error(err))
		return
	}
	if !sent {
		c.logger.Debug("stale search response dropped", zap.String("connID", client.ID), zap.Uint64("seq", req.Seq))
	}
}

func (c *WebSocketController) search(ctx context.Context, userID uint64, req dto.WSSearchRequest, tag entities.PermissionEntity) (*dto.PaginatedResponse, error) {
	// Permissions may change while the socket is open, so the session is
	// resolved per request.
	session, err := c.sessions.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Query != nil {
		return c.searchService.QuickSearch(ctx, session, tag, *req.Query)
	}
	criteria := types.DefaultCriteria()
	if req.Criteria != nil {
		criteria = *req.Criteria
	}
	return c.searchService.Search(ctx, session, tag, criteria)
}
