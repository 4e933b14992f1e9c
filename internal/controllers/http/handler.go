package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"order-console/internal/domain"
	"order-console/internal/export"
	"order-console/internal/infra"
	"order-console/internal/orderview"
	"order-console/internal/services"
)

const (
	SessionHeader = "X-Console-Session"
	SessionCookie = "console_session"
	TokenCookie   = "accessToken"

	ctxSession = "console_session"
	ctxToken   = "console_token"

	sessionCookieMaxAge = 8 * 60 * 60
)

// Console is the order-management service behind the operator API.
type Console interface {
	View(ctx context.Context, session, token string) (orderview.View, error)
	Dispatch(ctx context.Context, session, token string, in orderview.Intent) (orderview.View, error)
	Refresh(ctx context.Context, session, token string) (orderview.View, error)
	UpdateStatus(ctx context.Context, session, token, orderID string, status domain.PaymentStatus, reason string) (orderview.View, error)
	ExportSpreadsheet(ctx context.Context, session, token string) (export.Artifact, error)
	ExportPDF(ctx context.Context, session, token string) (export.Artifact, error)
	PrintOrder(ctx context.Context, session, token, id string) (export.Artifact, error)
	ListExports(ctx context.Context, session string) ([]domain.ExportRecord, error)
}

var _ Console = (*services.OrderConsole)(nil)

type Handler struct {
	console  Console
	loginURL string
	log      *zap.Logger
}

func NewHandler(console Console, loginURL string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{console: console, loginURL: loginURL, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	admin := r.Group("/admin", h.requireOperator, h.session)
	admin.GET("/orders", h.GetView)
	admin.POST("/orders/intents", h.Dispatch)
	admin.POST("/orders/refresh", h.Refresh)
	admin.POST("/orders/:id/status", h.UpdateStatus)
	admin.GET("/orders/export.xlsx", h.ExportSpreadsheet)
	admin.GET("/orders/export.pdf", h.ExportPDF)
	admin.GET("/orders/:id/print", h.Print)
	admin.GET("/exports", h.ListExports)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireOperator sends requests without an operator credential to the
// login page before anything is fetched.
func (h *Handler) requireOperator(c *gin.Context) {
	token := ""
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if token == "" {
		token, _ = c.Cookie(TokenCookie)
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ViewResponse{
			Error:    "authentication required",
			Redirect: h.loginURL,
		})
		return
	}
	c.Set(ctxToken, token)
	c.Next()
}

func (h *Handler) session(c *gin.Context) {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id, _ = c.Cookie(SessionCookie)
	}
	if id == "" {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionCookieMaxAge, "/admin", "", false, true)
	}
	c.Header(SessionHeader, id)
	c.Set(ctxSession, id)
	c.Next()
}

func identity(c *gin.Context) (session, token string) {
	return c.GetString(ctxSession), c.GetString(ctxToken)
}

func (h *Handler) GetView(c *gin.Context) {
	session, token := identity(c)
	v, err := h.console.View(c.Request.Context(), session, token)
	h.respondView(c, v, err, "", "Tải danh sách đơn hàng thất bại")
}

func (h *Handler) Dispatch(c *gin.Context) {
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ViewResponse{Error: err.Error()})
		return
	}
	session, token := identity(c)
	v, err := h.console.Dispatch(c.Request.Context(), session, token, orderview.Intent{Type: req.Type, Value: req.Value})
	h.respondView(c, v, err, "", "Tải danh sách đơn hàng thất bại")
}

func (h *Handler) Refresh(c *gin.Context) {
	session, token := identity(c)
	v, err := h.console.Refresh(c.Request.Context(), session, token)
	h.respondView(c, v, err, "", "Tải danh sách đơn hàng thất bại")
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ViewResponse{Error: err.Error()})
			return
		}
	}
	session, token := identity(c)
	v, err := h.console.UpdateStatus(c.Request.Context(), session, token, c.Param("id"), req.Status, req.CancelReason)

	notice := "Cập nhật trạng thái thành công!"
	if req.Status == domain.StatusCancelled {
		notice = "Hủy đơn hàng thành công!"
	}
	h.respondView(c, v, err, notice, "Cập nhật thất bại")
}

func (h *Handler) ExportSpreadsheet(c *gin.Context) {
	session, token := identity(c)
	art, err := h.console.ExportSpreadsheet(c.Request.Context(), session, token)
	h.respondArtifact(c, art, err, true, "Xuất Excel thất bại")
}

func (h *Handler) ExportPDF(c *gin.Context) {
	session, token := identity(c)
	art, err := h.console.ExportPDF(c.Request.Context(), session, token)
	h.respondArtifact(c, art, err, true, "Xuất PDF thất bại")
}

func (h *Handler) Print(c *gin.Context) {
	session, token := identity(c)
	art, err := h.console.PrintOrder(c.Request.Context(), session, token, c.Param("id"))
	h.respondArtifact(c, art, err, false, "In hóa đơn thất bại")
}

func (h *Handler) ListExports(c *gin.Context) {
	session, _ := identity(c)
	records, err := h.console.ListExports(c.Request.Context(), session)
	if err != nil {
		h.log.Error("list exports failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ViewResponse{Error: "export journal unavailable"})
		return
	}
	c.JSON(http.StatusOK, ExportsResponse{Records: records})
}

func (h *Handler) respondView(c *gin.Context, v orderview.View, err error, notice, failure string) {
	if err == nil {
		c.JSON(http.StatusOK, ViewResponse{View: &v, Notification: notice})
		return
	}

	status, body := h.mapError(err, http.StatusBadGateway, failure)
	if status != http.StatusUnauthorized {
		body.View = &v
	}
	c.JSON(status, body)
}

func (h *Handler) respondArtifact(c *gin.Context, art export.Artifact, err error, download bool, failure string) {
	if err != nil {
		status, body := h.mapError(err, http.StatusInternalServerError, failure)
		c.JSON(status, body)
		return
	}
	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, art.FileName))
	c.Data(http.StatusOK, art.ContentType, art.Body)
}

// mapError turns a service error into a status and body. fallback covers
// errors with no more specific mapping.
func (h *Handler) mapError(err error, fallback int, failure string) (int, ViewResponse) {
	switch {
	case errors.Is(err, infra.ErrUnauthorized):
		return http.StatusUnauthorized, ViewResponse{Error: "authentication required", Redirect: h.loginURL}
	case errors.Is(err, orderview.ErrInvalidDateRange):
		return http.StatusUnprocessableEntity, ViewResponse{Error: orderview.DateRangeMessage}
	case errors.Is(err, orderview.ErrInvalidPageSize),
		errors.Is(err, orderview.ErrInvalidPage),
		errors.Is(err, orderview.ErrUnknownIntent),
		errors.Is(err, services.ErrStatusRequired):
		return http.StatusBadRequest, ViewResponse{Error: err.Error()}
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, infra.ErrOrderNotFound):
		return http.StatusNotFound, ViewResponse{Error: err.Error(), Notification: failure}
	case errors.Is(err, infra.ErrRemoteUnavailable):
		h.log.Warn("order service unavailable", zap.Error(err))
		return http.StatusBadGateway, ViewResponse{Error: err.Error(), Notification: failure}
	case errors.Is(err, export.ErrRenderUnavailable):
		h.log.Error("render unavailable", zap.Error(err))
		return http.StatusInternalServerError, ViewResponse{Error: err.Error(), Notification: failure + ": " + err.Error()}
	default:
		h.log.Error("request failed", zap.Error(err))
		return fallback, ViewResponse{Error: err.Error(), Notification: failure}
	}
}
