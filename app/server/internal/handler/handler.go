package handler

import (
	"errors"
	"net/http"

	"github.com/egallis31/unifi-network-mcp/pkg/logger"
	"github.com/egallis31/unifi-network-mcp/pkg/unifi"
	"github.com/egallis31/unifi-network-mcp/pkg/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler 把网关操作面暴露为 HTTP 接口
// 纯粹的薄封装：解析请求、调用网关、映射错误，没有自己的业务逻辑
type Handler struct {
	gateway *unifi.Gateway
	log     logger.Logger
}

// New 创建 Handler
func New(gateway *unifi.Gateway, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Handler{
		gateway: gateway,
		log:     log.Named("handler"),
	}
}

// Register 注册路由
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/operations", h.listOperations)
		api.POST("/ops/:name", h.executeOperation)
		api.POST("/cmd/:endpoint", h.dispatchCommand)
	}

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// operationRequest 操作请求体
type operationRequest struct {
	Params map[string]any `json:"params"`
}

// commandRequest 命令请求体
type commandRequest struct {
	Cmd  string         `json:"cmd" binding:"required"`
	Args map[string]any `json:"args"`
}

// listOperations 列出所有已注册的逻辑操作
func (h *Handler) listOperations(c *gin.Context) {
	web.Success(c, h.gateway.Catalog().Names())
}

// executeOperation 执行一个逻辑操作
func (h *Handler) executeOperation(c *gin.Context) {
	var req operationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			web.Error(c, http.StatusBadRequest, 1, "invalid request body: "+err.Error())
			return
		}
	}

	data, err := h.gateway.Execute(c.Request.Context(), c.Param("name"), req.Params)
	if err != nil {
		h.renderError(c, err)
		return
	}
	web.Success(c, data)
}

// dispatchCommand 对命令端点执行一个动作
func (h *Handler) dispatchCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, 1, "invalid request body: "+err.Error())
		return
	}

	data, err := h.gateway.Dispatch(c.Request.Context(), c.Param("endpoint"), req.Cmd, req.Args)
	if err != nil {
		h.renderError(c, err)
		return
	}
	web.Success(c, data)
}

// health 健康检查
func (h *Handler) health(c *gin.Context) {
	web.Success(c, gin.H{"status": "ok", "site": h.gateway.Site()})
}

// renderError 错误分类到 HTTP 状态的映射
func (h *Handler) renderError(c *gin.Context, err error) {
	var (
		authErr     *unifi.AuthError
		requestErr  *unifi.RequestError
		responseErr *unifi.ResponseError
		validateErr *unifi.ValidationError
	)

	switch {
	case errors.Is(err, unifi.ErrUnknownOperation),
		errors.Is(err, unifi.ErrInvalidCommand),
		errors.Is(err, unifi.ErrNotCommandEndpoint):
		web.Error(c, http.StatusBadRequest, 2, err.Error())

	case errors.As(err, &validateErr):
		web.Error(c, http.StatusUnprocessableEntity, 3, err.Error())

	case errors.As(err, &authErr):
		web.Error(c, http.StatusBadGateway, 4, err.Error())

	case errors.As(err, &responseErr):
		status := responseErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		web.Error(c, status, 5, err.Error())

	case errors.As(err, &requestErr):
		web.Error(c, http.StatusBadGateway, 6, err.Error())

	default:
		h.log.Error("unclassified gateway error", "error", err)
		web.Error(c, http.StatusInternalServerError, 7, err.Error())
	}
}
