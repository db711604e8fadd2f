package http

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"pos-service/internal/middleware"
	"pos-service/internal/rpc"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const HeaderClientID = "X-Client-Id"

// DefaultUIOrigin используется, если CORS_ORIGINS не задан. Все источники открываются только явным "*".
const DefaultUIOrigin = "http://localhost:5173"

type Dispatcher interface {
	Dispatch(ctx context.Context, name string, raw []byte, md middleware.Metadata) rpc.Response
}

type RouterOptions struct {
	AllowOrigins []string
	Gatherer     prometheus.Gatherer
	Debug        bool
}

func Router(d Dispatcher, opt RouterOptions, log *zap.Logger) *gin.Engine {
	if !opt.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", HeaderClientID},
		ExposeHeaders: []string{"Content-Length", HeaderClientID},
	}
	switch {
	case slices.Contains(opt.AllowOrigins, "*"):
		corsCfg.AllowAllOrigins = true
	case len(opt.AllowOrigins) == 0:
		corsCfg.AllowOrigins = []string{DefaultUIOrigin}
	default:
		corsCfg.AllowOrigins = opt.AllowOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	if opt.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{})))
	}

	h := &rpcHandler{d: d, log: log}
	r.POST("/rpc/:procedure", h.Call)

	return r
}

type rpcHandler struct {
	d   Dispatcher
	log *zap.Logger
}

func (h *rpcHandler) Call(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.Warn("Не удалось прочитать тело запроса", zap.Error(err))
		c.JSON(http.StatusBadRequest, rpc.Response{Error: rpc.NewError(rpc.CodeBadRequest, "invalid request body")})
		return
	}

	clientID := strings.TrimSpace(c.GetHeader(HeaderClientID))
	if clientID == "" {
		clientID = uuid.NewString()
	}
	md := middleware.Metadata{
		Headers: map[string]string{
			"authorization": c.GetHeader("Authorization"),
		},
		ClientID: clientID,
	}

	resp := h.d.Dispatch(c.Request.Context(), c.Param("procedure"), body, md)
	status := http.StatusOK
	if resp.Error != nil {
		status = rpc.HTTPStatus(resp.Error.Code)
	}
	c.Header(HeaderClientID, clientID)
	c.JSON(status, resp)
}
