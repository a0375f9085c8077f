package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/smallbiznis/housing/internal/config"
	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
	"github.com/smallbiznis/housing/internal/observability"
	obsmiddleware "github.com/smallbiznis/housing/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/housing/internal/observability/metrics"
	obstracing "github.com/smallbiznis/housing/internal/observability/tracing"
	"github.com/smallbiznis/housing/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	registerJSONTagNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// registerJSONTagNames makes validation errors report the JSON field name.
func registerJSONTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
}

// RunHTTP serves the engine on the configured address. A listen failure
// aborts startup.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	var handler http.Handler = r
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		}).Handler(r)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	housing housingdomain.Service
	limiter *ratelimit.WriteLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	HousingSvc housingdomain.Service
	Limiter    *ratelimit.WriteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:  p.Gin,
		cfg:     p.Cfg,
		housing: p.HousingSvc,
		limiter: p.Limiter,
	}

	svc.registerIndexRoutes()
	svc.registerHousingRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerIndexRoutes() {
	s.engine.GET("/", s.Index)
}

func (s *Server) registerHousingRoutes() {
	housing := s.engine.Group("/housing")

	housing.POST("", s.WriteRateLimit(), s.CreateHousing)
	housing.GET("", s.ListHousing)
	housing.GET("/:id", s.GetHousing)
	housing.PUT("/:id", s.WriteRateLimit(), s.UpdateHousing)
	housing.DELETE("/:id", s.DeleteHousing)
}
