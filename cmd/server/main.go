package main

import (
	"context"
	"net/http"
	"time"

	"github.com/funnelkit/funnelkit/internal/api"
	v1 "github.com/funnelkit/funnelkit/internal/api/v1"
	"github.com/funnelkit/funnelkit/internal/config"
	"github.com/funnelkit/funnelkit/internal/funnel"
	"github.com/funnelkit/funnelkit/internal/gateway"
	"github.com/funnelkit/funnelkit/internal/logger"
	"github.com/funnelkit/funnelkit/internal/pubsub"
	"github.com/funnelkit/funnelkit/internal/pubsub/memory"
	"github.com/funnelkit/funnelkit/internal/service"
	"github.com/funnelkit/funnelkit/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Funnel document
			provideFunnelConfig,

			// Cross-section event channel
			memory.NewPubSub,

			// Order/payment gateway
			gateway.NewRESTAdapter,

			// Services
			service.NewSessionService,

			// API handlers
			v1.NewCheckoutHandler,
			v1.NewFunnelHandler,
			v1.NewHealthHandler,
			api.NewHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideFunnelConfig(cfg *config.Configuration, log *logger.Logger) (*funnel.Config, error) {
	funnelCfg, err := funnel.Load(cfg.Funnel.ConfigPath)
	if err != nil {
		return nil, err
	}
	log.Infow("funnel loaded",
		"funnel_id", funnelCfg.FunnelID,
		"offers", len(funnelCfg.Offers),
		"upsells", len(funnelCfg.UpsellOffers),
	)
	return funnelCfg, nil
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *gin.Engine,
	channel pubsub.PubSub,
	log *logger.Logger,
) {
	if cfg.Deployment.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := channel.Close(); err != nil {
				log.Warnw("event channel close failed", "error", err)
			}
			return server.Shutdown(ctx)
		},
	})
}
