package api

import (
	v1 "github.com/funnelkit/funnelkit/internal/api/v1"
	"github.com/funnelkit/funnelkit/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Checkout *v1.CheckoutHandler
	Funnel   *v1.FunnelHandler
	Health   *v1.HealthHandler
}

func NewHandlers(checkout *v1.CheckoutHandler, funnel *v1.FunnelHandler, health *v1.HealthHandler) Handlers {
	return Handlers{Checkout: checkout, Funnel: funnel, Health: health}
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Funnel document for step views
	router.GET("/funnel", handlers.Funnel.GetFunnel)

	// Checkout session routes
	sessions := router.Group("/sessions")
	{
		sessions.POST("", handlers.Checkout.CreateSession)
		sessions.GET("/:id", handlers.Checkout.GetSession)
		sessions.POST("/:id/offer", handlers.Checkout.SelectOffer)
		sessions.POST("/:id/quantity", handlers.Checkout.SetQuantity)
		sessions.POST("/:id/kit-quantity", handlers.Checkout.SetKitQuantity)
		sessions.POST("/:id/complete", handlers.Checkout.Complete)
		sessions.POST("/:id/upsell/accept", handlers.Checkout.AcceptUpsell)
		sessions.POST("/:id/upsell/decline", handlers.Checkout.DeclineUpsell)
	}
}
