package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"onova-storefront/internal/cartstore"
)

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, deps Deps, allowOrigins []string) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Cart == nil || deps.Stock == nil || deps.Store == nil {
		return nil, errors.New("httpserver: incomplete dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(allowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))

	api := router.Group("/api", sessionMiddleware())

	api.GET("/home", homeHandler(deps))
	api.GET("/banner", bannerHandler(deps))
	api.GET("/search", searchHandler(deps))

	api.GET("/products", listProductsHandler(deps))
	api.GET("/products/newest", newestProductsHandler(deps))
	api.GET("/products/tagged/:tag", taggedProductsHandler(deps))
	api.GET("/products/:slug", productHandler(deps))

	api.GET("/categories", categoriesHandler(deps))
	api.GET("/categories/:slug", categoryHandler(deps))

	api.GET("/cart", getCartHandler(deps))
	api.POST("/cart/items", addCartItemHandler(deps))
	api.PATCH("/cart/items/:productId", updateCartItemHandler(deps))
	api.DELETE("/cart/items/:productId", removeCartItemHandler(deps))
	api.DELETE("/cart", clearCartHandler(deps))

	api.POST("/checkout", checkoutHandler)

	return router, nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(store cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "cart store not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// checkoutHandler is a deliberate stub: the storefront has no order or
// payment processing.
func checkoutHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "checkout not implemented"})
}
