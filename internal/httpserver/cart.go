package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	cartstate "onova-storefront/internal/cart"
	"onova-storefront/internal/domain"
	"onova-storefront/internal/service/stock"
)

type cartResponse struct {
	Items     []cartstate.Line `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	ItemCount int              `json:"itemCount"`
}

func toCartResponse(state cartstate.State) cartResponse {
	items := state.Lines
	if items == nil {
		items = []cartstate.Line{}
	}
	return cartResponse{
		Items:     items,
		Total:     state.TotalPrice,
		ItemCount: state.TotalItemCount,
	}
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := deps.Cart.Cart(c.Request.Context(), sessionID(c))
		c.JSON(http.StatusOK, toCartResponse(state))
	}
}

type addItemRequest struct {
	Slug     string `json:"slug"`
	Quantity *int   `json:"quantity"`
}

// addCartItemHandler fetches a fresh product snapshot for the slug and
// adds it to the cart, refusing quantities beyond the stock still
// available to this session.
func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slug required"})
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		if quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
			return
		}

		ctx := c.Request.Context()
		product, err := deps.Catalog.ProductBySlug(ctx, req.Slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
			return
		}

		seq := deps.Stock.Next()
		deps.Stock.Record(product.ID, product.Stock, seq)
		remote, _ := deps.Stock.Get(product.ID)

		session := sessionID(c)
		available := stock.Available(remote, deps.Cart.ItemQuantity(ctx, session, product.ID))
		if quantity > available {
			c.JSON(http.StatusConflict, gin.H{
				"error":          "insufficient stock",
				"availableStock": available,
			})
			return
		}

		state := deps.Cart.AddToCart(ctx, session, product.Snapshot(), quantity)
		c.JSON(http.StatusOK, toCartResponse(state))
	}
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func updateCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
			return
		}
		state := deps.Cart.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("productId"), *req.Quantity)
		c.JSON(http.StatusOK, toCartResponse(state))
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := deps.Cart.RemoveFromCart(c.Request.Context(), sessionID(c), c.Param("productId"))
		c.JSON(http.StatusOK, toCartResponse(state))
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := deps.Cart.ClearCart(c.Request.Context(), sessionID(c))
		c.JSON(http.StatusOK, toCartResponse(state))
	}
}
