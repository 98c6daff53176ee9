package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"onova-storefront/internal/domain"
	"onova-storefront/internal/service/catalog"
	"onova-storefront/internal/service/stock"
)

func homeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Catalog.HomeContent(c.Request.Context()))
	}
}

func bannerHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"url": deps.Catalog.BannerURL(c.Request.Context())})
	}
}

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := catalog.ListOptions{
			Category: c.Query("category"),
			Search:   c.Query("q"),
			Limit:    intQuery(c, "limit", 0),
		}
		c.JSON(http.StatusOK, gin.H{"products": deps.Catalog.Products(c.Request.Context(), opts)})
	}
}

func newestProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", 10)
		c.JSON(http.StatusOK, gin.H{"products": deps.Catalog.NewestProducts(c.Request.Context(), limit)})
	}
}

func taggedProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", 10)
		products := deps.Catalog.TaggedProducts(c.Request.Context(), c.Param("tag"), limit)
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func searchHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		limit := intQuery(c, "limit", 20)
		c.JSON(http.StatusOK, gin.H{"results": deps.Catalog.Search(c.Request.Context(), query, limit)})
	}
}

type productDetail struct {
	domain.Product
	AvailableStock int `json:"availableStock"`
	QuantityInCart int `json:"quantityInCart"`
}

// productHandler returns the product with its stock reconciled against
// the caller's cart. Availability is derived on every request, never
// stored.
func productHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		product, err := deps.Catalog.ProductBySlug(ctx, c.Param("slug"))
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

		inCart := deps.Cart.ItemQuantity(ctx, sessionID(c), product.ID)
		c.JSON(http.StatusOK, productDetail{
			Product:        product,
			AvailableStock: stock.Available(remote, inCart),
			QuantityInCart: inCart,
		})
	}
}

func categoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": deps.Catalog.Categories(c.Request.Context())})
	}
}

func categoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := deps.Catalog.CategoryBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	return value
}
