package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-service/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductController struct {
	Products repository.ProductRepo
	Logger   *zap.Logger
}

func NewProductController(products repository.ProductRepo, logger *zap.Logger) *ProductController {
	return &ProductController{Products: products, Logger: logger}
}

// ListProducts returns the catalog, optionally paginated with ?limit=&skip=.
func (pc *ProductController) ListProducts(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	products, err := pc.Products.FindAll(c.Request.Context(), limit, skip)
	if err != nil {
		pc.Logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct returns a single catalog product by id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.Products.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		pc.Logger.Error("Failed to get product", zap.String("product_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}
