package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"toko-online/models"
	"toko-online/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const productCacheTTL = 5 * time.Minute

type ProductController struct {
	products *services.ProductService
	cache    *redis.Client
}

func NewProductController(products *services.ProductService, cache *redis.Client) *ProductController {
	return &ProductController{products: products, cache: cache}
}

// GetAllProducts godoc
// @Summary Get all products
// @Description Get the product catalog
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response
// @Failure 500 {object} models.ErrorResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()
	cacheKey := "products_list"

	if ctrl.cache != nil {
		if cached, err := ctrl.cache.Get(ctx, cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	products, err := ctrl.products.GetAll(ctx)
	if err != nil {
		log.Printf("Failed to fetch products: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to fetch products",
		})
		return
	}

	response := models.Response{
		Success: true,
		Message: "Products retrieved",
		Data:    products,
	}

	if ctrl.cache != nil {
		if jsonData, err := json.Marshal(response); err == nil {
			ctrl.cache.Set(context.Background(), cacheKey, jsonData, productCacheTTL)
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetProductByID godoc
// @Summary Get product by ID
// @Description Get a single product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: "Product not found",
		})
		return
	}

	product, err := ctrl.products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Message: "Product not found",
			})
			return
		}
		log.Printf("Failed to fetch product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to fetch product",
		})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved",
		Data:    product,
	})
}
