package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"toko-online/middleware"
	"toko-online/models"
	"toko-online/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

type CartController struct {
	cart  *services.CartService
	cache *redis.Client
}

func NewCartController(cart *services.CartService, cache *redis.Client) *CartController {
	return &CartController{cart: cart, cache: cache}
}

// cachedReply is the stored outcome of an idempotent add, replayed
// verbatim when the same Idempotency-Key comes back.
type cachedReply struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

func idempotencyCacheKey(caller models.Identity, key string) string {
	owner := "guest"
	if caller.Authenticated {
		owner = strconv.Itoa(caller.UserID)
	}
	return fmt.Sprintf("cart_idem:%s:%s", owner, key)
}

// AddToCart godoc
// @Summary Add product to cart
// @Description Add a product to the caller's cart, merging quantity into an existing line. Supply an Idempotency-Key header to make retries safe.
// @Tags Cart
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param Idempotency-Key header string false "Client idempotency key"
// @Param request body models.AddToCartRequest true "Add To Cart Request"
// @Success 200 {object} models.Response "quantity merged into existing line"
// @Success 201 {object} models.Response "new line created"
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /cart [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "product_id and a positive quantity are required",
		})
		return
	}

	caller := middleware.CallerIdentity(c)
	ctx := c.Request.Context()

	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey != "" && ctrl.cache != nil {
		if cached, err := ctrl.cache.Get(ctx, idempotencyCacheKey(caller, idemKey)).Result(); err == nil {
			var reply cachedReply
			if json.Unmarshal([]byte(cached), &reply) == nil {
				c.Data(reply.Status, "application/json", reply.Body)
				return
			}
		}
	}

	item, created, err := ctrl.cart.AddItem(ctx, caller, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProductID) || errors.Is(err, services.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		log.Printf("Failed to add to cart: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to add item to cart",
		})
		return
	}

	status := http.StatusOK
	message := "Quantity merged into existing cart item"
	if created {
		status = http.StatusCreated
		message = "Item added to cart"
	}

	response := models.Response{
		Success: true,
		Message: message,
		Data:    item,
	}

	if idemKey != "" && ctrl.cache != nil {
		if body, err := json.Marshal(response); err == nil {
			if stored, err := json.Marshal(cachedReply{Status: status, Body: body}); err == nil {
				ctrl.cache.Set(context.Background(), idempotencyCacheKey(caller, idemKey), stored, idempotencyTTL)
			}
		}
	}

	c.JSON(status, response)
}

// GetCart godoc
// @Summary Get cart
// @Description List the caller's cart lines with current product name, price and image
// @Tags Cart
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} models.Response
// @Failure 500 {object} models.ErrorResponse
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	items, err := ctrl.cart.List(c.Request.Context(), middleware.CallerIdentity(c))
	if err != nil {
		log.Printf("Failed to fetch cart: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to fetch cart",
		})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved",
		Data:    items,
	})
}

// UpdateCartItem godoc
// @Summary Update cart item quantity
// @Description Overwrite the quantity of one of the caller's cart lines
// @Tags Cart
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param id path int true "Cart item ID"
// @Param request body models.UpdateCartItemRequest true "Update Cart Item Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/{id} [put]
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: "Cart item not found",
		})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "A positive quantity is required",
		})
		return
	}

	item, err := ctrl.cart.SetQuantity(c.Request.Context(), id, middleware.CallerIdentity(c), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrCartItemNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Message: "Cart item not found",
			})
		default:
			log.Printf("Failed to update cart item %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Message: "Failed to update cart item",
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart item updated",
		Data:    item,
	})
}

// RemoveCartItem godoc
// @Summary Remove cart item
// @Description Delete one of the caller's cart lines
// @Tags Cart
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param id path int true "Cart item ID"
// @Success 204 "removed"
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/{id} [delete]
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: "Cart item not found",
		})
		return
	}

	if err := ctrl.cart.RemoveItem(c.Request.Context(), id, middleware.CallerIdentity(c)); err != nil {
		if errors.Is(err, services.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Message: "Cart item not found",
			})
			return
		}
		log.Printf("Failed to remove cart item %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to remove cart item",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
