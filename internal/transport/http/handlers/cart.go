package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/transport/http/middleware"
	"github.com/RaoufAlaadin/MedicaRental/internal/usecase"
)

// CartHandler exposes the per-client rental cart endpoints.
type CartHandler struct {
	cart     *usecase.CartService
	accounts *usecase.AccountService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(cart *usecase.CartService, accounts *usecase.AccountService) *CartHandler {
	return &CartHandler{cart: cart, accounts: accounts}
}

// RegisterRoutes binds cart routes. Mutations require the Client role; the
// in-cart probe is public and answers false for anyone without it.
func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/IsInCart/:itemId", h.isInCart)

	client := r.Group("", middleware.RequireAuth(h.accounts), middleware.RequireRole(domain.RoleClient))
	client.GET("", h.listItems)
	client.POST("", h.addItem)
	client.DELETE("/:itemId", h.removeItem)
}

func (h *CartHandler) listItems(c *gin.Context) {
	clientID := middleware.AuthenticatedUserID(c)

	views, err := h.cart.GetCartItems(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load cart"))
		return
	}

	items := make([]CartItemResponse, 0, len(views))
	for _, v := range views {
		items = append(items, CartItemResponse{
			ItemID: v.ItemID,
			Name:   v.Name,
			Price:  v.Price,
			Image:  v.Image,
		})
	}

	c.JSON(http.StatusOK, items)
}

// isInCart resolves the caller from the bearer token when one is present.
// Anonymous callers, invalid tokens, and non-Client roles all get false
// rather than an auth failure; the probe backs a storefront toggle.
func (h *CartHandler) isInCart(c *gin.Context) {
	itemID := c.Param("itemId")

	clientID, ok := h.clientFromBearer(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"isInCart": false})
		return
	}

	found, err := h.cart.IsInCart(c.Request.Context(), itemID, clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to check cart"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"isInCart": found})
}

func (h *CartHandler) clientFromBearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	claims, err := h.accounts.ParseAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", false
	}
	if !domain.HasRole(claims.Roles(), domain.RoleClient) {
		return "", false
	}

	return claims.UserID, true
}

func (h *CartHandler) addItem(c *gin.Context) {
	clientID := middleware.AuthenticatedUserID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	if err := h.cart.AddToCart(c.Request.Context(), req.ItemID, clientID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrItemNotFound, Status: http.StatusNotFound, Message: "item not found"},
			{Err: usecase.ErrItemAlreadyInCart, Status: http.StatusConflict, Message: "item already in cart"},
		}, http.StatusInternalServerError, "failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item added to cart"})
}

func (h *CartHandler) removeItem(c *gin.Context) {
	clientID := middleware.AuthenticatedUserID(c)
	itemID := c.Param("itemId")

	if err := h.cart.RemoveCartItem(c.Request.Context(), itemID, clientID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrItemNotInCart, Status: http.StatusNotFound, Message: "item not in cart"},
		}, http.StatusInternalServerError, "failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from cart"})
}
