package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/infra/security"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
	"github.com/RaoufAlaadin/MedicaRental/internal/transport/http/middleware"
	"github.com/RaoufAlaadin/MedicaRental/internal/usecase"
)

const (
	// Identical message for unknown email and wrong password; responses must
	// not reveal which emails are registered.
	loginFailedMessage    = "Email or password is not correct"
	accountBlockedMessage = "This Account is blocked"
	userCreatedMessage    = "User Created Successfully"
)

// AccountsHandler exposes account lifecycle endpoints.
type AccountsHandler struct {
	accounts *usecase.AccountService
}

// NewAccountsHandler constructs AccountsHandler.
func NewAccountsHandler(accounts *usecase.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// RegisterRoutes binds account routes, applying optional middleware ahead of login.
func (h *AccountsHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	if len(loginMiddlewares) > 0 {
		chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
		chain = append(chain, h.login)
		r.POST("/login", chain...)
	} else {
		r.POST("/login", h.login)
	}

	r.POST("/register", h.register)
	r.POST("/refresh", h.refresh)

	admin := r.Group("", middleware.RequireAuth(h.accounts), middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/block", h.block)
	admin.POST("/unblock", h.unblock)
	admin.DELETE("/:userId", h.delete)
}

func (h *AccountsHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, loginFailedMessage))
		return
	}

	bundle, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusNotFound, Message: loginFailedMessage},
			{Err: usecase.ErrAccountLocked, Status: http.StatusUnauthorized, Message: accountBlockedMessage},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, TokenBundleResponse{
		Token:            bundle.SessionToken,
		ExpiresOn:        bundle.SessionExpiresOn,
		RefreshToken:     bundle.RefreshToken,
		RefreshExpiresOn: bundle.RefreshExpiresOn,
		Role:             bundle.Role,
		UserID:           bundle.User.ID,
	})
}

func (h *AccountsHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
		Role:         req.Role,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, registrationErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: userCreatedMessage,
		UserID:  user.ID,
		Email:   user.Email,
	})
}

// registrationErrorMessage surfaces the store's own constraint message so the
// response matches what the store reported (duplicate email in particular).
func registrationErrorMessage(err error) string {
	var validationErr *security.PasswordValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}

	if errors.Is(err, repository.ErrDuplicate) {
		return "duplicate key value violates unique constraint on email"
	}

	return err.Error()
}

func (h *AccountsHandler) refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid refresh token"))
		return
	}

	bundle, err := h.accounts.RefreshSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidRefreshToken, Status: http.StatusUnauthorized, Message: "invalid refresh token"},
			{Err: usecase.ErrExpiredRefreshToken, Status: http.StatusUnauthorized, Message: "refresh token expired"},
			{Err: usecase.ErrAccountLocked, Status: http.StatusUnauthorized, Message: accountBlockedMessage},
		}, http.StatusInternalServerError, "refresh failed")
		return
	}

	c.JSON(http.StatusOK, TokenBundleResponse{
		Token:            bundle.SessionToken,
		ExpiresOn:        bundle.SessionExpiresOn,
		RefreshToken:     bundle.RefreshToken,
		RefreshExpiresOn: bundle.RefreshExpiresOn,
		Role:             bundle.Role,
		UserID:           bundle.User.ID,
	})
}

func (h *AccountsHandler) block(c *gin.Context) {
	var req BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	if err := h.accounts.BlockUser(c.Request.Context(), req.UserID, req.EndDate); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			// 502 mirrors the platform's established block endpoint contract.
			{Err: usecase.ErrAlreadyBlocked, Status: http.StatusBadGateway, Message: "This Account is already blocked"},
			{Err: usecase.ErrUpdateFailed, Status: http.StatusBadRequest, Message: "failed to block user"},
		}, http.StatusInternalServerError, "failed to block user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("User is blocked till %s", req.EndDate.Format("2006-01-02 15:04:05")),
	})
}

func (h *AccountsHandler) unblock(c *gin.Context) {
	var req UnblockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	if err := h.accounts.UnblockUser(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrUpdateFailed, Status: http.StatusBadRequest, Message: "failed to unblock user"},
		}, http.StatusInternalServerError, "failed to unblock user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "User is unblocked"})
}

func (h *AccountsHandler) delete(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.accounts.Delete(c.Request.Context(), userID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrDeleteFailed, Status: http.StatusBadRequest, Message: "failed to delete user"},
		}, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}
