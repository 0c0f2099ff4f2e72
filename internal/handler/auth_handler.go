package handler

import (
	"net/http"

	"canebill/internal/service"
	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/api/admin")
	{
		admin.POST("/register", h.Register)
		admin.POST("/login", h.Login)
	}
}

// Register creates a new admin account
// @Summary      Register admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RegisterAdminRequest  true  "Admin credentials"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/admin/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.authService.RegisterAdmin(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"message": "Admin registered successfully"}))
}

// Login exchanges admin credentials for a bearer token
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  service.LoginAdminRequest  true  "Admin credentials"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, token))
}
