package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"observation-tracker/internal/auth"
	"observation-tracker/internal/errors"
	"observation-tracker/internal/photo"
)

// Handler handles HTTP requests for users
type Handler struct {
	service Service
}

// NewHandler creates a new user handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// FormRegister represents signup form data
type FormRegister struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// FormLogin represents login form data
type FormLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a user and returns the freshly minted public ID
func (h *Handler) Signup(c *gin.Context) {
	var form FormRegister
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid input", err))
		return
	}

	usr := &User{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	}

	if err := h.service.Register(c.Request.Context(), usr); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user_id": usr.UserID,
		"user":    usr.ToSafeUser(),
	})
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid input", err))
		return
	}

	usr, err := h.service.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	accessToken, err := auth.GenerateJWT(usr.ID)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"user":         usr.ToSafeUser(),
	})
}

// GetProfile handles getting the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.Error(errors.Unauthorized("User not found", nil))
		return
	}

	usr, err := h.service.GetUserByID(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, usr.ToSafeUser())
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile changes the display name and/or the profile photo. Accepts
// multipart (name + profilePhoto file) or plain JSON (name only).
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.Error(errors.Unauthorized("User not found", nil))
		return
	}

	var name *string
	var blob *photo.Blob
	closeBlob := func() {}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if v := c.PostForm("name"); v != "" {
			name = &v
		}

		var err error
		blob, closeBlob, err = photo.FromForm(c, "profilePhoto")
		if err != nil {
			c.Error(errors.Validation("Can't read uploaded photo", err))
			return
		}
	} else {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.Validation("Invalid input", err))
			return
		}
		if req.Name != "" {
			name = &req.Name
		}
	}
	defer closeBlob()

	usr, err := h.service.UpdateProfile(c.Request.Context(), userID.(uint64), name, blob)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": usr.ToSafeUser()})
}
