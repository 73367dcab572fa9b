package contact

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"observation-tracker/internal/errors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	ownerID := c.GetUint64("user_id")

	contacts, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

type AddContactRequest struct {
	Name   string `json:"name" binding:"required"`
	UserID string `json:"user_id" binding:"required,len=6,publicid"`
}

func (h *Handler) Add(c *gin.Context) {
	ownerID := c.GetUint64("user_id")

	var req AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.Validation("Name and User ID are required", err))
		return
	}

	contact, err := h.service.Add(c.Request.Context(), ownerID, req.Name, req.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

func (h *Handler) Remove(c *gin.Context) {
	ownerID := c.GetUint64("user_id")

	contactID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.Validation("Contact ID required", err))
		return
	}

	if err := h.service.Remove(c.Request.Context(), ownerID, contactID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}
