package observation

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"observation-tracker/internal/errors"
	"observation-tracker/internal/middleware"
	"observation-tracker/internal/photo"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateRequest struct {
	Location    string `form:"location" binding:"required"`
	Observation string `form:"observation" binding:"required"`
	Recipients  string `form:"recipients" binding:"required"` // JSON array of public user IDs
}

func (h *Handler) Create(c *gin.Context) {
	sender, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(errors.Unauthorized("User not found", nil))
		return
	}

	var form CreateRequest
	if err := c.ShouldBind(&form); err != nil {
		c.Error(errors.Validation("Missing required fields", err))
		return
	}

	var recipientIDs []string
	if err := json.Unmarshal([]byte(form.Recipients), &recipientIDs); err != nil {
		c.Error(errors.Validation("Recipients must be a JSON array of user IDs", err))
		return
	}

	blob, closeBlob, err := photo.FromForm(c, "photo")
	if err != nil {
		c.Error(errors.Validation("Can't read uploaded photo", err))
		return
	}
	defer closeBlob()

	obs, err := h.service.Create(c.Request.Context(), sender, CreateInput{
		Location:     form.Location,
		Body:         form.Observation,
		RecipientIDs: recipientIDs,
		Photo:        blob,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Observation created successfully",
		"observation_id": obs.ObservationID,
	})
}

type ReviseRequest struct {
	ObservationID      string `form:"observationId" binding:"required,len=6"`
	SenderUserID       string `form:"senderUserId" binding:"required,len=6"`
	RevisedLocation    string `form:"revisedLocation" binding:"required"`
	RevisedObservation string `form:"revisedObservation" binding:"required"`
}

func (h *Handler) Revise(c *gin.Context) {
	reviser, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(errors.Unauthorized("User not found", nil))
		return
	}

	var form ReviseRequest
	if err := c.ShouldBind(&form); err != nil {
		c.Error(errors.Validation("Missing required fields", err))
		return
	}

	blob, closeBlob, err := photo.FromForm(c, "photo")
	if err != nil {
		c.Error(errors.Validation("Can't read uploaded photo", err))
		return
	}
	defer closeBlob()

	err = h.service.Revise(c.Request.Context(), reviser, ReviseInput{
		ObservationID: form.ObservationID,
		SenderUserID:  form.SenderUserID,
		Location:      form.RevisedLocation,
		Body:          form.RevisedObservation,
		Photo:         blob,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Revision created successfully"})
}

func (h *Handler) Show(c *gin.Context) {
	requester, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(errors.Unauthorized("User not found", nil))
		return
	}

	result, err := h.service.GetByPublicID(c.Request.Context(), requester, c.Param("observationId"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"observation": result})
}

func (h *Handler) List(c *gin.Context) {
	requester, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(errors.Unauthorized("User not found", nil))
		return
	}

	result, err := h.service.List(c.Request.Context(), requester, ListFilter{
		Status: c.Query("filter"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"observations": result})
}
