package handlers

import (
	"net/http"

	"growthyari/middleware"
	"growthyari/models"
	"growthyari/services/availability"
	"growthyari/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes slot and settings management endpoints.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// ListSlotsHandler returns an expert's slots, optionally bounded by
// ?from=YYYY-MM-DD&to=YYYY-MM-DD and filtered with ?available=true.
func (h *AvailabilityHandler) ListSlotsHandler(c *gin.Context) {
	expertID := c.Param("expertId")
	availableOnly := c.Query("available") == "true"

	slots, err := h.Service.ListSlots(c.Request.Context(), expertID, c.Query("from"), c.Query("to"), availableOnly)
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// CreateSlotHandler creates a slot (or a recurring template plus its
// expanded instances) for the authenticated expert.
func (h *AvailabilityHandler) CreateSlotHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input struct {
		Date        string                   `json:"date" binding:"required"`
		Start       int                      `json:"start"`
		End         int                      `json:"end" binding:"required"`
		Kind        models.SlotKind          `json:"kind" binding:"required"`
		Price       float64                  `json:"price"`
		Notes       string                   `json:"notes"`
		IsRecurring bool                     `json:"isRecurring"`
		Recurrence  models.RecurrencePattern `json:"recurrence"`
		RecurUntil  string                   `json:"recurUntil"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	slot := models.AvailabilitySlot{
		ExpertID:    c.Param("expertId"),
		Date:        input.Date,
		Start:       input.Start,
		End:         input.End,
		Kind:        input.Kind,
		Price:       input.Price,
		Notes:       input.Notes,
		IsRecurring: input.IsRecurring,
		Recurrence:  input.Recurrence,
		RecurUntil:  input.RecurUntil,
	}

	created, err := h.Service.CreateSlot(c.Request.Context(), principal, slot)
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slots": created})
}

// DeleteSlotHandler deletes an unbooked slot owned by the authenticated expert.
func (h *AvailabilityHandler) DeleteSlotHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.Service.DeleteSlot(c.Request.Context(), principal, c.Param("slotId")); err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetSettingsHandler returns the expert's availability settings,
// materializing defaults on first access.
func (h *AvailabilityHandler) GetSettingsHandler(c *gin.Context) {
	settings, err := h.Service.GetSettings(c.Request.Context(), c.Param("expertId"))
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettingsHandler overwrites the authenticated expert's settings.
func (h *AvailabilityHandler) UpdateSettingsHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input struct {
		OffersFreeSessions  bool    `json:"offersFreeSessions"`
		FreeSessionDuration int     `json:"freeSessionDuration" binding:"required"`
		DefaultPaidDuration int     `json:"defaultPaidDuration" binding:"required"`
		DefaultPaidPrice    float64 `json:"defaultPaidPrice"`
		Timezone            string  `json:"timezone"`
		BufferMinutes       int     `json:"bufferMinutes"`
		AdvanceBookingDays  int     `json:"advanceBookingDays" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	settings := models.AvailabilitySettings{
		ExpertID:            c.Param("expertId"),
		OffersFreeSessions:  input.OffersFreeSessions,
		FreeSessionDuration: input.FreeSessionDuration,
		DefaultPaidDuration: input.DefaultPaidDuration,
		DefaultPaidPrice:    input.DefaultPaidPrice,
		Timezone:            input.Timezone,
		BufferMinutes:       input.BufferMinutes,
		AdvanceBookingDays:  input.AdvanceBookingDays,
	}

	updated, err := h.Service.UpdateSettings(c.Request.Context(), principal, settings)
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": updated})
}
