package handlers

import (
	"net/http"

	"growthyari/middleware"
	"growthyari/models"
	"growthyari/services/scheduling"
	"growthyari/utils"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes booking and session lifecycle endpoints.
type SessionHandler struct {
	Service scheduling.SchedulingService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(svc scheduling.SchedulingService) *SessionHandler {
	return &SessionHandler{Service: svc}
}

// BookSessionHandler reserves a slot for the authenticated client and
// creates the session in pending status.
func (h *SessionHandler) BookSessionHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req scheduling.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Service.Book(c.Request.Context(), principal, req)
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetSessionHandler returns a single session to one of its parties.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	session, err := h.Service.GetSession(c.Request.Context(), principal, c.Param("sessionId"))
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ListSessionsHandler returns the caller's sessions; ?as=expert switches to
// the expert view and ?status= filters by lifecycle state.
func (h *SessionHandler) ListSessionsHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	sessions, err := h.Service.ListSessions(
		c.Request.Context(),
		principal,
		c.Query("as"),
		models.SessionStatus(c.Query("status")),
	)
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// ConfirmSessionHandler confirms a pending session and returns the issued
// meeting link.
func (h *SessionHandler) ConfirmSessionHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	session, err := h.Service.Confirm(c.Request.Context(), principal, c.Param("sessionId"))
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DeclineSessionHandler rejects a pending session and re-opens its slot.
func (h *SessionHandler) DeclineSessionHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input) // reason is optional

	session, err := h.Service.Decline(c.Request.Context(), principal, c.Param("sessionId"), input.Reason)
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// CancelSessionHandler cancels a live session and re-opens its slot.
func (h *SessionHandler) CancelSessionHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input) // reason is optional

	session, err := h.Service.Cancel(c.Request.Context(), principal, c.Param("sessionId"), input.Reason)
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// CompleteSessionHandler force-runs the time-driven completion for a single
// session; the periodic sweep does the same without user involvement.
func (h *SessionHandler) CompleteSessionHandler(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	session, err := h.Service.Complete(c.Request.Context(), principal, c.Param("sessionId"))
	if err != nil {
		utils.JSONFault(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
