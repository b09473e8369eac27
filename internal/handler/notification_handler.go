package handler

import (
	"net/http"
	"strconv"

	"fintrack/internal/service"
	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	reminderService service.ReminderService
}

func NewNotificationHandler(reminderService service.ReminderService) *NotificationHandler {
	return &NotificationHandler{reminderService: reminderService}
}

// RegisterRoutes binds notification preference and reminder endpoints behind
// the auth middleware.
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("/preferences", h.GetPreferences)
		notifications.PUT("/preferences", h.UpdatePreferences)
		notifications.GET("/stats", h.Stats)

		notifications.POST("/reminders", h.CreateReminder)
		notifications.GET("/reminders", h.ListReminders)
		notifications.GET("/reminders/history", h.ReminderHistory)
	}
}

// GetPreferences handles GET /notifications/preferences
// @Summary      Get notification preferences
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.NotificationPreferences}
// @Failure      404  {object}  response.Response
// @Router       /notifications/preferences [get]
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.reminderService.GetPreferences(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, prefs))
}

// UpdatePreferences handles PUT /notifications/preferences
// @Summary      Update notification preferences
// @Description  Partial update of channel, timezone and category toggles
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PreferencesRequest  true  "Preferences Payload"
// @Success      200      {object}  response.Response{data=model.NotificationPreferences}
// @Failure      400      {object}  response.Response
// @Router       /notifications/preferences [put]
func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var req service.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	prefs, err := h.reminderService.UpdatePreferences(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, prefs))
}

// Stats handles GET /notifications/stats
// @Summary      Reminder delivery stats
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ReminderStats}
// @Failure      500  {object}  response.Response
// @Router       /notifications/stats [get]
func (h *NotificationHandler) Stats(c *gin.Context) {
	stats, err := h.reminderService.Stats(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// CreateReminder handles POST /notifications/reminders
// @Summary      Schedule a reminder
// @Description  Schedules a message for delivery over email or in-app at sendAt; empty channel follows the user preference
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateReminderRequest  true  "Reminder Payload"
// @Success      201      {object}  response.Response{data=service.ReminderResponse}
// @Failure      400      {object}  response.Response
// @Router       /notifications/reminders [post]
func (h *NotificationHandler) CreateReminder(c *gin.Context) {
	var req service.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reminder, err := h.reminderService.CreateReminder(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, reminder))
}

// ListReminders handles GET /notifications/reminders
// @Summary      List pending reminders
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        include_sent  query     bool  false  "Include already sent reminders"
// @Param        limit         query     int   false  "Max rows"
// @Success      200           {object}  response.Response{data=[]service.ReminderResponse}
// @Failure      500           {object}  response.Response
// @Router       /notifications/reminders [get]
func (h *NotificationHandler) ListReminders(c *gin.Context) {
	includeSent, _ := strconv.ParseBool(c.DefaultQuery("include_sent", "false"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	reminders, err := h.reminderService.ListReminders(c.Request.Context(), c.GetString("userID"), includeSent, limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reminders))
}

// ReminderHistory handles GET /notifications/reminders/history
// @Summary      Reminder history
// @Description  Most recent reminders first, sent and failed included
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max rows"
// @Success      200    {object}  response.Response{data=[]service.ReminderResponse}
// @Failure      500    {object}  response.Response
// @Router       /notifications/reminders/history [get]
func (h *NotificationHandler) ReminderHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	reminders, err := h.reminderService.ReminderHistory(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reminders))
}
