package handler

import (
	"net/http"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GoalHandler struct {
	goalService service.GoalService
}

func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// RegisterRoutes binds savings goal and contribution endpoints behind the
// auth middleware.
func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.POST("", h.CreateGoal)
		goals.GET("", h.ListGoals)
		goals.PUT("/:id", h.UpdateGoal)
		goals.DELETE("/:id", h.DeleteGoal)
		goals.GET("/:id/progress", h.GoalProgress)
	}

	contributions := router.Group("/contributions")
	{
		contributions.POST("", h.AddContribution)
		contributions.GET("", h.ListContributions)
		contributions.DELETE("/:id", h.DeleteContribution)
	}
}

// CreateGoal handles POST /goals
// @Summary      Create a savings goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateGoalRequest  true  "Create Goal Payload"
// @Success      201      {object}  response.Response{data=service.GoalResponse}
// @Failure      400      {object}  response.Response
// @Router       /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req service.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, goal))
}

// ListGoals handles GET /goals
// @Summary      List savings goals
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Param        group_id  query     string  false  "Filter by group"
// @Success      200       {object}  response.Response{data=[]service.GoalResponse}
// @Failure      500       {object}  response.Response
// @Router       /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals(c.Request.Context(), c.Query("group_id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, goals))
}

// UpdateGoal handles PUT /goals/:id
// @Summary      Update a savings goal
// @Description  Partial update; only the goal's creator may change it
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Goal ID"
// @Param        payload  body      service.UpdateGoalRequest  true  "Update Goal Payload"
// @Success      200      {object}  response.Response{data=service.GoalResponse}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var req service.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, goal))
}

// DeleteGoal handles DELETE /goals/:id
// @Summary      Delete a savings goal
// @Description  Only the goal's creator may delete it
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Goal ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.goalService.DeleteGoal(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "goal deleted"}))
}

// GoalProgress handles GET /goals/:id/progress
// @Summary      Goal progress
// @Description  Contributed sum, remaining amount and completion percent for a goal
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Goal ID"
// @Success      200  {object}  response.Response{data=service.GoalProgressResponse}
// @Failure      404  {object}  response.Response
// @Router       /goals/{id}/progress [get]
func (h *GoalHandler) GoalProgress(c *gin.Context) {
	progress, err := h.goalService.GoalProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, progress))
}

// AddContribution handles POST /contributions
// @Summary      Add a contribution
// @Tags         contributions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateContributionRequest  true  "Contribution Payload"
// @Success      201      {object}  response.Response{data=service.ContributionResponse}
// @Failure      400      {object}  response.Response
// @Router       /contributions [post]
func (h *GoalHandler) AddContribution(c *gin.Context) {
	var req service.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contribution, err := h.goalService.AddContribution(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contribution))
}

// ListContributions handles GET /contributions
// @Summary      List contributions
// @Tags         contributions
// @Produce      json
// @Security     BearerAuth
// @Param        goal_id         query     string  false  "Filter by goal"
// @Param        group_id        query     string  false  "Filter by group"
// @Param        contributor_id  query     string  false  "Filter by contributor"
// @Success      200             {object}  response.Response{data=[]service.ContributionResponse}
// @Failure      500             {object}  response.Response
// @Router       /contributions [get]
func (h *GoalHandler) ListContributions(c *gin.Context) {
	var filter repository.ContributionFilter
	if id, err := uuid.Parse(c.Query("goal_id")); err == nil {
		filter.GoalID = &id
	}
	if id, err := uuid.Parse(c.Query("group_id")); err == nil {
		filter.GroupID = &id
	}
	if id, err := uuid.Parse(c.Query("contributor_id")); err == nil {
		filter.ContributorID = &id
	}

	contributions, err := h.goalService.ListContributions(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contributions))
}

// DeleteContribution handles DELETE /contributions/:id
// @Summary      Delete a contribution
// @Tags         contributions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contribution ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contributions/{id} [delete]
func (h *GoalHandler) DeleteContribution(c *gin.Context) {
	if err := h.goalService.DeleteContribution(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "contribution deleted"}))
}
