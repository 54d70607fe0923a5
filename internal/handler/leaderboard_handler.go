package handler

import (
	"net/http"
	"strconv"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/service"
	"github.com/ajstars1/0unveiled-leaderboard/pkg/apperror"
	"github.com/ajstars1/0unveiled-leaderboard/pkg/response"
	"github.com/ajstars1/0unveiled-leaderboard/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	service service.LeaderboardService
	search  service.SearchService
}

func NewLeaderboardHandler(service service.LeaderboardService, search service.SearchService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, search: search}
}

// Update is the scheduler trigger. It runs the whole recompute synchronously
// and answers with the job envelope; the cron-secret middleware has already
// authorized the call.
func (h *LeaderboardHandler) Update(c *gin.Context) {
	if err := h.service.RecomputeAll(c.Request.Context()); err != nil {
		response.JobError(c, err)
		return
	}

	response.JobSuccess(c, "leaderboard updated")
}

type leaderboardQuery struct {
	Type      string `form:"type" binding:"omitempty,oneof=GENERAL TECH_STACK DOMAIN"`
	TechStack string `form:"techStack" binding:"omitempty,max=50"`
	Domain    string `form:"domain" binding:"omitempty,oneof=FRONTEND BACKEND AI_ML"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var q leaderboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	p := model.GeneralPartition()
	switch model.LeaderboardType(q.Type) {
	case model.TypeTechStack:
		if q.TechStack == "" {
			response.ResponseError(c, apperror.ErrBadRequest)
			return
		}
		p = model.Partition{Type: model.TypeTechStack, TechStack: q.TechStack}
	case model.TypeDomain:
		if q.Domain == "" {
			response.ResponseError(c, apperror.ErrBadRequest)
			return
		}
		p = model.Partition{Type: model.TypeDomain, Domain: q.Domain}
	}

	limit := q.Limit
	if limit == 0 {
		limit = 25
	}

	entries, err := h.service.GetLeaderboard(c.Request.Context(), p, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *LeaderboardHandler) GetMyRanks(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ranks, err := h.service.GetUserRanks(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ranks})
}

func (h *LeaderboardHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	limit := 10
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 && l <= 50 {
		limit = l
	}

	entries, err := h.search.Search(query, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
