package handler

import (
	"github.com/gin-gonic/gin"
	recognitionapp "github.com/kudos/backend/internal/application/recognition"
	"github.com/kudos/backend/internal/interfaces/http/dto"
)

// RankingHandler handles the monthly leaderboards
type RankingHandler struct {
	BaseHandler
	rankingService *recognitionapp.RankingService
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(rankingService *recognitionapp.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// GetMonthlyRanking returns the top-10 received and sent leaderboards
// for the requested month, defaulting to the current month
func (h *RankingHandler) GetMonthlyRanking(c *gin.Context) {
	var query dto.RankingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}

	ranking, err := h.rankingService.GetMonthlyRanking(c.Request.Context(), query.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ranking)
}
