package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chanotech/chanote-backend/internal/data/repos"
	"github.com/chanotech/chanote-backend/internal/http/middleware"
	"github.com/chanotech/chanote-backend/internal/http/response"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type RewardHandler struct {
	log        *logger.Logger
	rewardRepo repos.RewardRepo
}

func NewRewardHandler(log *logger.Logger, rewardRepo repos.RewardRepo) *RewardHandler {
	return &RewardHandler{
		log:        log.With("handler", "RewardHandler"),
		rewardRepo: rewardRepo,
	}
}

func (h *RewardHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	rewards, err := h.rewardRepo.GetByUser(dbc, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", fmt.Errorf("could not list rewards"))
		return
	}
	total, err := h.rewardRepo.TotalPoints(dbc, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", fmt.Errorf("could not total rewards"))
		return
	}

	response.RespondOK(c, gin.H{
		"totalPoints": total,
		"rewards":     rewards,
	})
}
