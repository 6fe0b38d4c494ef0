package controller

import (
	"errors"
	"net/http"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	SessionService *service.SessionService
}

func NewGradingController(sessionService *service.SessionService) *GradingController {
	return &GradingController{SessionService: sessionService}
}

// Evaluate godoc
// @Summary Grade all answers
// @Description Scores every question in one batch. Unanswered questions are graded as empty responses.
// @Tags grading
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "No questions generated yet"
// @Security BearerAuth
// @Router /api/sessions/current/evaluate [post]
func (c *GradingController) Evaluate(ctx *gin.Context) {
	session, err := c.SessionService.Evaluate(ctx.Request.Context(), util.GetSessionIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoQuestions):
			util.Error(ctx, http.StatusConflict, "generate questions before evaluating")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"results": session.Results,
		"total":   totalScore(session),
	})
}

// Results godoc
// @Summary Grading results
// @Tags grading
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Session not graded yet"
// @Security BearerAuth
// @Router /api/sessions/current/results [get]
func (c *GradingController) Results(ctx *gin.Context) {
	session, err := c.SessionService.GetSession(ctx.Request.Context(), util.GetSessionIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if !session.Graded {
		util.Error(ctx, http.StatusConflict, "session has not been evaluated")
		return
	}

	util.Success(ctx, gin.H{
		"results": session.Results,
		"total":   totalScore(session),
	})
}

func totalScore(session *model.QuizSession) gin.H {
	var sum float64
	for _, r := range session.Results {
		sum += r.Score
	}
	return gin.H{
		"score": sum,
		"max":   float64(len(session.Results)) * service.GradeMax,
	}
}
