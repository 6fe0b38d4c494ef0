package controller

import (
	"errors"
	"net/http"
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	SessionService *service.SessionService
}

func NewQuestionController(sessionService *service.SessionService) *QuestionController {
	return &QuestionController{SessionService: sessionService}
}

// GenerateQuestions godoc
// @Summary Generate a question set
// @Description Builds open-ended questions from the uploaded document. Replaces any previous set and clears answers.
// @Tags questions
// @Produce json
// @Success 200 {object} util.Response{data=SessionView}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "No document uploaded"
// @Failure 502 {object} util.Response "Model returned no usable questions"
// @Security BearerAuth
// @Router /api/sessions/current/questions [post]
func (c *QuestionController) GenerateQuestions(ctx *gin.Context) {
	session, err := c.SessionService.GenerateQuestions(ctx.Request.Context(), util.GetSessionIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoDocument):
			util.Error(ctx, http.StatusConflict, "upload a document before generating questions")
		case errors.Is(err, util.ErrMalformedResponse), errors.Is(err, util.ErrNoQuestions):
			util.Error(ctx, http.StatusBadGateway, "question generation failed, please retry")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, NewSessionView(session))
}

// ListQuestions godoc
// @Summary Current question set
// @Tags questions
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/sessions/current/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	session, err := c.SessionService.GetSession(ctx.Request.Context(), util.GetSessionIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"language":  session.Language,
		"questions": session.Questions,
		"answers":   session.Answers,
	})
}
