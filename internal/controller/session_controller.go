package controller

import (
	"errors"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// CreateSessionRequest carries the initial quiz settings. Both fields are
// optional; server defaults apply when omitted.
type CreateSessionRequest struct {
	Language     string `json:"language"`
	NumQuestions int    `json:"numQuestions"`
}

type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// SessionView is the session as returned to clients. The extracted document
// text and audio fingerprints stay server side.
type SessionView struct {
	ID           string                   `json:"id"`
	Language     string                   `json:"language"`
	NumQuestions int                      `json:"numQuestions"`
	DocumentName string                   `json:"documentName,omitempty"`
	DocumentURL  string                   `json:"documentUrl,omitempty"`
	HasDocument  bool                     `json:"hasDocument"`
	TextLength   int                      `json:"textLength,omitempty"`
	Questions    []model.Question         `json:"questions"`
	Answers      []model.AnswerSubmission `json:"answers"`
	Results      []model.GradingResult    `json:"results,omitempty"`
	Graded       bool                     `json:"graded"`
	CreatedAt    string                   `json:"createdAt"`
	UpdatedAt    string                   `json:"updatedAt"`
}

func NewSessionView(s *model.QuizSession) SessionView {
	return SessionView{
		ID:           s.ID,
		Language:     s.Language,
		NumQuestions: s.NumQuestions,
		DocumentName: s.DocumentName,
		DocumentURL:  s.DocumentURL,
		HasDocument:  s.DocumentText != "",
		TextLength:   len(s.DocumentText),
		Questions:    s.Questions,
		Answers:      s.Answers,
		Results:      s.Results,
		Graded:       s.Graded,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateSession godoc
// @Summary Start a quiz session
// @Description Creates a new quiz session and returns its bearer token
// @Tags session
// @Accept json
// @Produce json
// @Param body body CreateSessionRequest false "Initial settings"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, token, err := c.SessionService.CreateSession(ctx.Request.Context(), req.Language, req.NumQuestions)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"token":   token,
		"session": NewSessionView(session),
	})
}

// GetSession godoc
// @Summary Current session state
// @Tags session
// @Produce json
// @Success 200 {object} util.Response{data=SessionView}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/sessions/current [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	session, err := c.SessionService.GetSession(ctx.Request.Context(), util.GetSessionIDFromContext(ctx))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	util.Success(ctx, NewSessionView(session))
}

// EndSession godoc
// @Summary End the session
// @Description Discards the session and its uploaded document
// @Tags session
// @Produce json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/sessions/current [delete]
func (c *SessionController) EndSession(ctx *gin.Context) {
	if err := c.SessionService.EndSession(ctx.Request.Context(), util.GetSessionIDFromContext(ctx)); err != nil {
		c.fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SetLanguage godoc
// @Summary Switch learner language
// @Description Retranslates questions and results into the new language
// @Tags session
// @Accept json
// @Produce json
// @Param body body SetLanguageRequest true "Target language"
// @Success 200 {object} util.Response{data=SessionView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/sessions/current/language [put]
func (c *SessionController) SetLanguage(ctx *gin.Context) {
	var req SetLanguageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.SetLanguage(ctx.Request.Context(), util.GetSessionIDFromContext(ctx), req.Language)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	util.Success(ctx, NewSessionView(session))
}

func (c *SessionController) fail(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrSessionNotFound) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}
