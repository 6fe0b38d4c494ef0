package controller

import (
	"errors"
	"io"
	"net/http"
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxAudioBytes caps a single voice recording at 10MB.
const maxAudioBytes = 10 << 20

type AnswerController struct {
	SessionService *service.SessionService
}

func NewAnswerController(sessionService *service.SessionService) *AnswerController {
	return &AnswerController{SessionService: sessionService}
}

type TypedAnswerRequest struct {
	Text string `json:"text"`
}

// SubmitTypedAnswer godoc
// @Summary Submit a typed answer
// @Description Overwrites the current answer for the question
// @Tags answers
// @Accept json
// @Produce json
// @Param index path int true "Question index (0-based)"
// @Param body body TypedAnswerRequest true "Answer text"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/sessions/current/answers/{index} [put]
func (c *AnswerController) SubmitTypedAnswer(ctx *gin.Context) {
	index, ok := questionIndex(ctx)
	if !ok {
		return
	}

	var req TypedAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.SubmitTypedAnswer(ctx.Request.Context(), util.GetSessionIDFromContext(ctx), index, req.Text)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"answer": session.Answers[index]})
}

// SubmitAudioAnswer godoc
// @Summary Submit a voice answer
// @Description Transcribes the recording and appends it to the question's answer. Re-sending the same recording is a no-op.
// @Tags answers
// @Accept multipart/form-data
// @Produce json
// @Param index path int true "Question index (0-based)"
// @Param audio formData file true "Audio recording"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response "Transcription failed"
// @Security BearerAuth
// @Router /api/sessions/current/answers/{index}/audio [post]
func (c *AnswerController) SubmitAudioAnswer(ctx *gin.Context) {
	index, ok := questionIndex(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		util.BadRequest(ctx, "audio is required")
		return
	}
	if fileHeader.Size > maxAudioBytes {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "recording too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	answer, added, err := c.SessionService.SubmitAudioAnswer(ctx.Request.Context(), util.GetSessionIDFromContext(ctx), index, fileHeader.Filename, audio)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyAudio):
			util.BadRequest(ctx, "recording is empty")
		case errors.Is(err, util.ErrTranscriptionFailed):
			util.Error(ctx, http.StatusBadGateway, "transcription failed, please retry")
		default:
			c.fail(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"answer":     answer,
		"transcribed": added,
	})
}

func (c *AnswerController) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrQuestionIndex):
		util.BadRequest(ctx, "question index out of range")
	default:
		util.LogInternalError(ctx, err)
	}
}

func questionIndex(ctx *gin.Context) (int, bool) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		util.BadRequest(ctx, "invalid question index")
		return 0, false
	}
	return index, true
}
