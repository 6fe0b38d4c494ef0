package controller

import (
	"errors"
	"io"
	"net/http"
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// maxDocumentBytes caps uploaded study material at 20MB.
const maxDocumentBytes = 20 << 20

type DocumentController struct {
	SessionService *service.SessionService
}

func NewDocumentController(sessionService *service.SessionService) *DocumentController {
	return &DocumentController{SessionService: sessionService}
}

// UploadDocument godoc
// @Summary Upload study material
// @Description Accepts a PDF, extracts its text and attaches it to the session
// @Tags document
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 200 {object} util.Response{data=SessionView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response "No extractable text"
// @Security BearerAuth
// @Router /api/sessions/current/document [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxDocumentBytes {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	session, err := c.SessionService.UploadDocument(ctx.Request.Context(), util.GetSessionIDFromContext(ctx), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEmptyDocument):
			util.UnprocessableEntity(ctx, "document contains no extractable text")
		case errors.Is(err, util.ErrExtractionFailed):
			util.UnprocessableEntity(ctx, "failed to read document")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, NewSessionView(session))
}
