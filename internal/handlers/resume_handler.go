package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type ResumeHandler struct {
	pool   services.PoolService
	limits Limits
}

func NewResumeHandler(pool services.PoolService, limits Limits) *ResumeHandler {
	return &ResumeHandler{
		pool:   pool,
		limits: limits,
	}
}

// HandleUpload pools every file sent as "resumes".
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	files, err := readUploads(c, h.limits)
	if err != nil {
		return toFiberError(err)
	}

	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest,
			"No valid files uploaded. Please upload one or more files as 'resumes'.")
	}

	docs, err := h.pool.Add(c.UserContext(), files)
	if err != nil {
		return toFiberError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Message:   "Files uploaded successfully",
		Documents: docs,
	})
}

func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	docs, err := h.pool.List()
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []models.Document{}
	}

	return c.JSON(models.ResumeListResponse{
		Resumes: docs,
		Total:   len(docs),
	})
}

// HandleDownload streams the original file of a pooled resume.
func (h *ResumeHandler) HandleDownload(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return toFiberError(err)
	}

	doc, content, err := h.pool.Open(id)
	if err != nil {
		return toFiberError(err)
	}

	c.Attachment(doc.OriginalFileName)
	return c.Send(content)
}

func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return toFiberError(err)
	}

	if err := h.pool.Delete(id); err != nil {
		return toFiberError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Resume deleted",
		"id":      id.String(),
	})
}

func resumeID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewInvalidInputError("id", "must be a valid UUID")
	}
	return id, nil
}
