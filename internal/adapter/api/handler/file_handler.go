package handler

import (
	"io"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"ecofinds/internal/usecase"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
	"ecofinds/pkg/response"
)

type FileHandler struct {
	imageUseCase *usecase.ImageUseCase
}

func NewFileHandler(imageUseCase *usecase.ImageUseCase) *FileHandler {
	return &FileHandler{
		imageUseCase: imageUseCase,
	}
}

type deleteImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// UploadImages accepts up to five files in the multipart field "images".
func (h *FileHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid multipart form", err))
	}

	headers := form.File["images"]
	logger.Debug("Received %d image(s) for upload", len(headers))

	files := make([]usecase.ImageUpload, 0, len(headers))
	for _, header := range headers {
		files = append(files, usecase.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Open:        openPart(header),
		})
	}

	urls, err := h.imageUseCase.UploadImages(c.Request().Context(), getUserIDFromContext(c), files)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"image_urls": urls,
	})
}

func openPart(header *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return header.Open()
	}
}

func (h *FileHandler) DeleteImage(c echo.Context) error {
	var req deleteImageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.imageUseCase.DeleteImage(c.Request().Context(), req.ImageURL); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Image deleted successfully"})
}
