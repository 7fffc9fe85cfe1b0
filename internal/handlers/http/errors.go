package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// respondError traduz o erro no envelope padrão; erros internos são logados
func respondError(c *gin.Context, logger ports.Logger, err error) {
	status, response := dto.NewErrorResponse(c, err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.JSON(status, response)
}

// respondBindError responde 400 com os erros de validação por campo
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse(c, dto.FieldErrors(err)))
}

// pathID lê um parâmetro de rota que precisa ser UUID
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		status, response := dto.NewErrorResponse(c, domainerrors.ErrInvalidID)
		c.JSON(status, response)
		return "", false
	}
	return id, true
}

// uploads guarda as imagens image1/image2 abertas de um formulário multipart
type uploads struct {
	image1 *services.ImageUpload
	image2 *services.ImageUpload
	files  []multipart.File
}

// readUploads abre as imagens enviadas; campos ausentes ficam nil.
// O chamador fecha os arquivos com Close.
func readUploads(c *gin.Context) (*uploads, error) {
	u := &uploads{}

	for i, field := range []string{"image1", "image2"} {
		header, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				continue
			}
			u.Close()
			return nil, domainerrors.ErrInvalidImage
		}

		file, err := header.Open()
		if err != nil {
			u.Close()
			return nil, err
		}
		u.files = append(u.files, file)

		upload := &services.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
		if i == 0 {
			u.image1 = upload
		} else {
			u.image2 = upload
		}
	}
	return u, nil
}

func (u *uploads) Close() {
	for _, file := range u.files {
		_ = file.Close()
	}
}
