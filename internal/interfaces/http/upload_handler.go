package http

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

// UploadHandler recibe el libro Excel y lanza la carga.
type UploadHandler struct {
	uc  *ingest.IngestUseCase
	dir string
	log *logger.Logger
}

// NewUploadHandler construye el handler. dir es donde se guardan los archivos subidos.
func NewUploadHandler(uc *ingest.IngestUseCase, dir string, log *logger.Logger) *UploadHandler {
	return &UploadHandler{uc: uc, dir: dir, log: log}
}

// Upload POST /api/uploads (multipart, campo "file"). Requiere el permiso upload.
//
// El archivo se guarda con un nombre UUID conservando la extensión; el nombre original
// queda en el lote. Respuesta: dto.IngestResponse.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.IngestResponse{
			Success: false, Message: "Seleccione un archivo para cargar",
		})
	}

	// Validación previa a guardar en disco.
	if err := h.uc.ValidateFile(file.Filename, file.Size); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ingest.Respond(nil, err))
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return respondError(c, h.log, err)
	}
	stored := filepath.Join(h.dir, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	if err := c.SaveFile(file, stored); err != nil {
		return respondError(c, h.log, err)
	}

	summary, err := h.uc.IngestFile(c.Context(), ingest.IngestRequest{
		FileName: file.Filename,
		FileSize: file.Size,
		FilePath: stored,
		Caller:   GetCaller(c),
	})
	resp := ingest.Respond(summary, err)
	if err == nil {
		return c.JSON(resp)
	}

	if ingest.IsRejected(err) {
		// Nada quedó registrado: el archivo guardado no pertenece a ningún lote.
		_ = os.Remove(stored)
	}
	status := fiber.StatusInternalServerError
	var perr *ingest.PipelineError
	switch {
	case errors.Is(err, domain.ErrIngestionBusy):
		status = fiber.StatusConflict
	case ingest.IsRejected(err):
		status = fiber.StatusBadRequest
	case errors.As(err, &perr):
		h.log.Error().Err(perr.Err).Int64("batch_id", perr.BatchID).Msg("carga fallida")
	default:
		h.log.Error().Err(err).Msg("carga fallida")
	}
	return c.Status(status).JSON(resp)
}
