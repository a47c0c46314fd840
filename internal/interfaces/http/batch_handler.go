package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

// BatchHandler historial de cargas.
type BatchHandler struct {
	uc  *ingest.BatchUseCase
	log *logger.Logger
}

func NewBatchHandler(uc *ingest.BatchUseCase, log *logger.Logger) *BatchHandler {
	return &BatchHandler{uc: uc, log: log}
}

// uploaderFilter sin view_all el usuario solo ve sus propios lotes.
func uploaderFilter(c *fiber.Ctx) string {
	if GetCapabilities(c).CanViewAll {
		return ""
	}
	return GetUserID(c)
}

// List GET /api/batches?limit=&offset=
func (h *BatchHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: paginación", domain.ErrInvalidInput))
	}
	out, err := h.uc.List(c.Context(), uploaderFilter(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get GET /api/batches/:id
func (h *BatchHandler) Get(c *fiber.Ctx) error {
	id, err := batchID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Get(c.Context(), id, uploaderFilter(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/batches/:id (borrado lógico). Requiere el permiso delete.
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	id, err := batchID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.uc.Delete(c.Context(), id, GetUserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Lote eliminado"})
}

func batchID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id de lote %q", domain.ErrInvalidInput, c.Params("id"))
	}
	return id, nil
}
