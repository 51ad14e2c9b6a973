package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/application/recon"
	"github.com/jhoicas/minifig-profit/internal/domain"
)

// RunLister lista corridas archivadas (implementado por postgres.RunArchive).
type RunLister interface {
	LastRuns(ctx context.Context, limit int) ([]dto.RunHeader, error)
}

// ReportHandler maneja las peticiones del API de reportes. Cada GET /api/report
// ejecuta la reconciliación completa sobre los archivos actuales.
type ReportHandler struct {
	uc   *recon.ReconcileUseCase
	runs RunLister // nil si no hay archivo histórico configurado
}

// NewReportHandler construye el handler. runs puede ser nil.
func NewReportHandler(uc *recon.ReconcileUseCase, runs RunLister) *ReportHandler {
	return &ReportHandler{uc: uc, runs: runs}
}

// GetReport ejecuta la corrida y devuelve el resumen con el sobrante.
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	rep, err := h.uc.Run(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoOrders) || errors.Is(err, domain.ErrNoLists) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ReportResponse{
		RunID:       rep.RunID,
		StartedAt:   rep.StartedAt,
		Rows:        rep.Rows,
		Leftovers:   dto.NewInventoryRows(rep.Leftovers),
		TotalBuilds: rep.TotalBuilds,
		TotalCost:   rep.TotalCost,
	})
}

// GetRuns devuelve las últimas corridas archivadas.
func (h *ReportHandler) GetRuns(c *fiber.Ctx) error {
	if h.runs == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_ARCHIVE", Message: "archivo histórico no configurado"})
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 200 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit inválido"})
	}
	list, err := h.runs.LastRuns(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
