package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/autogest-api/internal/application/analytics"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// DashboardHandler maneja el resumen del stock.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Resumen del stock
// @Description  Se recalcula en cada llamada. MASTER sin company_id ve todas las empresas.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Solo MASTER"
// @Success      200  {object}  dto.DashboardDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	out, err := h.uc.Dashboard(c.UserContext(), caller, c.Query("company_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
