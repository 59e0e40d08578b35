package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autogest-api/internal/application/renave"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// HeaderSigned indica si el XML exportado va firmado.
const HeaderSigned = "X-Renave-Signed"

// RenaveHandler entrega los documentos RENAVE de un vehículo.
type RenaveHandler struct {
	uc  *renave.UseCase
	log *logger.Logger
}

// NewRenaveHandler construye el handler.
func NewRenaveHandler(uc *renave.UseCase, log *logger.Logger) *RenaveHandler {
	return &RenaveHandler{uc: uc, log: log}
}

// Certificate godoc
// @Summary      Certificado RENAVE en PDF
// @Tags         renave
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del vehículo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/renave/{id}/pdf [get]
func (h *RenaveHandler) Certificate(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	doc, err := h.uc.Certificate(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendDocument(c, doc, "application/pdf")
}

// ExportXML godoc
// @Summary      Exportación XML RENAVE
// @Description  Se firma cuando la empresa tiene credencial cargada (header X-Renave-Signed).
// @Tags         renave
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del vehículo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/renave/{id}/xml [get]
func (h *RenaveHandler) ExportXML(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	doc, err := h.uc.ExportXML(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(HeaderSigned, strconv.FormatBool(doc.Signed))
	return sendDocument(c, doc, "application/xml")
}

func sendDocument(c *fiber.Ctx, doc *renave.Document, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, doc.FileName))
	return c.Send(doc.Content)
}
