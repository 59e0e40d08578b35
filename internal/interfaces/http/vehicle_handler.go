package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/application/vehicle"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// VehicleHandler maneja el registro de vehículos (protegido).
type VehicleHandler struct {
	uc  *vehicle.UseCase
	log *logger.Logger
}

// NewVehicleHandler construye el handler.
func NewVehicleHandler(uc *vehicle.UseCase, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Dar de alta un vehículo
// @Description  SHOP_OPERATOR crea en su empresa; MASTER puede indicar company_id.
// @Tags         vehicles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVehicleRequest  true  "Datos del vehículo"
// @Success      201   {object}  dto.VehicleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vehicles [post]
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	var in dto.CreateVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), caller, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar vehículos
// @Tags         vehicles
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "IN_STOCK o SOLD"
// @Param        company_id  query  string  false  "Solo MASTER"
// @Success      200  {object}  dto.VehicleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/vehicles [get]
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	var in dto.ListVehiclesRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), caller, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener vehículo por ID
// @Tags         vehicles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vehículo"
// @Success      200  {object}  dto.VehicleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vehicles/{id} [get]
func (h *VehicleHandler) GetByID(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	out, err := h.uc.Get(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// IssueRegistration godoc
// @Summary      Emitir número RENAVE
// @Description  Asigna el número una única vez; un segundo intento devuelve 409.
// @Tags         vehicles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vehículo"
// @Success      200  {object}  dto.RegistrationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vehicles/{id}/renave [post]
func (h *VehicleHandler) IssueRegistration(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	out, err := h.uc.IssueRegistrationNumber(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Sell godoc
// @Summary      Registrar la venta
// @Tags         vehicles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del vehículo"
// @Param        body  body  dto.SellVehicleRequest  true  "Comprador y valor"
// @Success      200   {object}  dto.VehicleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vehicles/{id}/sell [post]
func (h *VehicleHandler) Sell(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	var in dto.SellVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Sell(c.UserContext(), caller, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar vehículo
// @Tags         vehicles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vehículo"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	caller, _ := GetCaller(c)
	out, err := h.uc.Delete(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
