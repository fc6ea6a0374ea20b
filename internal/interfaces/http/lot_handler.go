package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/dto"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/lots"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

// LotHandler maneja las peticiones HTTP para lotes, su ledger y la asignación
// FIFO/FEFO (protegido).
type LotHandler struct {
	uc *lots.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *lots.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Receive godoc
// @Summary      Recibir un lote (compra)
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.ReceiveLot(c.Context(), lots.ReceiveLotInput{
		CompanyID:         GetCompanyID(c),
		UserID:            GetUserID(c),
		ProductID:         in.ProductID,
		LotNumber:         in.LotNumber,
		Quantity:          in.Quantity,
		UnitCost:          in.UnitCost,
		ManufacturingDate: in.ManufacturingDate,
		ExpiryDate:        in.ExpiryDate,
		SupplierID:        in.SupplierID,
		PurchaseOrderID:   in.PurchaseOrderID,
	})
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLotResponse(out, time.Now()))
}

// List godoc
// @Summary      Listar lotes
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        status      query  string  false  "Filtrar por estado"  Enums(new, in_use, finished, damaged)
// @Param        limit       query  int     false  "Límite"   default(50)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.LotResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	status := entity.LotStatus(c.Query("status"))
	out, err := h.uc.ListLots(c.Context(), GetCompanyID(c), c.Query("product_id"), status,
		c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return RespondError(c, err)
	}
	now := time.Now()
	resp := make([]*dto.LotResponse, 0, len(out))
	for _, l := range out {
		resp = append(resp, dto.ToLotResponse(l, now))
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetLot(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.ToLotResponse(out, time.Now()))
}

// RecordTransaction godoc
// @Summary      Registrar una transacción sobre un lote
// @Description  Tipos: sale, damage, adjustment, return, transfer. La fila del
// @Description  ledger y la actualización del lote van en la misma transacción.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.RecordTransactionRequest  true  "Transacción"
// @Success      200   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/transactions [post]
func (h *LotHandler) RecordTransaction(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.RecordTransaction(c.Context(), lots.TransactionInput{
		CompanyID:     GetCompanyID(c),
		UserID:        GetUserID(c),
		LotID:         c.Params("id"),
		Type:          in.Type,
		Quantity:      in.Quantity,
		Direction:     in.Direction,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
	})
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.ToLotResponse(out, time.Now()))
}

// ListTransactions godoc
// @Summary      Historial del ledger de un lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del lote"
// @Param        limit   query  int     false  "Límite"   default(100)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.LotTransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/transactions [get]
func (h *LotHandler) ListTransactions(c *fiber.Ctx) error {
	out, err := h.uc.ListTransactions(c.Context(), GetCompanyID(c), c.Params("id"),
		c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return RespondError(c, err)
	}
	resp := make([]*dto.LotTransactionResponse, 0, len(out))
	for _, t := range out {
		resp = append(resp, dto.ToLotTransactionResponse(t))
	}
	return c.JSON(resp)
}

// ChangeStatus godoc
// @Summary      Cambiar el estado de un lote
// @Description  Transiciones válidas: new→in_use, in_use→finished, new/in_use→damaged.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.ChangeStatusRequest  true  "Nuevo estado y motivo"
// @Success      200   {object}  dto.LotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/status [post]
func (h *LotHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	err := h.uc.ChangeStatus(c.Context(), lots.ChangeStatusInput{
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
		LotID:     c.Params("id"),
		NewStatus: in.Status,
		Notes:     in.Notes,
	})
	if err != nil {
		return RespondError(c, err)
	}
	out, err := h.uc.GetLot(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.ToLotResponse(out, time.Now()))
}

// Open godoc
// @Summary      Apertura masiva de lotes (new → in_use)
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenLotsRequest  true  "IDs de lotes"
// @Success      200   {object}  lots.OpenLotsResult
// @Router       /api/lots/open [post]
func (h *LotHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenLotsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.OpenLots(c.Context(), GetCompanyID(c), GetUserID(c), in.LotIDs)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(out)
}

// Reserve godoc
// @Summary      Reservar cantidad de un lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.ReserveRequest  true  "Cantidad a reservar"
// @Success      200   {object}  dto.LotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/reserve [post]
func (h *LotHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if err := h.uc.Reserve(c.Context(), GetCompanyID(c), c.Params("id"), in.Quantity); err != nil {
		return RespondError(c, err)
	}
	return h.GetByID(c)
}

// Unreserve godoc
// @Summary      Liberar cantidad reservada de un lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.ReserveRequest  true  "Cantidad a liberar"
// @Success      200   {object}  dto.LotResponse
// @Router       /api/lots/{id}/unreserve [post]
func (h *LotHandler) Unreserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if err := h.uc.Unreserve(c.Context(), GetCompanyID(c), c.Params("id"), in.Quantity); err != nil {
		return RespondError(c, err)
	}
	return h.GetByID(c)
}

// Reconciliation godoc
// @Summary      Conciliar cantidad almacenada vs ledger
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  lots.ReconciliationReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/reconciliation [get]
func (h *LotHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.uc.ReconcileLot(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(out)
}

// ExpirySweep godoc
// @Summary      Barrido de lotes vencidos (new/in_use → damaged)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte RFC3339, nunca futura (default ahora)"
// @Success      200  {object}  map[string][]string
// @Router       /api/lots/expiry-sweep [post]
func (h *LotHandler) ExpirySweep(c *fiber.Ctx) error {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "as_of debe ser RFC3339")
		}
		asOf = parsed
	}
	// El barrido manual solo alcanza los lotes de la empresa del caller
	swept, err := h.uc.ExpirySweep(c.Context(), GetCompanyID(c), asOf)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"swept": swept})
}

// Plan godoc
// @Summary      Plan de asignación FIFO/FEFO (consultivo, no confirma)
// @Tags         allocation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocationPlanRequest  true  "Producto y cantidad"
// @Success      200   {object}  lot.AllocationPlan
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/allocation/plan [post]
func (h *LotHandler) Plan(c *fiber.Ctx) error {
	var in dto.AllocationPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Allocate(c.Context(), GetCompanyID(c), in.ProductID, in.Quantity)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Confirmar asignación FIFO/FEFO
// @Description  Bloquea los lotes candidatos, recalcula el plan y consume cada
// @Description  línea en una sola transacción. Sin stock suficiente y sin
// @Description  allow_partial no se confirma nada.
// @Tags         allocation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocationCommitRequest  true  "Petición de confirmación"
// @Success      200   {object}  lot.AllocationPlan
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocation/commit [post]
func (h *LotHandler) Commit(c *fiber.Ctx) error {
	var in dto.AllocationCommitRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.AllocateAndCommit(c.Context(), lots.CommitAllocationInput{
		CompanyID:     GetCompanyID(c),
		UserID:        GetUserID(c),
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		AllowPartial:  in.AllowPartial,
		Overrides:     in.Overrides,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
	})
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Disponibilidad agregada de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  entity.ProductAvailability
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/availability [get]
func (h *LotHandler) Availability(c *fiber.Ctx) error {
	out, err := h.uc.Availability(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(out)
}
