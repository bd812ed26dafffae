package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/stock"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/pkg/validator"
)

// StockHandler maneja compras, mermas y lecturas del libro de lotes (protegido).
type StockHandler struct {
	purchase *stock.PurchaseUseCase
	waste    *stock.WasteUseCase
	ledger   *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(purchase *stock.PurchaseUseCase, waste *stock.WasteUseCase, ledger *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{purchase: purchase, waste: waste, ledger: ledger}
}

// RegisterPurchase godoc
// @Summary      Registrar compra de insumo
// @Description  Normaliza la cantidad a unidad base, ajusta por merma declarada y fusiona en el lote abierto más reciente (promedio ponderado) o crea lote nuevo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseRequest  true  "ingredient_id, quantity, unit, total_price"
// @Success      201   {object}  dto.StockBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/purchases [post]
func (h *StockHandler) RegisterPurchase(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "errors": errs})
	}
	batch, err := h.purchase.RegisterPurchase(c.Context(), stock.PurchaseInput{
		UserID:       GetUserID(c),
		IngredientID: in.IngredientID,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		TotalPrice:   in.TotalPrice,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockBatchResponse(batch))
}

// RecordWaste godoc
// @Summary      Registrar merma contra un lote
// @Description  Mueve cantidad de restante a mermado y deja registro inmutable. Falla con 409 si excede el restante del lote.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordWasteRequest  true  "stock_batch_id, quantity, unit, reason"
// @Success      201   {object}  dto.WasteRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/waste [post]
func (h *StockHandler) RecordWaste(c *fiber.Ctx) error {
	var in dto.RecordWasteRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "errors": errs})
	}
	rec, err := h.waste.RecordWaste(c.Context(), stock.WasteInput{
		UserID:       GetUserID(c),
		StockBatchID: in.StockBatchID,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		Reason:       in.Reason,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.WasteRecordResponse{
		ID:           rec.ID,
		StockBatchID: rec.StockBatchID,
		Quantity:     rec.Quantity,
		Reason:       rec.Reason,
		CreatedAt:    rec.CreatedAt,
	})
}

// ListBatches godoc
// @Summary      Lotes de un insumo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ingredient ID"
// @Success      200  {array}  dto.StockBatchResponse
// @Router       /api/ingredients/{id}/batches [get]
func (h *StockHandler) ListBatches(c *fiber.Ctx) error {
	batches, err := h.ledger.ListBatches(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.StockBatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toStockBatchResponse(b))
	}
	return c.JSON(out)
}

// ListBatchWaste godoc
// @Summary      Mermas registradas contra un lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "stock batch ID"
// @Success      200  {array}  dto.WasteRecordResponse
// @Router       /api/stock/batches/{id}/waste [get]
func (h *StockHandler) ListBatchWaste(c *fiber.Ctx) error {
	records, err := h.ledger.ListWasteByBatch(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.WasteRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.WasteRecordResponse{
			ID:           rec.ID,
			StockBatchID: rec.StockBatchID,
			Quantity:     rec.Quantity,
			Reason:       rec.Reason,
			CreatedAt:    rec.CreatedAt,
		})
	}
	return c.JSON(out)
}

// ListWaste godoc
// @Summary      Mermas del usuario
// @Description  Registros de merma de todos los lotes del usuario, los más recientes primero.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.WasteRecordResponse
// @Router       /api/stock/waste [get]
func (h *StockHandler) ListWaste(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	page.DefaultPage()
	records, err := h.ledger.ListWaste(c.Context(), GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.WasteRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.WasteRecordResponse{
			ID:           rec.ID,
			StockBatchID: rec.StockBatchID,
			Quantity:     rec.Quantity,
			Reason:       rec.Reason,
			CreatedAt:    rec.CreatedAt,
		})
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valorización del stock restante
// @Description  Restante total por insumo multiplicado por su costo real vigente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ValuationItemResponse
// @Router       /api/stock/valuation [get]
func (h *StockHandler) Valuation(c *fiber.Ctx) error {
	items, err := h.ledger.Valuation(c.Context(), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toValuationResponses(items))
}

// LowStock godoc
// @Summary      Insumos con stock por debajo del umbral
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  number  false  "umbral en unidad base (default 0)"
// @Success      200  {array}  dto.ValuationItemResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	threshold := decimal.Zero
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return badRequest(c, "INVALID_QUERY", "threshold inválido")
		}
		threshold = parsed
	}
	items, err := h.ledger.LowStock(c.Context(), GetUserID(c), threshold)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toValuationResponses(items))
}

func toStockBatchResponse(b *entity.StockBatch) dto.StockBatchResponse {
	return dto.StockBatchResponse{
		ID:                  b.ID,
		IngredientID:        b.IngredientID,
		PurchasedQuantity:   b.PurchasedQuantity,
		Unit:                string(b.Unit),
		TotalPurchasedPrice: b.TotalPurchasedPrice,
		PricePerBaseUnit:    b.PricePerBaseUnit,
		WastePercent:        b.WastePercent,
		RemainingQuantity:   b.RemainingQuantity,
		WastedQuantity:      b.WastedQuantity,
		PurchasedAt:         b.PurchasedAt,
	}
}

func toValuationResponses(items []stock.ValuationItem) []dto.ValuationItemResponse {
	out := make([]dto.ValuationItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ValuationItemResponse{
			IngredientID:   it.IngredientID,
			IngredientName: it.IngredientName,
			Unit:           it.Unit,
			Remaining:      it.Remaining,
			CostPerBase:    it.CostPerBase,
			Value:          it.Value,
		})
	}
	return out
}
