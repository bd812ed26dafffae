package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/product"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/pkg/validator"
)

// ProductHandler maneja productos, recetas y simulaciones what-if (protegido).
type ProductHandler struct {
	uc *product.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *product.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto con receta
// @Description  Costea cada línea con el costo real vigente del insumo y deriva margen y estado de rentabilidad.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "name, sell_price, recipe"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "errors": errs})
	}
	p, lines, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(p, lines))
}

// GetByID godoc
// @Summary      Obtener producto con receta
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "product ID"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, lines, err := h.uc.GetByID(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toProductResponse(p, lines))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p, nil))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Si viene receta, la reemplaza completa; costo, margen y estado se recalculan siempre.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "product ID"
// @Param        body  body  dto.UpdateProductRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "errors": errs})
	}
	p, lines, err := h.uc.Update(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toProductResponse(p, lines))
}

// Delete godoc
// @Summary      Eliminar producto y su receta
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "product ID"
// @Success      204
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SimulatePrice godoc
// @Summary      Simular cambio de precio
// @Description  Aplica un delta hipotético sobre un conjunto de productos y devuelve margen y estado resultantes. No muta estado.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PriceSimulationRequest  true  "product_ids, price_delta"
// @Success      200   {array}  dto.PriceSimulationItem
// @Router       /api/products/simulations/price [post]
func (h *ProductHandler) SimulatePrice(c *fiber.Ctx) error {
	var in dto.PriceSimulationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "errors": errs})
	}
	items, err := h.uc.SimulatePriceChange(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(items)
}

// SimulateSwap godoc
// @Summary      Simular sustitución de insumo
// @Description  Recalcula el costo del producto sustituyendo un insumo de la receta por otro compatible, opcionalmente con sobreprecio. No muta estado.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "product ID"
// @Param        body  body  dto.SwapSimulationRequest  true  "from_ingredient_id, to_ingredient_id, upcharge"
// @Success      200   {object}  dto.SwapSimulationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/simulations/swap [post]
func (h *ProductHandler) SimulateSwap(c *fiber.Ctx) error {
	var in dto.SwapSimulationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "errors": errs})
	}
	res, err := h.uc.SimulateIngredientSwap(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(res)
}

func toProductResponse(p *entity.Product, lines []*entity.RecipeLine) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SellPrice:     p.SellPrice,
		TotalCost:     p.TotalCost,
		MarginAmount:  p.MarginAmount,
		MarginPercent: p.MarginPercent,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, l := range lines {
		resp.Recipe = append(resp.Recipe, dto.RecipeLineResponse{
			ID:           l.ID,
			IngredientID: l.IngredientID,
			Quantity:     l.Quantity,
			Unit:         string(l.Unit),
			IsOptional:   l.IsOptional,
			LineCost:     l.LineCost,
		})
	}
	return resp
}
