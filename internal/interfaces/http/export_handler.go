package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-api/internal/application/usecase"
)

// ExportHandler descarga la lista de precios.
type ExportHandler struct {
	uc *usecase.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *usecase.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// PriceListPDF godoc
// @Summary      Lista de precios en PDF
// @Tags         products
// @Produce      application/pdf
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /products/export/pdf [get]
func (h *ExportHandler) PriceListPDF(c *fiber.Ctx) error {
	doc, err := h.uc.PriceList(c.UserContext(), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="lista-de-precios.pdf"`)
	return c.Send(doc)
}
