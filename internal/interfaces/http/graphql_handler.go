package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	catalogql "github.com/jhoicas/catalog-api/internal/interfaces/graphql"
)

// GraphQLHandler atiende la interfaz de consulta tipada en un único endpoint.
type GraphQLHandler struct {
	ex *catalogql.Executor
}

// NewGraphQLHandler construye el handler.
func NewGraphQLHandler(ex *catalogql.Executor) *GraphQLHandler {
	return &GraphQLHandler{ex: ex}
}

// Query godoc
// @Summary      Consulta GraphQL (products, product(id))
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /graphql [post]
func (h *GraphQLHandler) Query(c *fiber.Ctx) error {
	var req catalogql.Request
	if c.Method() == fiber.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "variables inválidas"})
			}
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query es requerido"})
	}
	return c.JSON(h.ex.Execute(c.UserContext(), req))
}
