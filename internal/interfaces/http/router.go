package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/application/usecase"
	catalogql "github.com/jhoicas/catalog-api/internal/interfaces/graphql"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName   string
	CatalogUC *usecase.CatalogUseCase
	ExportUC  *usecase.ExportUseCase
	GraphQL   *catalogql.Executor
}

// Router registra las rutas de la API. Sin autenticación: el catálogo es público.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status:   "ok",
			Service:  deps.AppName,
			Products: deps.CatalogUC.Count(c.UserContext()),
		})
	})

	// Products (REST)
	products := app.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	if deps.ExportUC != nil {
		// antes de /:id para que "export" no se tome como ID
		products.Get("/export/pdf", NewExportHandler(deps.ExportUC).PriceListPDF)
	}
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// GraphQL (solo consultas)
	if deps.GraphQL != nil {
		graphqlHandler := NewGraphQLHandler(deps.GraphQL)
		app.Get("/graphql", graphqlHandler.Query)
		app.Post("/graphql", graphqlHandler.Query)
	}
}
