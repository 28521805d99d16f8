// Package docs registra la referencia OpenAPI de la interfaz REST en swag.
// swagger.json se mantiene junto a las anotaciones godoc de internal/interfaces/http.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos exportados de la API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Catalog API",
	Description:      "Gestión del catálogo de productos: REST, GraphQL (solo lectura) y canal de difusión WebSocket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
