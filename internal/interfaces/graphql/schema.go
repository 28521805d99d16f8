// Package graphql expone la interfaz de consulta tipada (solo lectura) sobre CatalogUseCase:
//
//	type Product { id: ID!, name: String!, price: Float!, description: String, categories: [String] }
//	type Query   { products: [Product], product(id: ID!): Product }
package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/application/usecase"
	"github.com/jhoicas/catalog-api/internal/domain"
)

// Request cuerpo estándar de una petición GraphQL.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Executor ejecuta consultas contra el esquema del catálogo.
type Executor struct {
	schema graphql.Schema
}

// NewExecutor construye el esquema sobre el caso de uso compartido con REST.
func NewExecutor(uc *usecase.CatalogUseCase) (*Executor, error) {
	schema, err := newSchema(uc)
	if err != nil {
		return nil, fmt.Errorf("graphql: construir esquema: %w", err)
	}
	return &Executor{schema: schema}, nil
}

// Execute resuelve la consulta. Los errores de resolución van dentro del Result.
func (e *Executor) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func newSchema(uc *usecase.CatalogUseCase) (graphql.Schema, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: field(func(p *dto.ProductResponse) interface{} { return p.ID }),
			},
			"name": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: field(func(p *dto.ProductResponse) interface{} { return p.Name }),
			},
			"price": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Float),
				Resolve: field(func(p *dto.ProductResponse) interface{} { return p.Price.InexactFloat64() }),
			},
			"description": &graphql.Field{
				Type:    graphql.String,
				Resolve: field(func(p *dto.ProductResponse) interface{} { return p.Description }),
			},
			"categories": &graphql.Field{
				Type:    graphql.NewList(graphql.String),
				Resolve: field(func(p *dto.ProductResponse) interface{} { return p.Categories }),
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return uc.List(p.Context)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					out, err := uc.GetByID(p.Context, id)
					if errors.Is(err, domain.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// field adapta un getter sobre ProductResponse a un resolver; acepta valor o puntero.
func field(get func(*dto.ProductResponse) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		switch src := p.Source.(type) {
		case *dto.ProductResponse:
			return get(src), nil
		case dto.ProductResponse:
			return get(&src), nil
		default:
			return nil, fmt.Errorf("graphql: fuente inesperada %T", p.Source)
		}
	}
}
