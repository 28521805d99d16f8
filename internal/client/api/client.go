// Package api es el cliente HTTP del catálogo usado por la interfaz de terminal.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/catalog-api/internal/application/dto"
)

const maxResponseBytes = 4 << 20

// ErrNotFound se devuelve cuando el servidor responde 404.
var ErrNotFound = errors.New("api: producto no encontrado")

// StatusError describe una respuesta no exitosa del servidor.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

// Is permite errors.Is(err, ErrNotFound) sobre un 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client habla con la API REST del catálogo.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New construye el cliente. baseURL es del tipo "http://localhost:3000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// List obtiene el catálogo completo.
func (c *Client) List(ctx context.Context) ([]dto.ProductResponse, error) {
	var out []dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []dto.ProductResponse{}
	}
	return out, nil
}

// Get obtiene un producto por ID.
func (c *Client) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create da de alta un producto; el servidor asigna el ID.
func (c *Client) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update aplica un cambio parcial.
func (c *Client) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un producto.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("api: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("api: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("api: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Status: resp.StatusCode}
		var e dto.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &e); jsonErr == nil {
			serr.Code, serr.Message = e.Code, e.Message
		}
		return serr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: deserializar respuesta: %w", err)
	}
	return nil
}
