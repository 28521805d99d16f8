package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse cuerpo de /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Products int    `json:"products"`
}

// StringPtr ayuda a construir requests parciales.
func StringPtr(s string) *string { return &s }
