package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Notifier NotifierConfig
	Catalog  CatalogConfig
	Docs     DocsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig configuración del servidor HTTP (REST, GraphQL, docs).
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NotifierConfig configuración del canal de difusión en tiempo real (WebSocket, puerto propio).
type NotifierConfig struct {
	Host string
	Port int
	// BroadcastChanges publica las altas/cambios/bajas del catálogo a los oyentes conectados.
	BroadcastChanges bool
}

// Addr devuelve la dirección de escucha (host:port).
func (c NotifierConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig configuración del archivo plano que guarda el catálogo.
type CatalogConfig struct {
	File  string // ruta al documento JSON {"products": [...]}
	Watch bool   // recargar si otro proceso modifica el archivo
}

// DocsConfig ubicación del documento OpenAPI servido en /docs.
type DocsConfig struct {
	File string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, CATALOG_FILE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "catalog-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Notifier: NotifierConfig{
			Host:             getString(v, "NOTIFIER_HOST", "0.0.0.0"),
			Port:             getInt(v, "NOTIFIER_PORT", 8080),
			BroadcastChanges: getBool(v, "NOTIFIER_BROADCAST_CHANGES", false),
		},
		Catalog: CatalogConfig{
			File:  getString(v, "CATALOG_FILE", "products.json"),
			Watch: getBool(v, "CATALOG_WATCH", false),
		},
		Docs: DocsConfig{
			File: getString(v, "DOCS_FILE", "./docs/swagger.json"),
		},
	}

	if cfg.Catalog.File == "" {
		return nil, fmt.Errorf("CATALOG_FILE no puede estar vacío")
	}
	if cfg.HTTP.Port == cfg.Notifier.Port {
		return nil, fmt.Errorf("HTTP_PORT y NOTIFIER_PORT deben ser distintos (%d)", cfg.HTTP.Port)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
