package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Addr())
	assert.Equal(t, "0.0.0.0:8080", cfg.Notifier.Addr())
	assert.Equal(t, "products.json", cfg.Catalog.File)
	assert.False(t, cfg.Catalog.Watch)
	assert.False(t, cfg.Notifier.BroadcastChanges)
}

func TestFromViper_EnvStrings(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "4000")
	v.Set("NOTIFIER_PORT", "4001")
	v.Set("CATALOG_WATCH", "true")
	v.Set("CATALOG_FILE", "/tmp/catalogo.json")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, 4001, cfg.Notifier.Port)
	assert.True(t, cfg.Catalog.Watch)
	assert.Equal(t, "/tmp/catalogo.json", cfg.Catalog.File)
}

func TestFromViper_PuertosIgualesEsError(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", 9000)
	v.Set("NOTIFIER_PORT", 9000)

	_, err := fromViper(v)
	assert.Error(t, err, "ambos listeners no pueden compartir puerto")
}
