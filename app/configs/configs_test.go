package configs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadStoreConfigDefaults(t *testing.T) {
	cfg, err := LoadStoreConfig(filepath.Join(t.TempDir(), "missing.toml"), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "Mello Melt", cfg.Store.Name)
	assert.Equal(t, 10*time.Second, cfg.Checkout.SubmitTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)

	p, err := cfg.CalcPricing()
	require.NoError(t, err)
	assert.True(t, p.TaxRate.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, p.FreeDeliveryThreshold.Equal(decimal.NewFromInt(500)))
	assert.True(t, p.DeliveryFee.Equal(decimal.NewFromInt(49)))
	assert.True(t, p.CODSurcharge.Equal(decimal.NewFromInt(29)))
}

func TestLoadStoreConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[store]
name = "Mello Melt Pune"

[pricing]
delivery_fee = "59"

[checkout]
submit_timeout = "3s"
`), 0o600))
	t.Setenv("STORE_PRICING_COD_SURCHARGE", "35")

	cfg, err := LoadStoreConfig(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Mello Melt Pune", cfg.Store.Name)
	assert.Equal(t, 3*time.Second, cfg.Checkout.SubmitTimeout)

	p, err := cfg.CalcPricing()
	require.NoError(t, err)
	assert.True(t, p.DeliveryFee.Equal(decimal.NewFromInt(59)))
	assert.True(t, p.CODSurcharge.Equal(decimal.NewFromInt(35)))
	assert.True(t, p.FreeDeliveryThreshold.Equal(decimal.NewFromInt(500)))
}

func TestLoadStoreConfigRejectsBadAmounts(t *testing.T) {
	t.Setenv("STORE_PRICING_DELIVERY_FEE", "-1")
	_, err := LoadStoreConfig(filepath.Join(t.TempDir(), "missing.toml"), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing.delivery_fee")
}

func TestSessionKeys(t *testing.T) {
	keys, generated, err := LoadSessionKeys(ENV{AppEnv: "development"})
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, keys.EncKey, 32)

	_, _, err = LoadSessionKeys(ENV{AppEnv: "production"})
	assert.ErrorIs(t, err, errKeysNotSet)

	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), ".env.new_keys")
	require.NoError(t, GenerateSessionKeys(&out, path))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	env := ENV{AppEnv: "production"}
	for _, line := range strings.Split(strings.TrimSpace(string(written)), "\n") {
		k, v, _ := strings.Cut(line, "=")
		switch k {
		case "APP_AUTH_KEY":
			env.AppAuthKey = v
		case "APP_ENC_KEY":
			env.AppEncKey = v
		}
	}
	keys, generated, err = LoadSessionKeys(env)
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Len(t, keys.AuthKey, 64)
}

func TestDSNs(t *testing.T) {
	env := ENV{DBHost: "db", DBUser: "melt", DBPassword: "s3cret", DBName: "shop", DBSSLMode: "disable"}

	dsn := MySQLDSN(env)
	assert.True(t, strings.HasPrefix(dsn, "melt:s3cret@tcp(db:3306)/shop?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Equal(t, "host=db port=5432 user=melt password=s3cret dbname=shop sslmode=disable", PostgresDSN(env))
}
