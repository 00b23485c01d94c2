package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Rakhulsr/mellomelt/app/utils/calc"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type StoreInfo struct {
	Name         string `mapstructure:"name" json:"name"`
	UPIID        string `mapstructure:"upi_id" json:"upiId"`
	UPIDisplay   string `mapstructure:"upi_display" json:"upiDisplay"`
	SupportEmail string `mapstructure:"support_email" json:"supportEmail"`
}

type PricingConfig struct {
	TaxRate               string `mapstructure:"tax_rate"`
	FreeDeliveryThreshold string `mapstructure:"free_delivery_threshold"`
	DeliveryFee           string `mapstructure:"delivery_fee"`
	CODSurcharge          string `mapstructure:"cod_surcharge"`
}

type CheckoutConfig struct {
	SubmitTimeout time.Duration `mapstructure:"submit_timeout"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// StoreConfig is the storefront's business configuration, as opposed to
// the deployment settings in ENV.
type StoreConfig struct {
	Store     StoreInfo       `mapstructure:"store"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

func setStoreDefaults(v *viper.Viper) {
	v.SetDefault("store.name", "Mello Melt")
	v.SetDefault("store.upi_id", "mellomelt@upi")
	v.SetDefault("store.upi_display", "mellomelt@upi")
	v.SetDefault("store.support_email", "hello@mellomelt.in")

	v.SetDefault("pricing.tax_rate", "0.05")
	v.SetDefault("pricing.free_delivery_threshold", "500")
	v.SetDefault("pricing.delivery_fee", "49")
	v.SetDefault("pricing.cod_surcharge", "29")

	v.SetDefault("checkout.submit_timeout", "10s")

	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.sweep_interval", "5m")

	v.SetDefault("rate_limit.per_second", 1.0)
	v.SetDefault("rate_limit.burst", 5)
}

// LoadStoreConfig reads the TOML file at path. A missing file falls back to
// defaults; STORE_* environment variables override either, e.g.
// STORE_PRICING_DELIVERY_FEE=59.
func LoadStoreConfig(path string, logger *zap.Logger) (*StoreConfig, error) {
	v := viper.New()
	setStoreDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read store config %s: %w", path, err)
		}
		logger.Warn("configs.LoadStoreConfig: store config not found, using defaults", zap.String("path", path))
	}

	var cfg StoreConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode store config: %w", err)
	}
	if _, err := cfg.CalcPricing(); err != nil {
		return nil, err
	}

	logger.Info("configs.LoadStoreConfig: store configuration loaded",
		zap.String("store", cfg.Store.Name),
		zap.String("tax_rate", cfg.Pricing.TaxRate),
		zap.String("free_delivery_threshold", cfg.Pricing.FreeDeliveryThreshold),
		zap.Duration("submit_timeout", cfg.Checkout.SubmitTimeout))
	return &cfg, nil
}

// CalcPricing parses the configured amounts. Negative values are rejected.
func (c StoreConfig) CalcPricing() (calc.Pricing, error) {
	var (
		p   calc.Pricing
		err error
	)
	if p.TaxRate, err = parseAmount("pricing.tax_rate", c.Pricing.TaxRate); err != nil {
		return calc.Pricing{}, err
	}
	if p.FreeDeliveryThreshold, err = parseAmount("pricing.free_delivery_threshold", c.Pricing.FreeDeliveryThreshold); err != nil {
		return calc.Pricing{}, err
	}
	if p.DeliveryFee, err = parseAmount("pricing.delivery_fee", c.Pricing.DeliveryFee); err != nil {
		return calc.Pricing{}, err
	}
	if p.CODSurcharge, err = parseAmount("pricing.cod_surcharge", c.Pricing.CODSurcharge); err != nil {
		return calc.Pricing{}, err
	}
	return p, nil
}

func parseAmount(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
