package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// TaxConfig is the store-facing part of tax.yml.
type TaxConfig struct {
	Stores []StoreConfig `mapstructure:"stores"`
}

type StoreConfig struct {
	Code           string        `mapstructure:"code"`
	Currency       string        `mapstructure:"currency"`
	DefaultLocale  string        `mapstructure:"defaultLocale"`
	ActiveTaxCodes []string      `mapstructure:"activeTaxCodes"`
	Warehouse      AddressConfig `mapstructure:"warehouse"`
	// Jurisdictions lists the region codes this store collects tax in. Empty means all.
	Jurisdictions []string `mapstructure:"jurisdictions"`
}

type AddressConfig struct {
	Street1         string `mapstructure:"street1"`
	Street2         string `mapstructure:"street2"`
	City            string `mapstructure:"city"`
	SubCountry      string `mapstructure:"subCountry"`
	ZipOrPostalCode string `mapstructure:"zipOrPostalCode"`
	Country         string `mapstructure:"country"`
}

func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		Stores: []StoreConfig{
			{
				Code:           "default",
				Currency:       "USD",
				DefaultLocale:  "en_US",
				ActiveTaxCodes: []string{"GENERAL", "SHIPPING"},
			},
		},
	}
}

// TaxConfigHolder serves the latest valid tax config; tax.yml is watched and reloaded.
type TaxConfigHolder struct {
	current    atomic.Value // holds TaxConfig
	generation atomic.Uint64
}

// NewStaticTaxConfigHolder wraps a fixed config, for tests and embedded use.
func NewStaticTaxConfigHolder(cfg TaxConfig) *TaxConfigHolder {
	holder := &TaxConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewTaxConfigHolder(log *zap.Logger) (*TaxConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("tax")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/taxengine/config")
	v.AddConfigPath("/etc/taxengine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TAXENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return loadTaxConfig(v, log)
}

// NewTaxConfigHolderFromFile reads and watches an explicit file.
func NewTaxConfigHolderFromFile(path string, log *zap.Logger) (*TaxConfigHolder, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return loadTaxConfig(v, log)
}

func loadTaxConfig(v *viper.Viper, log *zap.Logger) (*TaxConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("tax.config")

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
		v.SetDefault("tax.stores", DefaultTaxConfig().Stores)
	}

	cfg, err := unmarshalTaxConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticTaxConfigHolder(cfg)
	if !found {
		log.Warn("tax config not found, using defaults")
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalTaxConfig(v)
		if err != nil {
			log.Warn("tax config reload ignored", zap.Error(err))
			return
		}
		holder.Update(updated)
		log.Info("tax config reloaded",
			zap.String("file", e.Name),
			zap.Uint64("generation", holder.Generation()),
		)
	})
	v.WatchConfig()

	return holder, nil
}

// Update swaps in a new config and advances the generation.
func (h *TaxConfigHolder) Update(cfg TaxConfig) {
	h.current.Store(cfg)
	h.generation.Add(1)
}

// Generation counts reloads since start. Caches derived from the config key on it.
func (h *TaxConfigHolder) Generation() uint64 {
	if h == nil {
		return 0
	}
	return h.generation.Load()
}

func (h *TaxConfigHolder) Get() TaxConfig {
	return h.current.Load().(TaxConfig)
}

// Store returns the config of one store by code.
func (h *TaxConfigHolder) Store(code string) (StoreConfig, bool) {
	code = strings.TrimSpace(code)
	for _, s := range h.Get().Stores {
		if strings.EqualFold(s.Code, code) {
			return s, true
		}
	}
	return StoreConfig{}, false
}

func unmarshalTaxConfig(v *viper.Viper) (TaxConfig, error) {
	var cfg TaxConfig
	if err := v.UnmarshalKey("tax", &cfg); err != nil {
		return TaxConfig{}, err
	}
	if err := validateTaxConfig(cfg); err != nil {
		return TaxConfig{}, err
	}
	return cfg, nil
}

func validateTaxConfig(cfg TaxConfig) error {
	if len(cfg.Stores) == 0 {
		return errors.New("tax.stores cannot be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Stores))
	for _, s := range cfg.Stores {
		code := strings.ToLower(strings.TrimSpace(s.Code))
		if code == "" {
			return errors.New("tax.stores[].code is required")
		}
		if strings.TrimSpace(s.Currency) == "" {
			return fmt.Errorf("tax.stores[%s].currency is required", s.Code)
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("tax.stores[%s] is duplicated", s.Code)
		}
		seen[code] = struct{}{}
	}
	return nil
}
