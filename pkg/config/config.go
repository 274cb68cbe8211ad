package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"evmfmt/pkg/numfmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const ConfigFileName = ".evmfmt.json"

// Environment overrides, usually supplied through a .env file.
const (
	EnvLocale       = "EVMFMT_LOCALE"
	EnvCurrency     = "EVMFMT_CURRENCY"
	EnvRPCURLs      = "EVMFMT_RPC_URLS"
	EnvFiatDecimals = "EVMFMT_FIAT_DECIMALS"
)

var ErrNoRPC = errors.New("no RPC URLs configured")

// Config holds the display settings and the RPC endpoints used by the
// chain commands.
type Config struct {
	Locale             string   `json:"locale"`
	Currency           string   `json:"currency"`
	CurrencySymbol     string   `json:"currency_symbol"`
	FiatDecimals       int      `json:"fiat_decimals"`
	TokenDecimals      int      `json:"token_decimals"`
	MagnitudePrecision int      `json:"magnitude_precision"`
	HexLength          int      `json:"hex_length"`
	RPCURLs            []string `json:"rpc_urls,omitempty"`
}

func Default() Config {
	return Config{
		Locale:             "en-US",
		Currency:           "USD",
		CurrencySymbol:     "$",
		FiatDecimals:       numfmt.DefaultDecimals,
		TokenDecimals:      4,
		MagnitudePrecision: numfmt.DefaultMagnitudePrecision,
		HexLength:          numfmt.DefaultHexLength,
	}
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// LoadConfigFromFile reads path, returning the defaults when it does not
// exist.
func LoadConfigFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return LoadConfig(f)
}

// LoadConfig decodes a config document. Missing keys keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var raw struct {
		Locale             *string  `json:"locale"`
		Currency           *string  `json:"currency"`
		CurrencySymbol     *string  `json:"currency_symbol"`
		FiatDecimals       *int     `json:"fiat_decimals"`
		TokenDecimals      *int     `json:"token_decimals"`
		MagnitudePrecision *int     `json:"magnitude_precision"`
		HexLength          *int     `json:"hex_length"`
		RPCURLs            []string `json:"rpc_urls"`
		RPCURL             string   `json:"rpc_url"` // Legacy
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if raw.Locale != nil {
		cfg.Locale = *raw.Locale
	}
	if raw.Currency != nil {
		cfg.Currency = *raw.Currency
	}
	if raw.CurrencySymbol != nil {
		cfg.CurrencySymbol = *raw.CurrencySymbol
	} else if cfg.Currency != Default().Currency {
		cfg.CurrencySymbol = ""
	}
	if raw.FiatDecimals != nil {
		cfg.FiatDecimals = *raw.FiatDecimals
	}
	if raw.TokenDecimals != nil {
		cfg.TokenDecimals = *raw.TokenDecimals
	}
	if raw.MagnitudePrecision != nil {
		cfg.MagnitudePrecision = *raw.MagnitudePrecision
	}
	if raw.HexLength != nil {
		cfg.HexLength = *raw.HexLength
	}
	cfg.RPCURLs = raw.RPCURLs
	if len(cfg.RPCURLs) == 0 && raw.RPCURL != "" {
		cfg.RPCURLs = []string{raw.RPCURL}
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv
// outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLocale); ok && strings.TrimSpace(v) != "" {
		c.Locale = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvCurrency); ok && strings.TrimSpace(v) != "" {
		if cur := strings.ToUpper(strings.TrimSpace(v)); cur != c.Currency {
			c.Currency = cur
			// The old symbol belongs to the old currency.
			c.CurrencySymbol = ""
		}
	}
	if v, ok := lookup(EnvRPCURLs); ok && strings.TrimSpace(v) != "" {
		c.RPCURLs = SplitList(v)
	}
	if v, ok := lookup(EnvFiatDecimals); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFiatDecimals, err)
		}
		c.FiatDecimals = n
	}
	return c.Validate()
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) Validate() error {
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("validation failed: locale %q: %w", c.Locale, err)
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("validation failed: currency %q: %w", c.Currency, err)
	}
	if c.FiatDecimals < 0 || c.TokenDecimals < 0 || c.MagnitudePrecision < 0 {
		return fmt.Errorf("validation failed: decimal counts must not be negative")
	}
	if c.HexLength < 0 {
		return fmt.Errorf("validation failed: hex_length must not be negative")
	}
	return nil
}

// FormatterOptions builds the numfmt configuration for this config.
func (c Config) FormatterOptions() (numfmt.Options, error) {
	if err := c.Validate(); err != nil {
		return numfmt.Options{}, err
	}
	opts := numfmt.DefaultOptions()
	opts.Locale = language.Make(c.Locale)
	opts.Currency = currency.MustParseISO(c.Currency)
	opts.CurrencySymbol = c.CurrencySymbol
	opts.Decimals = c.FiatDecimals
	opts.MagnitudePrecision = c.MagnitudePrecision
	opts.TokenDecimals = c.TokenDecimals
	if c.HexLength > 0 {
		opts.HexLength = c.HexLength
	}
	return opts, nil
}

// RequireRPC returns the configured RPC URLs or ErrNoRPC.
func (c Config) RequireRPC() ([]string, error) {
	if len(c.RPCURLs) == 0 {
		return nil, ErrNoRPC
	}
	return c.RPCURLs, nil
}

func SaveConfig(cfg Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Create a backup of the existing file
	if _, err := os.Stat(path); err == nil {
		backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read existing config for backup: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return fmt.Errorf("failed to write backup config: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func RestoreLastBackup(configPath string) error {
	matches, err := filepath.Glob(configPath + ".*.bak")
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no backup files found")
	}
	sort.Strings(matches)
	lastBackup := matches[len(matches)-1]

	data, err := os.ReadFile(lastBackup)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}
