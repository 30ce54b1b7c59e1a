package di

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"lens-agent/internal/domain/entity"
	"lens-agent/internal/infrastructure/env"
	"lens-agent/internal/infrastructure/llm/openai"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultAddr    = ":8080"
	DefaultChainID = int64(37111)
)

// Config carries everything the container needs. Build it with LoadConfig
// or by hand, then Validate before wiring.
type Config struct {
	APIKey string
	// AccountKey is the wallet private key, hex with optional 0x prefix.
	AccountKey  string
	RPCEndpoint string
	Model       string
	// BaseURL overrides the OpenAI endpoint. Empty uses the default.
	BaseURL string
	Addr    string
	ChainID int64
}

func LoadConfig(e *env.EnvService) Config {
	return Config{
		APIKey:      e.Get("OPENAI_API_KEY"),
		AccountKey:  e.Get("WALLET_PRIVATE_KEY"),
		RPCEndpoint: e.Get("LENS_RPC_URL"),
		Model:       e.GetWithDefault("OPENAI_MODEL", openai.DefaultModel),
		BaseURL:     e.Get("OPENAI_BASE_URL"),
		Addr:        e.GetWithDefault("HTTP_ADDR", DefaultAddr),
		ChainID:     e.GetInt64("CHAIN_ID", DefaultChainID),
	}
}

// Validate reports every problem at once. The returned error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.APIKey) == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}

	key := strings.TrimPrefix(strings.TrimSpace(c.AccountKey), "0x")
	switch {
	case key == "":
		errs = append(errs, errors.New("WALLET_PRIVATE_KEY is required"))
	case len(key) != 64:
		errs = append(errs, fmt.Errorf("WALLET_PRIVATE_KEY must be 64 hex characters, got %d", len(key)))
	default:
		if _, err := hex.DecodeString(key); err != nil {
			errs = append(errs, errors.New("WALLET_PRIVATE_KEY is not valid hex"))
		}
	}

	if c.RPCEndpoint == "" {
		errs = append(errs, errors.New("LENS_RPC_URL is required"))
	} else if err := checkHTTPURL(c.RPCEndpoint); err != nil {
		errs = append(errs, fmt.Errorf("LENS_RPC_URL: %w", err))
	}

	if c.BaseURL != "" {
		if err := checkHTTPURL(c.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("OPENAI_BASE_URL: %w", err))
		}
	}

	if _, ok := entity.ChainByID(c.ChainID); !ok {
		errs = append(errs, fmt.Errorf("CHAIN_ID %d is not a supported chain", c.ChainID))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is missing")
	}
	return nil
}
