package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Vault reads secrets from HashiCorp Vault KV v2.
type Vault struct {
	client *vaultapi.Client
	mount  string
}

func init() {
	Register("vault", func(_ context.Context, cfg map[string]string) (driven.SecretStore, error) {
		return NewVault(cfg["vault_url"], cfg["token"], cfg["mount"])
	})
}

// NewVault creates a KV v2 reader. Empty token falls back to VAULT_TOKEN.
func NewVault(addr, token, mount string) (*Vault, error) {
	vaultCfg := vaultapi.DefaultConfig()
	if addr != "" {
		vaultCfg.Address = addr
	}

	client, err := vaultapi.NewClient(vaultCfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}

	if token == "" {
		token = os.Getenv("VAULT_TOKEN")
	}
	if token != "" {
		client.SetToken(token)
	}

	if mount == "" {
		mount = "secret"
	}
	return &Vault{client: client, mount: mount}, nil
}

func (v *Vault) Name() string { return "vault" }

// Get returns the "value" key of the secret, or its only key.
func (v *Vault) Get(ctx context.Context, path string) (string, error) {
	secret, err := v.client.KVv2(v.mount).Get(ctx, path)
	if err != nil {
		if errors.Is(err, vaultapi.ErrSecretNotFound) {
			return "", fmt.Errorf("%w: vault secret %q", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("vault get %q: %w", path, err)
	}

	if val, ok := secret.Data["value"]; ok {
		return fmt.Sprint(val), nil
	}
	if len(secret.Data) == 1 {
		for _, val := range secret.Data {
			return fmt.Sprint(val), nil
		}
	}
	return "", fmt.Errorf("%w: vault %q: ambiguous secret with %d keys, expected 'value' key",
		domain.ErrInvalidInput, path, len(secret.Data))
}

func (v *Vault) Health(ctx context.Context) error {
	health, err := v.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health: %w", err)
	}
	if !health.Initialized {
		return errors.New("vault not initialized")
	}
	if health.Sealed {
		return errors.New("vault is sealed")
	}
	return nil
}
