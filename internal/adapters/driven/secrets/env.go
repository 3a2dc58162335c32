package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

func init() {
	Register("env", func(_ context.Context, cfg map[string]string) (driven.SecretStore, error) {
		return NewEnv(cfg["env_prefix"]), nil
	})
}

// Env reads secrets from environment variables.
// The path neugrove/projects/p1/slack-token becomes NEUGROVE_PROJECTS_P1_SLACK_TOKEN.
type Env struct {
	prefix string
	lookup func(string) (string, bool)
}

// NewEnv creates an environment store. prefix is prepended to every variable name.
func NewEnv(prefix string) *Env {
	return &Env{prefix: prefix, lookup: os.LookupEnv}
}

var envReplacer = strings.NewReplacer("/", "_", "-", "_", ".", "_")

// VarName returns the environment variable for a secret path.
func (e *Env) VarName(path string) string {
	return e.prefix + strings.ToUpper(envReplacer.Replace(strings.Trim(path, "/")))
}

func (e *Env) Name() string { return "env" }

func (e *Env) Get(_ context.Context, path string) (string, error) {
	name := e.VarName(path)
	val, ok := e.lookup(name)
	if !ok || val == "" {
		return "", fmt.Errorf("%w: secret %q (env %s)", domain.ErrNotFound, path, name)
	}
	return val, nil
}

func (e *Env) Health(context.Context) error { return nil }
