package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// SecretsManagerAPI is the subset of the AWS client used by AWS.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	ListSecrets(ctx context.Context, in *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// AWS reads secrets from AWS Secrets Manager.
type AWS struct {
	client SecretsManagerAPI
}

func init() {
	Register("aws", func(ctx context.Context, cfg map[string]string) (driven.SecretStore, error) {
		opts := []func(*awsconfig.LoadOptions) error{}
		if region := cfg["region"]; region != "" {
			opts = append(opts, awsconfig.WithRegion(region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		return NewAWS(secretsmanager.NewFromConfig(awsCfg)), nil
	})
}

// NewAWS creates a store around an existing client.
func NewAWS(client SecretsManagerAPI) *AWS {
	return &AWS{client: client}
}

func (a *AWS) Name() string { return "aws" }

func (a *AWS) Get(ctx context.Context, path string) (string, error) {
	out, err := a.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: aws secret %q", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("aws secrets manager get %q: %w", path, err)
	}

	// Check SecretString first, then SecretBinary
	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		return base64.StdEncoding.EncodeToString(out.SecretBinary), nil
	}
	return "", fmt.Errorf("%w: aws secret %q is empty", domain.ErrNotFound, path)
}

func (a *AWS) Health(ctx context.Context) error {
	_, err := a.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("aws secrets manager health: %w", err)
	}
	return nil
}
