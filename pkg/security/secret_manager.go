package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretManager fetches secret material by name. Implementations may fail on
// network or permission errors; KeyProvider falls back accordingly.
type SecretManager interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// AWSSecretManager reads secrets from AWS Secrets Manager.
type AWSSecretManager struct {
	client secretValueGetter
}

type secretValueGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func NewAWSSecretManager(region string) (*AWSSecretManager, error) {
	if strings.TrimSpace(region) == "" {
		return nil, fmt.Errorf("missing region")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &AWSSecretManager{client: secretsmanager.NewFromConfig(cfg)}, nil
}

func (m *AWSSecretManager) GetSecret(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &name,
	})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if len(out.SecretBinary) > 0 {
		return string(out.SecretBinary), nil
	}
	return "", fmt.Errorf("secret %s has no value", name)
}
