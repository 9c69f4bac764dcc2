// Package secrets resolves the session signing key.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// signingKeyField is read when the secret holds a JSON object.
const signingKeyField = "signingKey"

// SigningKey returns the key stored in secretName. The secret is either the
// raw key or a JSON object with a "signingKey" field.
func SigningKey(ctx context.Context, client SecretsManagerAPI, secretName string) (string, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", secretName, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", errors.New("secret has no string value")
	}

	raw := *out.SecretString
	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return raw, nil
	}
	key, ok := fields[signingKeyField]
	if !ok || key == "" {
		return "", fmt.Errorf("secret %s has no %s field", secretName, signingKeyField)
	}
	return key, nil
}
