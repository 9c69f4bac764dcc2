// Package awsclient builds the AWS clients the server talks to.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/parley-chat/parley-services/internal/appconfig"
)

// Clients creates service clients from one loaded SDK configuration.
type Clients struct {
	cfg      aws.Config
	endpoint string
}

// Load reads the default credential chain for the configured region.
// A non-empty Endpoint points every client at it, e.g. localstack.
func Load(ctx context.Context, cfg appconfig.AWSConfig) (*Clients, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &Clients{cfg: awsCfg, endpoint: cfg.Endpoint}, nil
}

func (c *Clients) SecretsManager() *secretsmanager.Client {
	return secretsmanager.NewFromConfig(c.cfg, func(o *secretsmanager.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
}

func (c *Clients) SES() *sesv2.Client {
	return sesv2.NewFromConfig(c.cfg, func(o *sesv2.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
}
