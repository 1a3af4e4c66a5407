package kms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/brianslattery/kms-propertizer/internal/buildinfo"
	"github.com/brianslattery/kms-propertizer/internal/domain"
)

// LoadAWSConfig builds the SDK config for cfg. Static keys replace the
// default credential chain; a role ARN is assumed on top of whichever base
// credentials apply. An empty region defers to the SDK's own resolution
// (AWS_REGION, shared config).
func LoadAWSConfig(ctx context.Context, cfg domain.KMSConfig) (aws.Config, error) {
	if cfg.RoleARN != "" {
		return loadWithAssumeRole(ctx, cfg)
	}
	return config.LoadDefaultConfig(ctx, baseOptions(cfg)...)
}

func baseOptions(cfg domain.KMSConfig) []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{config.WithAppID(buildinfo.AppID())}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	return opts
}

func loadWithAssumeRole(ctx context.Context, cfg domain.KMSConfig) (aws.Config, error) {
	baseCfg, err := config.LoadDefaultConfig(ctx, baseOptions(cfg)...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load base AWS config for role assumption: %w", err)
	}

	stsClient := sts.NewFromConfig(baseCfg)
	provider := stscreds.NewAssumeRoleProvider(stsClient, cfg.RoleARN, func(o *stscreds.AssumeRoleOptions) {
		if cfg.ExternalID != "" {
			o.ExternalID = aws.String(cfg.ExternalID)
		}
		o.RoleSessionName = "kms-propertizer"
	})

	opts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(aws.NewCredentialsCache(provider)),
		config.WithAppID(buildinfo.AppID()),
	}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	out, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config with assume role: %w", err)
	}
	return out, nil
}
