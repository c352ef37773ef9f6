// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsdeploy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YakDriver/regexache"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/buildserver-plugins/aws-deploy-support/logging"
	"github.com/buildserver-plugins/aws-deploy-support/useragent"
	"go.opentelemetry.io/otel/attribute"
)

const maxRoleSessionNameLength = 64

var invalidRoleSessionNameChars = regexache.MustCompile(`[^\w+=,.@-]`)

type CredentialsMode string

const (
	CredentialsModeBasic        CredentialsMode = "basic"
	CredentialsModeDefaultChain CredentialsMode = "default-chain"
	CredentialsModeSession      CredentialsMode = "session"
)

// Credentials is a credentials provider tagged with the way it was configured.
type Credentials interface {
	aws.CredentialsProvider
	Mode() CredentialsMode
}

var (
	_ Credentials = &BasicCredentials{}
	_ Credentials = &DefaultChainCredentials{}
	_ Credentials = &SessionCredentials{}
)

// BasicCredentials is a long-lived access key pair.
type BasicCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

func (c *BasicCredentials) Mode() CredentialsMode {
	return CredentialsModeBasic
}

func (c *BasicCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	return credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "").Retrieve(ctx)
}

// DefaultChainCredentials defers to the SDK's default credential provider chain.
type DefaultChainCredentials struct {
	provider aws.CredentialsProvider
}

func (c *DefaultChainCredentials) Mode() CredentialsMode {
	return CredentialsModeDefaultChain
}

func (c *DefaultChainCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	return c.provider.Retrieve(ctx)
}

// SessionCredentials are obtained by assuming RoleARN with the Base credentials.
// The role is assumed at most once per SessionCredentials; the result is kept for its lifetime.
type SessionCredentials struct {
	RoleARN     string
	ExternalID  string
	SessionName string
	Duration    time.Duration
	Base        Credentials

	delegate *memoizedCredentials
}

func (c *SessionCredentials) Mode() CredentialsMode {
	return CredentialsModeSession
}

func (c *SessionCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	return c.delegate.Retrieve(ctx)
}

// Fetched reports whether the role has already been assumed.
func (c *SessionCredentials) Fetched() bool {
	return c.delegate.fetched()
}

// memoizedCredentials holds an unevaluated fetch and caches its first successful result.
// A failed fetch is not cached, the next caller tries again.
type memoizedCredentials struct {
	mu    sync.Mutex
	fetch func(context.Context) (aws.Credentials, error)
	value *aws.Credentials
}

func (m *memoizedCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.value != nil {
		return *m.value, nil
	}

	value, err := m.fetch(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}
	m.value = &value

	return value, nil
}

func (m *memoizedCredentials) fetched() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.value != nil
}

// Resolved pairs credentials with the region they are used in.
type Resolved struct {
	Region      string
	Credentials Credentials

	userAgent useragent.Products
}

// AWSConfig returns an aws.Config for service clients using the resolved region and credentials.
func (r *Resolved) AWSConfig() aws.Config {
	return aws.Config{
		Region:      r.Region,
		Credentials: r.Credentials,
		APIOptions:  apiOptions(r.userAgent),
	}
}

type ResolveOptions struct {
	// LazySessionFetch defers role assumption until credentials are first retrieved.
	LazySessionFetch bool

	// StsEndpoint overrides the STS endpoint used for role assumption.
	StsEndpoint string

	// LoadOptions are passed to the SDK when the default credential provider chain is used.
	LoadOptions []func(*config.LoadOptions) error

	// Now is used to build the default role session name.
	Now func() time.Time

	// UserAgent products are appended to the User-Agent header of every AWS request.
	UserAgent useragent.Products
}

// ResolveCredentials selects basic or default chain credentials and, for temporary credentials,
// wraps them in SessionCredentials. Unless LazySessionFetch is set, the role is assumed before
// returning and any error from STS is returned as is.
func ResolveCredentials(ctx context.Context, p *Parameters, optFns ...func(*ResolveOptions)) (*Resolved, error) {
	opts := ResolveOptions{
		Now: time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var base Credentials
	if p.UseDefaultChain() {
		loadOptions := append([]func(*config.LoadOptions) error{config.WithRegion(p.Region)}, opts.LoadOptions...)
		cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		base = &DefaultChainCredentials{provider: cfg.Credentials}
	} else {
		base = &BasicCredentials{
			AccessKeyID:     p.AccessKeyID,
			SecretAccessKey: p.SecretKey(),
		}
	}

	resolved := &Resolved{
		Region:      p.Region,
		Credentials: base,
		userAgent:   opts.UserAgent,
	}

	logger := logging.RetrieveLogger(ctx)
	fields := []attribute.KeyValue{
		logging.AWSRegionKey.String(p.Region),
		logging.AWSCredentialsModeKey.String(string(base.Mode())),
	}
	if base.Mode() == CredentialsModeBasic {
		fields = append(fields, logging.AWSAccessKeyIDKey.String(logging.MaskAWSAccessKey(p.AccessKeyID)))
	}
	logger.Debug(ctx, "Resolved base AWS credentials", logging.Fields(fields...))

	if !p.UseTemporaryCredentials() {
		return resolved, nil
	}

	session := &SessionCredentials{
		RoleARN:     p.IAMRoleARN,
		ExternalID:  p.ExternalID,
		SessionName: patchRoleSessionName(p.RoleSessionName(opts.Now())),
		Duration:    p.RoleSessionDuration(),
		Base:        base,
	}
	session.delegate = &memoizedCredentials{
		fetch: assumeRoleFetcher(p.Region, session, opts),
	}

	if !opts.LazySessionFetch {
		if _, err := session.Retrieve(ctx); err != nil {
			return nil, err
		}
	}

	resolved.Credentials = session

	return resolved, nil
}

func assumeRoleFetcher(region string, session *SessionCredentials, opts ResolveOptions) func(context.Context) (aws.Credentials, error) {
	return func(ctx context.Context) (aws.Credentials, error) {
		logger := logging.RetrieveLogger(ctx)
		logger.Info(ctx, "Attempting to AssumeRole", logging.Fields(
			logging.AWSRoleARNKey.String(session.RoleARN),
			logging.AWSSessionNameKey.String(session.SessionName),
			logging.AWSExternalIDKey.String(session.ExternalID),
		))

		cfg := aws.Config{
			Region:      region,
			Credentials: session.Base,
			APIOptions:  apiOptions(opts.UserAgent),
		}

		client := sts.NewFromConfig(cfg, func(o *sts.Options) {
			if opts.StsEndpoint != "" {
				o.BaseEndpoint = aws.String(opts.StsEndpoint)
			}
		})

		provider := stscreds.NewAssumeRoleProvider(client, session.RoleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = session.SessionName
			o.Duration = session.Duration

			if session.ExternalID != "" {
				o.ExternalID = aws.String(session.ExternalID)
			}
		})

		return provider.Retrieve(ctx)
	}
}

// patchRoleSessionName replaces characters STS does not accept in a role session name and truncates it.
func patchRoleSessionName(name string) string {
	name = invalidRoleSessionNameChars.ReplaceAllString(name, "_")
	if len(name) > maxRoleSessionNameLength {
		name = name[:maxRoleSessionNameLength]
	}
	return name
}
