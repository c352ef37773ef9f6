// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsdeploy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Parameter keys. The "elasticbeanstalk_" prefix is kept so previously saved configurations keep working.
const (
	RegionNameParam = "elasticbeanstalk_region_name"
	RegionNameLabel = "AWS region"

	CredentialsTypeParam  = "elasticbeanstalk_credentials_type"
	CredentialsTypeLabel  = "Credentials type"
	TempCredentialsOption = "elasticbeanstalk_temp_credentials"
	TempCredentialsLabel  = "Temporary credentials"
	AccessKeysOption      = "elasticbeanstalk_access_keys"
	AccessKeysLabel       = "Access keys"

	UseDefaultCredentialProviderChainParam = "use_default_credential_provider_chain"
	UseDefaultCredentialProviderChainLabel = "Use default credential provider chain"

	AccessKeyIDParam           = "elasticbeanstalk_access_key_id"
	AccessKeyIDLabel           = "Access key ID"
	SecureSecretAccessKeyParam = "secure:elasticbeanstalk_secret_access_key"
	SecretAccessKeyParam       = "elasticbeanstalk_secret_access_key"
	SecretAccessKeyLabel       = "Secret access key"

	IAMRoleARNParam = "elasticbeanstalk_iam_role_arn"
	IAMRoleARNLabel = "IAM role ARN"
	ExternalIDParam = "elasticbeanstalk_external_id"
	ExternalIDLabel = "External ID"

	TempCredentialsSessionNameParam         = "temp_credentials_session_name"
	TempCredentialsSessionNameDefaultPrefix = "TeamCity_AWS_support_"
	TempCredentialsDurationSecParam         = "temp_credentials_duration_sec"
	TempCredentialsDurationSecDefault       = 1800

	serverExternalIDPrefix = "TeamCity-server-"
)

// Parameters is the typed form of the flat configuration map.
// Keys outside the known vocabulary are kept in Extra and survive a round trip through Map.
type Parameters struct {
	Region                            string `mapstructure:"elasticbeanstalk_region_name"`
	CredentialsType                   string `mapstructure:"elasticbeanstalk_credentials_type"`
	UseDefaultCredentialProviderChain string `mapstructure:"use_default_credential_provider_chain"`
	AccessKeyID                       string `mapstructure:"elasticbeanstalk_access_key_id"`
	SecureSecretAccessKey             string `mapstructure:"secure:elasticbeanstalk_secret_access_key"`
	SecretAccessKey                   string `mapstructure:"elasticbeanstalk_secret_access_key"`
	IAMRoleARN                        string `mapstructure:"elasticbeanstalk_iam_role_arn"`
	ExternalID                        string `mapstructure:"elasticbeanstalk_external_id"`
	SessionName                       string `mapstructure:"temp_credentials_session_name"`
	SessionDurationSec                string `mapstructure:"temp_credentials_duration_sec"`

	Extra map[string]string `mapstructure:",remain"`
}

// ParseParameters decodes a configuration map into Parameters.
func ParseParameters(params map[string]string) (*Parameters, error) {
	var p Parameters

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &p,
		// Keys are matched exactly; the secured and plain secret keys differ only by prefix.
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating parameters decoder: %w", err)
	}

	if err := decoder.Decode(params); err != nil {
		return nil, fmt.Errorf("decoding parameters: %w", err)
	}

	return &p, nil
}

// Map returns the flat configuration map, including pass-through keys. Empty values are omitted.
func (p *Parameters) Map() map[string]string {
	result := make(map[string]string, len(p.Extra)+10) //nolint:gomnd
	for k, v := range p.Extra {
		result[k] = v
	}

	for k, v := range map[string]string{
		RegionNameParam:                        p.Region,
		CredentialsTypeParam:                   p.CredentialsType,
		UseDefaultCredentialProviderChainParam: p.UseDefaultCredentialProviderChain,
		AccessKeyIDParam:                       p.AccessKeyID,
		SecureSecretAccessKeyParam:             p.SecureSecretAccessKey,
		SecretAccessKeyParam:                   p.SecretAccessKey,
		IAMRoleARNParam:                        p.IAMRoleARN,
		ExternalIDParam:                        p.ExternalID,
		TempCredentialsSessionNameParam:        p.SessionName,
		TempCredentialsDurationSecParam:        p.SessionDurationSec,
	} {
		if v != "" {
			result[k] = v
		}
	}

	return result
}

// SecretKey prefers the secured secret key over the plain one.
func (p *Parameters) SecretKey() string {
	if p.SecureSecretAccessKey != "" {
		return p.SecureSecretAccessKey
	}
	return p.SecretAccessKey
}

func (p *Parameters) UseDefaultChain() bool {
	return cast.ToBool(strings.TrimSpace(p.UseDefaultCredentialProviderChain))
}

func (p *Parameters) UseTemporaryCredentials() bool {
	return p.CredentialsType == TempCredentialsOption
}

// RoleSessionName returns the configured session name, or the default prefix followed by now in milliseconds.
func (p *Parameters) RoleSessionName(now time.Time) string {
	if isBlank(p.SessionName) {
		return TempCredentialsSessionNameDefaultPrefix + strconv.FormatInt(now.UnixMilli(), 10)
	}
	return p.SessionName
}

// RoleSessionDuration returns the configured duration, falling back to the default
// when the value is missing or is not a positive integer number of seconds.
func (p *Parameters) RoleSessionDuration() time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(p.SessionDurationSec))
	if err != nil || seconds <= 0 {
		seconds = TempCredentialsDurationSecDefault
	}
	return time.Duration(seconds) * time.Second
}

// Defaults returns the baseline parameter values.
// The external ID is derived from serverInstanceID when one is known.
func Defaults(serverInstanceID string) map[string]string {
	externalID := uuid.NewString()
	if serverInstanceID != "" {
		externalID = serverExternalIDPrefix + serverInstanceID
	}

	return map[string]string{
		CredentialsTypeParam:                   AccessKeysOption,
		ExternalIDParam:                        externalID,
		UseDefaultCredentialProviderChainParam: "false",
	}
}

// Keys returns the known parameter keys in sorted order.
func Keys() []string {
	keys := []string{
		RegionNameParam,
		CredentialsTypeParam,
		UseDefaultCredentialProviderChainParam,
		AccessKeyIDParam,
		SecureSecretAccessKeyParam,
		SecretAccessKeyParam,
		IAMRoleARNParam,
		ExternalIDParam,
		TempCredentialsSessionNameParam,
		TempCredentialsDurationSecParam,
	}
	sort.Strings(keys)
	return keys
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
