/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT               = "5001"
	DEFAULT_DATA_SOURCE        = "commissions.db"
	DEFAULT_CLASSIFIER_TIMEOUT = 15
	DEFAULT_CLASSIFIER_RETRIES = 2
	DEFAULT_EXTRACTOR_TIMEOUT  = 60
	DEFAULT_HISTORY_DEPTH      = 10
	DEFAULT_LOCK_TIMEOUT       = 30
	DEFAULT_BACKUP_DIR         = "backups"
	DEFAULT_RATE_LIMIT_CLEANUP = 10800
)

var ConfigStore atomic.Value

var httpURL = regexp.MustCompile(`^https?://\S+$`)

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"COMMISSIONS_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"COMMISSIONS_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"COMMISSIONS_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"COMMISSIONS_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"COMMISSIONS_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"COMMISSIONS_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"COMMISSIONS_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"COMMISSIONS_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"COMMISSIONS_REDIS_SKIP_TLS_VERIFY"`
}

// ClassifierConfig points at the column classification service. An empty
// Url disables it and every file falls back to an empty mapping.
type ClassifierConfig struct {
	Url        string `json:"url" envconfig:"COMMISSIONS_CLASSIFIER_URL"`
	ApiKey     string `json:"api_key" envconfig:"COMMISSIONS_CLASSIFIER_API_KEY"`
	Timeout    int    `json:"timeout" envconfig:"COMMISSIONS_CLASSIFIER_TIMEOUT"`
	MaxRetries int    `json:"max_retries" envconfig:"COMMISSIONS_CLASSIFIER_MAX_RETRIES"`
	CacheTTL   int    `json:"cache_ttl" envconfig:"COMMISSIONS_CLASSIFIER_CACHE_TTL"`
}

// ExtractorConfig points at the document text extraction service used for
// PDF and other binary statements.
type ExtractorConfig struct {
	Url     string `json:"url" envconfig:"COMMISSIONS_EXTRACTOR_URL"`
	ApiKey  string `json:"api_key" envconfig:"COMMISSIONS_EXTRACTOR_API_KEY"`
	Timeout int    `json:"timeout" envconfig:"COMMISSIONS_EXTRACTOR_TIMEOUT"`
}

// RegistryConfig extends the built-in carrier and keyword tables. File is a
// YAML registry merged on top of the inline lists.
type RegistryConfig struct {
	File                   string   `json:"file" envconfig:"COMMISSIONS_REGISTRY_FILE"`
	Medicare               []string `json:"medicare"`
	ACA                    []string `json:"aca"`
	Life                   []string `json:"life"`
	CommissionTypeKeywords []string `json:"commission_type_keywords"`
	PolicyTypeKeywords     []string `json:"policy_type_keywords"`
}

type LedgerConfig struct {
	HistoryDepth int `json:"history_depth" envconfig:"COMMISSIONS_LEDGER_HISTORY_DEPTH"`
	LockTimeout  int `json:"lock_timeout" envconfig:"COMMISSIONS_LEDGER_LOCK_TIMEOUT"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"COMMISSIONS_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"COMMISSIONS_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"COMMISSIONS_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"COMMISSIONS_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type BackupConfig struct {
	Dir                string `json:"dir" envconfig:"COMMISSIONS_BACKUP_DIR"`
	AwsAccessKeyId     string `json:"aws_access_key_id" envconfig:"COMMISSIONS_AWS_ACCESS_KEY_ID"`
	AwsSecretAccessKey string `json:"aws_secret_access_key" envconfig:"COMMISSIONS_AWS_SECRET_ACCESS_KEY"`
	S3Endpoint         string `json:"s3_endpoint" envconfig:"COMMISSIONS_S3_ENDPOINT"`
	S3BucketName       string `json:"s3_bucket_name" envconfig:"COMMISSIONS_S3_BUCKET_NAME"`
	S3Region           string `json:"s3_region" envconfig:"COMMISSIONS_S3_REGION"`
}

type TelemetryConfig struct {
	Enabled      bool   `json:"enabled" envconfig:"COMMISSIONS_TELEMETRY_ENABLED"`
	OtlpEndpoint string `json:"otlp_endpoint" envconfig:"COMMISSIONS_TELEMETRY_OTLP_ENDPOINT"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"COMMISSIONS_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Classifier   ClassifierConfig `json:"classifier"`
	Extractor    ExtractorConfig  `json:"extractor"`
	Registry     RegistryConfig   `json:"registry"`
	Ledger       LedgerConfig     `json:"ledger"`
	Notification Notification     `json:"notification"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
	Backup       BackupConfig     `json:"backup"`
	Telemetry    TelemetryConfig  `json:"telemetry"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("commissions", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called commissions.json with your config ❌")
	}
	return c, nil
}

// ProjectKey is the project name reduced to a key prefix for Redis.
func (cnf *Configuration) ProjectKey() string {
	return strings.ToLower(strings.Join(strings.Fields(cnf.ProjectName), "-"))
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Commissions"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Classifier.Url = strings.TrimSpace(cnf.Classifier.Url)
	cnf.Extractor.Url = strings.TrimSpace(cnf.Extractor.Url)

	if cnf.DataSource.Dns == "" {
		cnf.DataSource.Dns = DEFAULT_DATA_SOURCE
		log.Printf("Warning: Data source not specified. Using local file: %s", DEFAULT_DATA_SOURCE)
	}

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Classifier.Timeout == 0 {
		cnf.Classifier.Timeout = DEFAULT_CLASSIFIER_TIMEOUT
	}
	if cnf.Classifier.MaxRetries == 0 {
		cnf.Classifier.MaxRetries = DEFAULT_CLASSIFIER_RETRIES
	}
	if cnf.Extractor.Timeout == 0 {
		cnf.Extractor.Timeout = DEFAULT_EXTRACTOR_TIMEOUT
	}
	if cnf.Backup.Dir == "" {
		cnf.Backup.Dir = DEFAULT_BACKUP_DIR
	}
	if cnf.Ledger.HistoryDepth == 0 {
		cnf.Ledger.HistoryDepth = DEFAULT_HISTORY_DEPTH
	}
	if cnf.Ledger.LockTimeout == 0 {
		cnf.Ledger.LockTimeout = DEFAULT_LOCK_TIMEOUT
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := DEFAULT_RATE_LIMIT_CLEANUP
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
		log.Printf("Warning: Rate limit cleanup interval not specified. Setting default value: %d seconds", defaultCleanup)
	}

	err := validation.ValidateStruct(&cnf.Classifier,
		validation.Field(&cnf.Classifier.Url, validation.Match(httpURL)),
		validation.Field(&cnf.Classifier.Timeout, validation.Min(1)),
		validation.Field(&cnf.Classifier.MaxRetries, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("invalid classifier config: %w", err)
	}

	err = validation.ValidateStruct(&cnf.Extractor,
		validation.Field(&cnf.Extractor.Url, validation.Match(httpURL)),
	)
	if err != nil {
		return fmt.Errorf("invalid extractor config: %w", err)
	}

	return validation.ValidateStruct(&cnf.Ledger,
		validation.Field(&cnf.Ledger.HistoryDepth, validation.Min(1)),
	)
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
