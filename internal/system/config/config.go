/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package config provides structures and functions for loading and managing server configurations.
package config

import (
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/asgardeo/flowstack/internal/system/log"
)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	HTTPOnly bool   `yaml:"http_only"`
}

// SecurityConfig holds the security configuration details.
type SecurityConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// CORSConfig holds the CORS configuration details.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DatabaseConfig holds the different database configuration details.
type DatabaseConfig struct {
	Runtime DataSource `yaml:"runtime"`
}

// VectorStoreConfig holds the vector store connection details used by the retriever.
type VectorStoreConfig struct {
	DataSource DataSource `yaml:"datasource"`
	Table      string     `yaml:"table"`
	Dimensions int        `yaml:"dimensions"`
}

// RedisConfig holds the redis connection details.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig holds the cache configuration details.
type CacheConfig struct {
	Disabled        bool        `yaml:"disabled"`
	Type            string      `yaml:"type"`
	Size            int         `yaml:"size"`
	TTL             int         `yaml:"ttl"`
	EvictionPolicy  string      `yaml:"eviction_policy"`
	CleanupInterval int         `yaml:"cleanup_interval"`
	Redis           RedisConfig `yaml:"redis"`
}

// ProviderClientConfig holds the connection details for a single external provider.
type ProviderClientConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// ProvidersConfig holds the configuration for all external providers.
type ProvidersConfig struct {
	OpenAI  ProviderClientConfig `yaml:"openai"`
	Gemini  ProviderClientConfig `yaml:"gemini"`
	Cohere  ProviderClientConfig `yaml:"cohere"`
	SerpAPI ProviderClientConfig `yaml:"serpapi"`
	Brave   ProviderClientConfig `yaml:"brave"`
}

// EngineConfig holds the workflow engine tuning parameters.
type EngineConfig struct {
	ProviderTimeout int `yaml:"provider_timeout"`
	MaxRetries      int `yaml:"max_retries"`
	RetryBaseDelay  int `yaml:"retry_base_delay"`
	RetryMaxDelay   int `yaml:"retry_max_delay"`
	HistoryTurns    int `yaml:"history_turns"`
}

// NATSConfig holds the NATS connection details for run events.
type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// MessagingConfig holds the messaging configuration details.
type MessagingConfig struct {
	NATS NATSConfig `yaml:"nats"`
}

// MetricsConfig holds the metrics endpoint configuration details.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config holds the complete configuration details of the server.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Security    SecurityConfig    `yaml:"security"`
	CORS        CORSConfig        `yaml:"cors"`
	Database    DatabaseConfig    `yaml:"database"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Cache       CacheConfig       `yaml:"cache"`
	Providers   ProvidersConfig   `yaml:"providers"`
	Engine      EngineConfig      `yaml:"engine"`
	Messaging   MessagingConfig   `yaml:"messaging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// LoadConfig loads the configurations from the specified YAML file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides fills provider credentials from the environment when they
// are not present in the configuration file.
func applyEnvOverrides(cfg *Config) {
	overrideFromEnv(&cfg.Providers.OpenAI.APIKey, "OPENAI_API_KEY")
	overrideFromEnv(&cfg.Providers.Gemini.APIKey, "GEMINI_API_KEY")
	overrideFromEnv(&cfg.Providers.Cohere.APIKey, "COHERE_API_KEY")
	overrideFromEnv(&cfg.Providers.SerpAPI.APIKey, "SERPAPI_API_KEY")
	overrideFromEnv(&cfg.Providers.Brave.APIKey, "BRAVE_API_KEY")
}

func overrideFromEnv(target *string, envVar string) {
	if *target != "" {
		return
	}
	if value := os.Getenv(envVar); value != "" {
		*target = value
	}
}
