package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultPageSize           = 50
	defaultTokenTTL           = 12 * time.Hour
)

// Secret verification modes.
const (
	SecretModePlain  = "plain"
	SecretModeBcrypt = "bcrypt"
)

// Document store providers.
const (
	ProviderFirestore = "firestore"
	ProviderMemory    = "memory"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	SecretKey struct {
		Access   string        `json:"access" yaml:"access"`
		TokenTTL time.Duration `json:"tokenTTL" yaml:"tokenTTL"`
	} `json:"secretKey" yaml:"secretKey"`

	// DocumentStore selects and configures the remote document database
	DocumentStore *DocumentStoreConfig `json:"documentStore" yaml:"documentStore"`

	// Snapshot configures the local snapshot slot
	Snapshot *SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	Store *StoreConfig `json:"store" yaml:"store"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Seed holds the accounts created when the users collection is empty
	Seed *SeedConfig `json:"seed" yaml:"seed"`

	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

// DocumentStoreConfig defines the remote document database connection
type DocumentStoreConfig struct {
	// Provider is "firestore" or "memory"
	Provider        string `json:"provider" yaml:"provider"`
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// SnapshotConfig defines where store snapshots are persisted
type SnapshotConfig struct {
	Path     string `json:"path" yaml:"path"`
	InMemory bool   `json:"inMemory" yaml:"inMemory"`
}

// StoreConfig defines entity store behaviour
type StoreConfig struct {
	PageSize int `json:"pageSize" yaml:"pageSize"`
	// Realtime starts product and post subscriptions at startup
	Realtime bool `json:"realtime" yaml:"realtime"`
	// FranchiseID scopes products and featured flag to one franchise
	FranchiseID string `json:"franchiseId" yaml:"franchiseId"`
	// Offline makes every entity store serve its local snapshot without network reads
	Offline bool `json:"offline" yaml:"offline"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	// SecretMode is "plain" (stored as written) or "bcrypt"
	SecretMode string `json:"secretMode" yaml:"secretMode"`
	BcryptCost int    `json:"bcryptCost" yaml:"bcryptCost"`
}

// SeedConfig defines the bootstrap administrator
type SeedConfig struct {
	Admin *SeedAccount `json:"admin" yaml:"admin"`
}

// SeedAccount is one bootstrap account
type SeedAccount struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// MetricsConfig defines prometheus exposure
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.SecretKey.TokenTTL <= 0 {
		cfg.SecretKey.TokenTTL = defaultTokenTTL
	}
	if cfg.DocumentStore == nil {
		cfg.DocumentStore = &DocumentStoreConfig{}
	}
	if cfg.DocumentStore.Provider == "" {
		cfg.DocumentStore.Provider = ProviderMemory
	}
	if cfg.Snapshot == nil {
		cfg.Snapshot = &SnapshotConfig{InMemory: true}
	}
	if cfg.Store == nil {
		cfg.Store = &StoreConfig{}
	}
	if cfg.Store.PageSize <= 0 {
		cfg.Store.PageSize = defaultPageSize
	}
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.SecretMode == "" {
		cfg.Auth.SecretMode = SecretModePlain
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
