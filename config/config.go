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
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultTokenTTL           = 20 * time.Minute
	defaultStoreDriver        = StoreDriverFile
	defaultStorePath          = "db.json"
)

// Credential store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost"}

var defaultAssistants = []string{
	"question_generator",
	"product_assistant",
	"image_RAG",
	"enterprise_knowledge_management",
	"saic",
}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int      `json:"port" yaml:"port"`
		MaxRequestBodySize string   `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		CORSOrigins        []string `json:"corsOrigins" yaml:"corsOrigins"`
		// Requests per second allowed per client on the login endpoints. Zero disables the limiter.
		LoginRateLimit float64 `json:"loginRateLimit" yaml:"loginRateLimit"`
		Timeouts       struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	CredentialStore *CredentialStoreConfig `json:"credentialStore" yaml:"credentialStore"`

	// Postgres is only read when credentialStore.driver is "postgres".
	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Assistants *AssistantsConfig `json:"assistants" yaml:"assistants"`
}

// AuthConfig defines token signing and password hashing settings
type AuthConfig struct {
	SecretKey  string        `json:"secretKey" yaml:"secretKey"`
	Algorithm  string        `json:"algorithm" yaml:"algorithm"`
	TokenTTL   time.Duration `json:"tokenTTL" yaml:"tokenTTL"`
	BcryptCost int           `json:"bcryptCost" yaml:"bcryptCost"`
	// ClockSkew is the leeway allowed when checking token expiry. Zero means none.
	ClockSkew time.Duration `json:"clockSkew" yaml:"clockSkew"`
}

// CredentialStoreConfig selects and locates the credential store backend
type CredentialStoreConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	// Path is the JSON file for the file driver, or the DSN for sqlite.
	Path string `json:"path" yaml:"path"`
}

// AssistantsConfig lists the assistant names exposed by the API
type AssistantsConfig struct {
	Enabled []string `json:"enabled" yaml:"enabled"`
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

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Example: AUTH_SECRET_KEY -> auth.secretKey, CREDENTIALSTORE_PATH -> credentialStore.path
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
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
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = defaultCORSOrigins
	}

	// Secret and algorithm have no defaults; the token service refuses to start without them.
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}

	if cfg.CredentialStore == nil {
		cfg.CredentialStore = &CredentialStoreConfig{}
	}
	if cfg.CredentialStore.Driver == "" {
		cfg.CredentialStore.Driver = defaultStoreDriver
	}
	if cfg.CredentialStore.Path == "" && cfg.CredentialStore.Driver == StoreDriverFile {
		cfg.CredentialStore.Path = defaultStorePath
	}

	if cfg.Assistants == nil || len(cfg.Assistants.Enabled) == 0 {
		cfg.Assistants = &AssistantsConfig{Enabled: defaultAssistants}
	}
}

// canonicalizeEnvKey maps an environment variable name onto the YAML key
// path. Consecutive underscore segments are joined when together they name an
// existing camelCase key, so AUTH_SECRET_KEY and AUTH_SECRETKEY both resolve
// to auth.secretKey.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := make([]string, 0)
	for _, s := range strings.Split(strings.ToLower(rawKey), "_") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	canonical := make([]string, 0, len(segments))
	current := existing

	for i := 0; i < len(segments); {
		matched, next, width := longestExistingRun(current, segments[i:])
		if width == 0 {
			canonical = append(canonical, segments[i])
			current = nil
			i++

			continue
		}

		canonical = append(canonical, matched)
		current = next
		i += width
	}

	return strings.Join(canonical, ".")
}

func longestExistingRun(current map[string]any, segments []string) (matched string, next map[string]any, width int) {
	for w := len(segments); w > 0; w-- {
		if key, child, ok := findExistingSegment(current, strings.Join(segments[:w], "")); ok {
			return key, child, w
		}
	}

	return "", nil, 0
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
