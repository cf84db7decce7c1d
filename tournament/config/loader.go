/* loader.go
 * Builds a Config from the embedded defaults, an optional user YAML file given with --config=<file>, environment
 * variables (TOURNEY_<KEY>) and --key / --no-key / --key=value command line tokens. Later sources win, and every
 * key must already exist in the defaults
 */

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"robocup-tournament/tournament/shared"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yml
var defaultsYAML []byte

const envPrefix = "TOURNEY"

var (
	flagOnPattern    = regexp.MustCompile(`^--([a-z_]+)$`)
	flagOffPattern   = regexp.MustCompile(`^--no-([a-z_]+)$`)
	flagValuePattern = regexp.MustCompile(`^--([a-z_]+)=(.+)$`)
	configArgPattern = regexp.MustCompile(`^--config=(.+)$`)
)

// Loader layers configuration sources on top of the embedded defaults
type Loader struct {
	v        *viper.Viper
	defaults map[string]any
}

// NewLoader creates a Loader holding only the defaults
// Preconditions: None
// Postconditions: Returns a Loader, or an error if the embedded defaults are unreadable
func NewLoader() (*Loader, error) {
	defaults := map[string]any{}
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		return nil, fmt.Errorf("parse default configuration: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultsYAML)); err != nil {
		return nil, fmt.Errorf("load default configuration: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return &Loader{v: v, defaults: defaults}, nil
}

// Load is the usual entry point: loads .env files, defaults, the user config file and the argument tokens
// Preconditions: Receives command line tokens (positional arguments already removed)
// Postconditions: Returns the merged Config, or a ConfigurationError
func Load(args []string) (*Config, error) {
	return LoadWith(args, nil)
}

// LoadWith is Load with a final step that may Set values no file or argument can override
func LoadWith(args []string, apply func(l *Loader) error) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	l, err := NewLoader()
	if err != nil {
		return nil, err
	}
	if err := l.ApplyArgs(args); err != nil {
		return nil, err
	}
	if apply != nil {
		if err := apply(l); err != nil {
			return nil, err
		}
	}
	return l.Config()
}

// loadEnvFiles loads .env from the working directory when present
func loadEnvFiles() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ApplyArgs merges the --config=<file> user file first and then applies every token in order
func (l *Loader) ApplyArgs(args []string) error {
	for _, arg := range args {
		if m := configArgPattern.FindStringSubmatch(arg); m != nil {
			if err := l.MergeFile(m[1]); err != nil {
				return err
			}
		}
	}
	for _, arg := range args {
		if err := l.ApplyArg(arg); err != nil {
			return err
		}
	}
	return nil
}

// MergeFile merges a user YAML file, rejecting keys that have no default
func (l *Loader) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return shared.NewConfigurationError("cannot read configuration file '%s': %v", path, err)
	}

	user := map[string]any{}
	if err := yaml.Unmarshal(data, &user); err != nil {
		return shared.NewConfigurationError("invalid configuration file '%s': %v", path, err)
	}

	keys := make([]string, 0, len(user))
	for key := range user {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := l.checkKey(key); err != nil {
			return err
		}
		value, err := l.coerce(key, user[key])
		if err != nil {
			return err
		}
		user[key] = value
	}

	if err := l.v.MergeConfigMap(user); err != nil {
		return fmt.Errorf("merge configuration file '%s': %w", path, err)
	}
	return nil
}

// ApplyArg applies one --key, --no-key or --key=value token
func (l *Loader) ApplyArg(arg string) error {
	if m := flagOnPattern.FindStringSubmatch(arg); m != nil {
		return l.set(m[1], "yes")
	}
	if m := flagOffPattern.FindStringSubmatch(arg); m != nil {
		return l.set(m[1], "no")
	}
	if m := flagValuePattern.FindStringSubmatch(arg); m != nil {
		return l.set(m[1], m[2])
	}
	return shared.NewConfigurationError("unrecognized command line argument '%s'", arg)
}

// Set applies a single override as if it came from the command line
func (l *Loader) Set(key string, value any) error {
	if err := l.checkKey(key); err != nil {
		return err
	}
	coerced, err := l.coerce(key, value)
	if err != nil {
		return err
	}
	l.v.Set(key, coerced)
	return nil
}

// set parses a raw command line value the way a YAML document `key: value` would parse it. Commas are
// followed by a space first so that `--hosts=[a,b]` becomes a list
func (l *Loader) set(key string, raw string) error {
	if err := l.checkKey(key); err != nil {
		return err
	}

	raw = strings.ReplaceAll(raw, ",", ", ")
	doc := map[string]any{}
	if err := yaml.Unmarshal([]byte(fmt.Sprintf("%s: %s", key, raw)), &doc); err != nil {
		return shared.NewConfigurationError("invalid value for config parameter '%s': %v", key, err)
	}
	return l.Set(key, doc[key])
}

func (l *Loader) checkKey(key string) error {
	if _, ok := l.defaults[key]; !ok {
		return shared.NewConfigurationError("unknown config parameter '%s'", key)
	}
	return nil
}

// coerce turns yes/no style strings into booleans for keys whose default is a boolean
func (l *Loader) coerce(key string, value any) (any, error) {
	if _, isBool := l.defaults[key].(bool); !isBool {
		return value, nil
	}
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case string:
		b, err := parseBool(typed)
		if err != nil {
			return nil, shared.NewConfigurationError("config parameter '%s' expects yes or no, got '%s'", key, typed)
		}
		return b, nil
	default:
		return nil, shared.NewConfigurationError("config parameter '%s' expects yes or no", key)
	}
}

// Config decodes the merged settings
func (l *Loader) Config() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, shared.NewConfigurationError("invalid configuration: %v", err)
	}
	return &cfg, nil
}

// Keys lists every known configuration key in sorted order
func (l *Loader) Keys() []string {
	keys := make([]string, 0, len(l.defaults))
	for key := range l.defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
