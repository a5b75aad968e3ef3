// Package config loads repairflow-server settings.
//
// Sources, highest precedence first: command-line flags, REPAIRFLOW_* environment
// variables (the process environment wins over an optional .env file), a YAML file
// named by --config or REPAIRFLOW_CONFIG, and finally built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/and161185/repairflow/internal/archive"
	pkgcrypto "github.com/and161185/repairflow/internal/crypto"
	"github.com/and161185/repairflow/internal/limiter"
	"github.com/and161185/repairflow/internal/model"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "REPAIRFLOW_"

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// AllowedUsers is the fixed identity allow-list. Every name needs a password and no other
// name is accepted.
var AllowedUsers = []string{model.AdminUsername, "Diego", "Jesus", "Marco", "Mariano"}

// ErrInvalid marks validation failures.
var ErrInvalid = errors.New("invalid config")

// Config is the full server configuration.
type Config struct {
	Listen      string        `yaml:"listen"`
	MetricsAddr string        `yaml:"metrics_addr"`
	TLSCert     string        `yaml:"tls_cert"`
	TLSKey      string        `yaml:"tls_key"`
	Dev         bool          `yaml:"dev"`
	Store       StoreConfig   `yaml:"store"`
	Auth        AuthConfig    `yaml:"auth"`
	Limiter     LimiterConfig `yaml:"limiter"`
	Archive     ArchiveConfig `yaml:"archive"`
}

type StoreConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`      // postgres
	URI      string `yaml:"uri"`      // mongo
	Database string `yaml:"database"` // mongo
	Path     string `yaml:"path"`     // sqlite
}

type AuthConfig struct {
	SigningKey string        `yaml:"signing_key"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	// Users maps an allow-listed name to a plain password or an encoded argon2id credential.
	Users map[string]string `yaml:"users"`
}

type LimiterConfig struct {
	Window   time.Duration `yaml:"window"`
	MaxFails int           `yaml:"max_fails"`
	BlockFor time.Duration `yaml:"block_for"`
}

type ArchiveConfig struct {
	Driver string   `yaml:"driver"`
	Dir    string   `yaml:"dir"`
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Listen:      ":8443",
		MetricsAddr: ":9090",
		Store: StoreConfig{
			Driver:   StoreMemory,
			Database: "repairflow",
			Path:     "repairflow.db",
		},
		Auth: AuthConfig{AccessTTL: 30 * time.Minute},
		Limiter: LimiterConfig{
			Window:   limiter.DefaultPolicy.Window,
			MaxFails: limiter.DefaultPolicy.MaxFails,
			BlockFor: limiter.DefaultPolicy.BlockFor,
		},
		Archive: ArchiveConfig{
			Driver: archive.DriverNone,
			Dir:    "./exports",
			S3:     S3Config{Region: "us-east-1"},
		},
	}
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration from args (without the program name) and env.
// It returns pflag.ErrHelp when -h/--help is given.
func Load(args []string, env LookupFunc) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := fs.GetString("env-file")
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := env(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg := Default()
	path, _ := fs.GetString("config")
	if !fs.Changed("config") {
		path, _ = lookup(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	for _, s := range settings {
		if v, ok := lookup(s.envName()); ok {
			if err := s.apply(cfg, v); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, s.envName(), err)
			}
		}
	}

	var flagErr error
	fs.Visit(func(f *pflag.Flag) {
		s, ok := settingByFlag(f.Name)
		if !ok || flagErr != nil {
			return
		}
		if err := s.apply(cfg, f.Value.String()); err != nil {
			flagErr = fmt.Errorf("%w: --%s: %v", ErrInvalid, f.Name, err)
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings a server cannot start without.
func (c *Config) Validate() error {
	var problems []error
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Listen == "" {
		bad("listen address is required")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		bad("tls cert and key must be set together")
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			bad("sqlite store needs a path")
		}
	case StorePostgres:
		if c.Store.DSN == "" {
			bad("postgres store needs a dsn")
		}
	case StoreMongo:
		if c.Store.URI == "" || c.Store.Database == "" {
			bad("mongo store needs uri and database")
		}
	default:
		bad("unknown store driver %q", c.Store.Driver)
	}

	if c.Auth.SigningKey == "" {
		bad("jwt signing key is required")
	}
	if c.Auth.AccessTTL <= 0 {
		bad("access ttl must be positive")
	}
	for _, name := range AllowedUsers {
		if c.Auth.Users[name] == "" {
			bad("missing password for user %q", name)
		}
	}
	for _, name := range sortedKeys(c.Auth.Users) {
		if !slices.Contains(AllowedUsers, name) {
			bad("user %q is not in the allow-list", name)
		}
	}

	if c.Limiter.Window <= 0 || c.Limiter.BlockFor <= 0 || c.Limiter.MaxFails <= 0 {
		bad("limiter window, block duration and max fails must be positive")
	}

	switch c.Archive.Driver {
	case archive.DriverNone, archive.DriverFS:
	case archive.DriverS3:
		if c.Archive.S3.Bucket == "" {
			bad("s3 archive needs a bucket")
		}
	default:
		bad("unknown archive driver %q", c.Archive.Driver)
	}
	return errors.Join(problems...)
}

// Credentials hashes plain passwords and decodes encoded ones.
func (c *Config) Credentials() (map[string]pkgcrypto.Credential, error) {
	out := make(map[string]pkgcrypto.Credential, len(c.Auth.Users))
	for name, secret := range c.Auth.Users {
		var (
			cred pkgcrypto.Credential
			err  error
		)
		if pkgcrypto.IsEncoded(secret) {
			cred, err = pkgcrypto.ParseCredential(secret)
		} else {
			cred, err = pkgcrypto.NewCredential(secret)
		}
		if err != nil {
			return nil, fmt.Errorf("credential for %q: %w", name, err)
		}
		out[name] = cred
	}
	return out, nil
}

func (c *Config) LimiterPolicy() limiter.Policy {
	return limiter.Policy{Window: c.Limiter.Window, MaxFails: c.Limiter.MaxFails, BlockFor: c.Limiter.BlockFor}
}

func (c *Config) ArchiveConfig() archive.Config {
	s := c.Archive.S3
	return archive.Config{
		Driver: c.Archive.Driver,
		Dir:    c.Archive.Dir,
		S3: archive.S3Config{
			Bucket:          s.Bucket,
			Region:          s.Region,
			Endpoint:        s.Endpoint,
			PathStyle:       s.PathStyle,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			Prefix:          s.Prefix,
		},
	}
}

// ParseUsers reads "name=password,name=password".
func ParseUsers(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, secret, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || secret == "" {
			return nil, fmt.Errorf("malformed user entry %q", pair)
		}
		out[name] = secret
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- settings table shared by flags and environment ---

type setting struct {
	flag   string
	usage  string
	isBool bool
	apply  func(c *Config, v string) error
}

func (s setting) envName() string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(s.flag, "-", "_"))
}

func str(dst func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func boolean(dst func(c *Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func duration(dst func(c *Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst(c) = d
		return nil
	}
}

func integer(dst func(c *Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

var settings = []setting{
	{flag: "listen", usage: "gRPC listen address", apply: str(func(c *Config) *string { return &c.Listen })},
	{flag: "metrics-addr", usage: "metrics HTTP address (empty disables)", apply: str(func(c *Config) *string { return &c.MetricsAddr })},
	{flag: "tls-cert", usage: "TLS certificate (PEM); plaintext when empty", apply: str(func(c *Config) *string { return &c.TLSCert })},
	{flag: "tls-key", usage: "TLS private key (PEM)", apply: str(func(c *Config) *string { return &c.TLSKey })},
	{flag: "dev", usage: "development logging and server reflection", isBool: true, apply: boolean(func(c *Config) *bool { return &c.Dev })},

	{flag: "store", usage: "store driver: memory, sqlite, postgres, mongo", apply: str(func(c *Config) *string { return &c.Store.Driver })},
	{flag: "store-dsn", usage: "PostgreSQL DSN", apply: str(func(c *Config) *string { return &c.Store.DSN })},
	{flag: "store-uri", usage: "MongoDB URI", apply: str(func(c *Config) *string { return &c.Store.URI })},
	{flag: "store-database", usage: "MongoDB database", apply: str(func(c *Config) *string { return &c.Store.Database })},
	{flag: "store-path", usage: "SQLite file", apply: str(func(c *Config) *string { return &c.Store.Path })},

	{flag: "jwt-key", usage: "HS256 signing key (required)", apply: str(func(c *Config) *string { return &c.Auth.SigningKey })},
	{flag: "access-ttl", usage: "access token TTL", apply: duration(func(c *Config) *time.Duration { return &c.Auth.AccessTTL })},
	{flag: "users", usage: "allow-list credentials as name=password,...", apply: func(c *Config, v string) error {
		users, err := ParseUsers(v)
		if err != nil {
			return err
		}
		c.Auth.Users = users
		return nil
	}},

	{flag: "limiter-window", usage: "login failure window", apply: duration(func(c *Config) *time.Duration { return &c.Limiter.Window })},
	{flag: "limiter-max-fails", usage: "failures within the window before blocking", apply: integer(func(c *Config) *int { return &c.Limiter.MaxFails })},
	{flag: "limiter-block-for", usage: "login block duration", apply: duration(func(c *Config) *time.Duration { return &c.Limiter.BlockFor })},

	{flag: "archive", usage: "export archive driver: none, fs, s3", apply: str(func(c *Config) *string { return &c.Archive.Driver })},
	{flag: "archive-dir", usage: "fs archive directory", apply: str(func(c *Config) *string { return &c.Archive.Dir })},
	{flag: "s3-bucket", usage: "s3 archive bucket", apply: str(func(c *Config) *string { return &c.Archive.S3.Bucket })},
	{flag: "s3-region", usage: "s3 region", apply: str(func(c *Config) *string { return &c.Archive.S3.Region })},
	{flag: "s3-endpoint", usage: "s3 endpoint override", apply: str(func(c *Config) *string { return &c.Archive.S3.Endpoint })},
	{flag: "s3-path-style", usage: "s3 path-style addressing", isBool: true, apply: boolean(func(c *Config) *bool { return &c.Archive.S3.PathStyle })},
	{flag: "s3-prefix", usage: "s3 key prefix", apply: str(func(c *Config) *string { return &c.Archive.S3.Prefix })},
	{flag: "s3-access-key-id", usage: "s3 static access key", apply: str(func(c *Config) *string { return &c.Archive.S3.AccessKeyID })},
	{flag: "s3-secret-access-key", usage: "s3 static secret key", apply: str(func(c *Config) *string { return &c.Archive.S3.SecretAccessKey })},
}

func settingByFlag(name string) (setting, bool) {
	for _, s := range settings {
		if s.flag == name {
			return s, true
		}
	}
	return setting{}, false
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("repairflow-server", pflag.ContinueOnError)
	fs.String("config", "", "YAML config file (env "+EnvPrefix+"CONFIG)")
	fs.String("env-file", ".env", "dotenv file with "+EnvPrefix+"* variables")
	for _, s := range settings {
		usage := s.usage + " (env " + s.envName() + ")"
		if s.isBool {
			fs.Bool(s.flag, false, usage)
			continue
		}
		fs.String(s.flag, "", usage)
	}
	return fs
}
