package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	pkgcrypto "github.com/and161185/repairflow/internal/crypto"
)

const allUsers = "admin=a,Diego=d,Jesus=j,Marco=m,Mariano=mm"

func envOf(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWithRequiredEnv(t *testing.T) {
	cfg, err := Load(nil, envOf(map[string]string{
		"REPAIRFLOW_JWT_KEY": "secret",
		"REPAIRFLOW_USERS":   allUsers,
	}))
	require.NoError(t, err)
	require.Equal(t, ":8443", cfg.Listen)
	require.Equal(t, StoreMemory, cfg.Store.Driver)
	require.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	require.Equal(t, 5, cfg.Limiter.MaxFails)
	require.Equal(t, "none", cfg.Archive.Driver)
	require.Len(t, cfg.Auth.Users, 5)
}

func TestLoad_Precedence(t *testing.T) {
	file := writeFile(t, "repairflow.yaml", `
listen: ":7000"
metrics_addr: ":7001"
store:
  driver: postgres
  dsn: postgres://file
auth:
  signing_key: from-file
  access_ttl: 10m
  users:
    admin: a
    Diego: d
    Jesus: j
    Marco: m
    Mariano: mm
archive:
  driver: s3
  s3:
    bucket: exports
    path_style: true
`)
	dotenv := writeFile(t, ".env", "REPAIRFLOW_METRICS_ADDR=:8001\nREPAIRFLOW_LISTEN=:8000\n")

	cfg, err := Load(
		[]string{"--config", file, "--env-file", dotenv, "--listen", ":9000", "--dev"},
		envOf(map[string]string{"REPAIRFLOW_JWT_KEY": "from-env"}),
	)
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.Listen, "flag beats env and file")
	require.Equal(t, ":8001", cfg.MetricsAddr, ".env beats file")
	require.Equal(t, "from-env", cfg.Auth.SigningKey, "env beats file")
	require.Equal(t, 10*time.Minute, cfg.Auth.AccessTTL)
	require.Equal(t, "postgres://file", cfg.Store.DSN)
	require.True(t, cfg.Dev)

	ac := cfg.ArchiveConfig()
	require.Equal(t, "s3", ac.Driver)
	require.Equal(t, "exports", ac.S3.Bucket)
	require.True(t, ac.S3.PathStyle)
	require.Equal(t, "us-east-1", ac.S3.Region)
}

func TestLoad_ProcessEnvBeatsDotEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "REPAIRFLOW_JWT_KEY=dotenv\nREPAIRFLOW_USERS="+allUsers+"\n")
	cfg, err := Load([]string{"--env-file", dotenv}, envOf(map[string]string{"REPAIRFLOW_JWT_KEY": "process"}))
	require.NoError(t, err)
	require.Equal(t, "process", cfg.Auth.SigningKey)
	require.Equal(t, "mm", cfg.Auth.Users["Mariano"])
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	file := writeFile(t, "c.yaml", "store:\n  driver: sqlite\n  path: /tmp/rf.db\n")
	cfg, err := Load(nil, envOf(map[string]string{
		"REPAIRFLOW_CONFIG":  file,
		"REPAIRFLOW_JWT_KEY": "k",
		"REPAIRFLOW_USERS":   allUsers,
	}))
	require.NoError(t, err)
	require.Equal(t, StoreSQLite, cfg.Store.Driver)
	require.Equal(t, "/tmp/rf.db", cfg.Store.Path)
}

func TestLoad_Errors(t *testing.T) {
	base := map[string]string{"REPAIRFLOW_JWT_KEY": "k", "REPAIRFLOW_USERS": allUsers}

	_, err := Load([]string{"--help"}, envOf(base))
	require.ErrorIs(t, err, pflag.ErrHelp)

	_, err = Load([]string{"--access-ttl", "soon"}, envOf(base))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, envOf(base))
	require.Error(t, err)

	unknown := writeFile(t, "bad.yaml", "listen: \":1\"\nlisten_typo: x\n")
	_, err = Load([]string{"--config", unknown}, envOf(base))
	require.Error(t, err)

	_, err = Load(nil, envOf(map[string]string{"REPAIRFLOW_USERS": "admin"}))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Auth.SigningKey = "k"
		c.Auth.Users, _ = ParseUsers(allUsers)
		return c
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"no key":          func(c *Config) { c.Auth.SigningKey = "" },
		"zero ttl":        func(c *Config) { c.Auth.AccessTTL = 0 },
		"missing user":    func(c *Config) { delete(c.Auth.Users, "Marco") },
		"stranger":        func(c *Config) { c.Auth.Users["eve"] = "x" },
		"unknown store":   func(c *Config) { c.Store.Driver = "redis" },
		"postgres no dsn": func(c *Config) { c.Store.Driver = StorePostgres },
		"mongo no uri":    func(c *Config) { c.Store.Driver = StoreMongo },
		"half tls":        func(c *Config) { c.TLSCert = "cert.pem" },
		"bad limiter":     func(c *Config) { c.Limiter.MaxFails = 0 },
		"unknown archive": func(c *Config) { c.Archive.Driver = "ftp" },
		"s3 no bucket":    func(c *Config) { c.Archive.Driver = "s3" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			require.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestParseUsers(t *testing.T) {
	got, err := ParseUsers(" admin=a=b , Marco=m,")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"admin": "a=b", "Marco": "m"}, got)

	for _, bad := range []string{"admin", "=x", "admin="} {
		_, err := ParseUsers(bad)
		require.Error(t, err, bad)
	}
}

func TestCredentials(t *testing.T) {
	pre, err := pkgcrypto.NewCredential("encoded-pw")
	require.NoError(t, err)

	c := Default()
	c.Auth.Users = map[string]string{"admin": "plain-pw", "Marco": pre.String()}
	creds, err := c.Credentials()
	require.NoError(t, err)
	require.True(t, creds["admin"].Verify("plain-pw"))
	require.True(t, creds["Marco"].Verify("encoded-pw"))

	c.Auth.Users = map[string]string{"admin": "argon2id$broken"}
	_, err = c.Credentials()
	require.Error(t, err)
}

func TestLimiterPolicy(t *testing.T) {
	c := Default()
	c.Limiter = LimiterConfig{Window: time.Minute, MaxFails: 2, BlockFor: time.Hour}
	p := c.LimiterPolicy()
	require.Equal(t, time.Minute, p.Window)
	require.Equal(t, 2, p.MaxFails)
	require.Equal(t, time.Hour, p.BlockFor)
}
