package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── newConfigBuilder ──

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ──

func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	cfg, err := newConfigBuilder().build()

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_LaterConfigWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{TokenSignKey: "low", Version: "1.0.0"}},
		&StructuredConfig{App: App{TokenSignKey: "high"}},
	)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "high", cfg.App.TokenSignKey)
	assert.Equal(t, "1.0.0", cfg.App.Version, "zero fields do not override")
}

func TestBuild_AppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{App: App{TokenSignKey: "k"}})

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, FilesDriverLocal, cfg.Storage.Files.Driver)
	assert.Equal(t, defaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, time.Second, cfg.Server.CountdownInterval)
	assert.Equal(t, "k", cfg.App.RefreshHashKey)
	assert.Equal(t, defaultTokenIssuer, cfg.App.TokenIssuer)
}

// ── sources ──

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("APP_TOKEN_ISSUER", "env-issuer")

	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, "env-issuer", b.configs[0].App.TokenIssuer)
}

func TestWithFlags_NilFlagSetIsNoOp(t *testing.T) {
	b := newConfigBuilder()
	b.withFlags(nil)

	assert.Empty(t, b.configs)
	assert.NoError(t, b.err)
}

func TestWithFile_NoOpWhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withFile()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

func TestWithFile_PrependsFileConfig(t *testing.T) {
	path := writeTempConfig(t, "c.json", `{"app": {"token_sign_key": "from-file", "version": "file"}}`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		ConfigFilePath: path,
		App:            App{TokenSignKey: "from-env"},
	})
	b.withFile()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "from-file", b.configs[0].App.TokenSignKey)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.App.TokenSignKey)
	assert.Equal(t, "file", cfg.App.Version)
}

func TestWithFile_RecordsErrorForMissingFile(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{ConfigFilePath: "/does/not/exist.json"})
	b.withFile()

	assert.Error(t, b.err)
}

func TestWithDotEnv_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GG_DOTENV_LOADED=loaded\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("GG_DOTENV_LOADED") })

	b := newConfigBuilder().withDotEnv(nil)

	require.NoError(t, b.err)
	assert.Equal(t, "loaded", os.Getenv("GG_DOTENV_LOADED"))
}

func TestWithDotEnv_MissingDefaultIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())

	b := newConfigBuilder().withDotEnv(nil)

	assert.NoError(t, b.err)
}

func TestWithDotEnv_MissingExplicitFileFails(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	b := newConfigBuilder().withDotEnv(nil)

	assert.Error(t, b.err)
}

// ── GetStructuredConfig ──

func TestGetStructuredConfig_FlagsOverrideEnvOverrideFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTempConfig(t, "c.yaml", "app:\n  token_sign_key: file\n  version: from-file\nserver:\n  http_address: ':7000'\n")
	t.Setenv("CONFIG", path)
	t.Setenv("APP_TOKEN_SIGN_KEY", "env")
	t.Setenv("SERVER_ADDRESS", ":7001")

	fs := newTestFlagSet(t, "-a", ":7002")

	cfg, err := GetStructuredConfig(fs)

	require.NoError(t, err)
	assert.Equal(t, "env", cfg.App.TokenSignKey)
	assert.Equal(t, "from-file", cfg.App.Version)
	assert.Equal(t, ":7002", cfg.Server.HTTPAddress)
}
