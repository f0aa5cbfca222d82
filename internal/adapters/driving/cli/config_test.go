package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/adapters/driven/config/file"
)

func setupTestConfig(t *testing.T) func() {
	t.Helper()
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	SetConfigStore(store)
	return func() {
		configStore = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}

func TestConfigCmd_ShowEmpty(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "No configuration set")
}

func TestConfigCmd_SetAndShow(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"config", "set", "embedding.provider", "openai"})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"config", "set", "chunker.chunk_size", "500"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "openai", configStore.GetString("embedding.provider"))
	assert.Equal(t, 500, configStore.GetInt("chunker.chunk_size"))

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "show"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "embedding.provider = openai")
	assert.Contains(t, buf.String(), "chunker.chunk_size = 500")
}

func TestConfigCmd_ShowMasksAPIKey(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	require.NoError(t, configStore.Set("embedding.api_key", "sk-verysecretkey1234"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "show"})

	require.NoError(t, rootCmd.Execute())
	assert.NotContains(t, buf.String(), "verysecret")
	assert.Contains(t, buf.String(), "sk-v...1234")
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, int64(42), parseConfigValue("42"))
	assert.Equal(t, true, parseConfigValue("true"))
	assert.Equal(t, "ollama", parseConfigValue("ollama"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
