package relay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onemouth/chatrelay/internal/relay"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "texts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadTexts(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		texts, err := relay.LoadTexts("")
		require.NoError(t, err)
		assert.Equal(t, relay.DefaultTexts(), texts)
		assert.NoError(t, texts.Validate())
	})

	t.Run("file overrides only the keys it sets", func(t *testing.T) {
		path := writeFile(t, "persona: You are a helpful pirate.\ngreeting: Ahoy!\n")

		texts, err := relay.LoadTexts(path)
		require.NoError(t, err)
		assert.Equal(t, "You are a helpful pirate.", texts.Persona)
		assert.Equal(t, "Ahoy!", texts.Greeting)
		assert.Equal(t, relay.DefaultTexts().Help, texts.Help)
	})

	t.Run("blank override is rejected", func(t *testing.T) {
		path := writeFile(t, "help: \"  \"\n")

		_, err := relay.LoadTexts(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "help must not be empty")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := relay.LoadTexts(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, "persona: [unterminated\n")

		_, err := relay.LoadTexts(path)
		assert.Error(t, err)
	})
}
