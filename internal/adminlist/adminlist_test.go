package adminlist

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeList(t *testing.T, file string, contents string) {
	t.Helper()
	if err := os.WriteFile(file, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing list file: %v", err)
	}
}

func TestResolver(t *testing.T) {
	assert := assert.New(t)

	file := path.Join(t.TempDir(), ".env")
	resolver := NewResolver(NewFileSource(file))

	t.Run("missing file means nobody is privileged", func(t *testing.T) {
		assert.False(resolver.IsPrivileged("boss@x.com"))
	})

	t.Run("matches case and whitespace variants", func(t *testing.T) {
		writeList(t, file, "ADMIN_EMAILS=Boss@X.com, second@x.com\n")
		assert.True(resolver.IsPrivileged("boss@x.com"))
		assert.True(resolver.IsPrivileged("  BOSS@X.COM  "))
		assert.True(resolver.IsPrivileged("second@x.com"))
		assert.False(resolver.IsPrivileged("other@x.com"))
	})

	t.Run("edits take effect without restart", func(t *testing.T) {
		writeList(t, file, "ADMIN_EMAILS=boss@x.com\n")
		assert.True(resolver.IsPrivileged("boss@x.com"))

		writeList(t, file, "ADMIN_EMAILS=someone@else.com\n")
		assert.False(resolver.IsPrivileged("boss@x.com"))
		assert.True(resolver.IsPrivileged("someone@else.com"))
	})

	t.Run("singular key fallback", func(t *testing.T) {
		writeList(t, file, "ADMIN_EMAIL=solo@x.com\n")
		assert.True(resolver.IsPrivileged("solo@x.com"))
	})

	t.Run("quoted values", func(t *testing.T) {
		writeList(t, file, "ADMIN_EMAILS=\"quoted@x.com\"\n")
		assert.True(resolver.IsPrivileged("quoted@x.com"))
	})

	t.Run("empty value means empty list", func(t *testing.T) {
		writeList(t, file, "ADMIN_EMAILS=\nOTHER=thing\n")
		assert.False(resolver.IsPrivileged("boss@x.com"))
	})

	t.Run("empty input never matches", func(t *testing.T) {
		writeList(t, file, "ADMIN_EMAILS=boss@x.com\n")
		assert.False(resolver.IsPrivileged(""))
		assert.False(resolver.IsPrivileged("   "))
	})

	t.Run("ignores comments and unrelated keys", func(t *testing.T) {
		writeList(t, file, "# admins\nMAIL_USERNAME=mailer@x.com\nADMIN_EMAILS=boss@x.com\n")
		assert.True(resolver.IsPrivileged("boss@x.com"))
		assert.False(resolver.IsPrivileged("mailer@x.com"))
	})
}
