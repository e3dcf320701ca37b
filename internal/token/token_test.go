package token

import (
	"testing"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPendingToken(t *testing.T) {
	assert := assert.New(t)
	issuer := NewIssuer("test-secret")

	t.Run("round trip normalizes the email", func(t *testing.T) {
		signed, err := issuer.IssuePending("  New@X.com ", 10*time.Minute)
		assert.Nil(err)

		email, err := issuer.ParsePending(signed)
		assert.Nil(err)
		assert.Equal("new@x.com", email)
	})

	t.Run("rejects expiry", func(t *testing.T) {
		signed, err := issuer.IssuePending("new@x.com", 10*time.Minute)
		assert.Nil(err)

		later := NewIssuer("test-secret")
		later.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
		_, err = later.ParsePending(signed)
		assert.NotNil(err)
	})

	t.Run("rejects a session token presented as pending", func(t *testing.T) {
		signed, err := issuer.IssueSession("some-id", time.Hour)
		assert.Nil(err)

		_, err = issuer.ParsePending(signed)
		assert.NotNil(err)
	})

	t.Run("rejects a foreign signature", func(t *testing.T) {
		signed, err := NewIssuer("other-secret").IssuePending("new@x.com", 10*time.Minute)
		assert.Nil(err)

		_, err = issuer.ParsePending(signed)
		assert.NotNil(err)
	})
}

func TestSessionToken(t *testing.T) {
	assert := assert.New(t)
	issuer := NewIssuer("test-secret")

	signed, err := issuer.IssueSession(model.IdentityID("abc123"), time.Hour)
	assert.Nil(err)

	id, err := issuer.ParseSession(signed)
	assert.Nil(err)
	assert.Equal(model.IdentityID("abc123"), id)

	_, err = issuer.ParseSession("not-a-token")
	assert.NotNil(err)
}
