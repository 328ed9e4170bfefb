package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV map[string]string

func (f fakeKV) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("vault:secret/audiocat/db#password")
	require.NoError(t, err)
	assert.Equal(t, Ref{Path: "secret/audiocat/db", Key: "password"}, ref)

	for _, bad := range []string{
		"secret/db#pw",
		"vault:secret/db",
		"vault:secret/db#",
		"vault:secret#pw",
		"vault:/db#pw",
	} {
		_, err := ParseRef(bad)
		assert.ErrorIs(t, err, ErrBadRef, bad)
	}
}

func TestResolve(t *testing.T) {
	kv := fakeKV{"secret/audiocat/db#password": "s3cret"}
	ctx := context.Background()

	got, err := Resolve(ctx, kv, "vault:secret/audiocat/db#password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	got, err = Resolve(ctx, nil, "plain-password")
	require.NoError(t, err)
	assert.Equal(t, "plain-password", got)

	_, err = Resolve(ctx, nil, "vault:secret/audiocat/db#password")
	assert.Error(t, err)

	_, err = Resolve(ctx, kv, "vault:secret/other#password")
	assert.Error(t, err)
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("kv/site/db")
	assert.Equal(t, "kv", m)
	assert.Equal(t, "site/db", r)

	m, r = splitMount("kv")
	assert.Equal(t, "kv", m)
	assert.Empty(t, r)
}
