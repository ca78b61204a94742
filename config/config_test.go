package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zappem.net/pub/math/algsolve/poly"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "algsolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, poly.GrevLex, c.Order())
	assert.Equal(t, 10000, c.GroebnerOptions(nil).MaxPairs)
}

func TestLoad(t *testing.T) {
	path := write(t, `
groebner:
  order: lex
  timeout: 5s
log:
  level: debug
  format: json
cache:
  in_memory: true
  ttl: 1h
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, poly.Lex, c.Order())
	assert.Equal(t, 5*time.Second, c.Groebner.Timeout)
	assert.Equal(t, 10000, c.Groebner.MaxPairs, "unset fields keep defaults")
	assert.True(t, c.Cache.InMemory)
	assert.Equal(t, time.Hour, c.Cache.TTL)
	assert.Equal(t, 4, c.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(write(t, "groebner: [1, 2"))
	assert.Error(t, err)

	for _, body := range []string{
		"groebner:\n  order: degrevlex\n",
		"groebner:\n  max_pairs: -1\n",
		"log:\n  level: loud\n",
		"log:\n  format: xml\n",
		"cache:\n  path: /tmp/x\n  in_memory: true\n",
		"cache:\n  ttl: -1m\n",
		"workers: -2\n",
	} {
		_, err := Load(write(t, body))
		assert.ErrorIs(t, err, ErrInvalid, body)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	c := Default()
	c.Cache.Path = "/var/cache/algsolve"
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, c.Save(path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.Log.Format = "json"
	c.Log.Level = "warn"
	log := c.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"msg":"shown"`)
}
