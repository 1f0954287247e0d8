package mapping_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/up-budget/cmd/mapping"
	"fjacquet/up-budget/internal/config"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Budget.MappingFile = filepath.Join(dir, "budget_mapping.yaml")
	cfg.Ledger.Path = filepath.Join(dir, "ledger.db")
	c, err := container.NewContainer(context.Background(), cfg,
		container.WithLogger(logging.NewMockLogger()),
		container.WithClock(func() time.Time { return time.Date(2023, time.June, 28, 14, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRunShow_BuiltIn(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, mapping.RunShow(newContainer(t), &out, "text"))

	text := out.String()
	assert.Contains(t, text, "Built-in mappings")
	assert.Contains(t, text, "Housing: Housing, Rent, Mortgage")
}

func TestRunInit_ThenShow(t *testing.T) {
	c := newContainer(t)
	var out bytes.Buffer

	require.NoError(t, mapping.RunInit(c, &out, false))
	assert.Contains(t, out.String(), "Wrote 10 budget mappings to "+c.GetMappingStore().File)

	err := mapping.RunInit(c, &out, false)
	assert.ErrorContains(t, err, "already exists")
	require.NoError(t, mapping.RunInit(c, &out, true))

	out.Reset()
	require.NoError(t, mapping.RunShow(c, &out, "text"))
	assert.Contains(t, out.String(), "Mappings from "+c.GetMappingStore().File)
	assert.Contains(t, out.String(), "Match order: Mapping, Substring")

	out.Reset()
	require.NoError(t, mapping.RunShow(c, &out, "yaml"))
	var doc struct {
		Mappings map[string][]string `yaml:"mappings"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Len(t, doc.Mappings, 10)
	assert.Equal(t, "Groceries", doc.Mappings["Food"][2])
}
