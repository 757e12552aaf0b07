package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleLayout = `block_name: Sunrise Court
location: Kilimani
category: apartment
total_floors: 2
floors:
  - floor: 1
    units:
      - unit_type: Studio
        count: 2
        monthly_fee: 25000
  - floor: 2
    units:
      - unit_type: Studio
        count: 1
        monthly_fee: 27000
      - unit_type: 2BR
        count: 2
        monthly_fee: 60000
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExpandCommand(t *testing.T) {
	path := writeTemp(t, "layout.yaml", sampleLayout)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"expand", "-f", path, "--block-ref", "42"})
	require.NoError(t, rootCmd.Execute())

	var plan struct {
		TotalUnits int `yaml:"total_units"`
		Properties []struct {
			UnitType string `yaml:"unit_type"`
			Price    int64  `yaml:"price"`
			Units    []struct {
				UnitNumber string `yaml:"unit_number"`
			} `yaml:"units"`
		} `yaml:"properties"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &plan))
	assert.Equal(t, 5, plan.TotalUnits)
	require.Len(t, plan.Properties, 2)
	assert.Equal(t, "Studio", plan.Properties[0].UnitType)
	assert.Equal(t, int64(27000), plan.Properties[0].Price)
	assert.Len(t, plan.Properties[0].Units[0].UnitNumber, 10)
}

func TestFileSnapshot_IgnoresFormatting(t *testing.T) {
	a := writeTemp(t, "a.yaml", "title: Flat\nprice: 1200\n")
	b := writeTemp(t, "b.json", `{ "price": 1200, "title": "Flat" }`)

	snapA, err := fileSnapshot(a)()
	require.NoError(t, err)
	snapB, err := fileSnapshot(b)()
	require.NoError(t, err)
	assert.JSONEq(t, string(snapA), string(snapB))
	assert.Equal(t, snapA, snapB)
}

func TestTerminalPrompter(t *testing.T) {
	var out bytes.Buffer
	p := terminalPrompter{in: bufio.NewReader(strings.NewReader("y\nno\n")), out: &out}

	ok, err := p.Confirm("Quit?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm("Quit?")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Quit? [y/N]")
}
