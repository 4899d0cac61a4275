package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeedsFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, writeFile(catalogPath, `
buses:
  - id: bus-x
    operatorName: X Travels
    from: Goa
    to: Mumbai
    departureTime: "20:00"
    totalSeats: 9
    price: 700
`))

	var out bytes.Buffer
	require.NoError(t, run([]string{"--driver", "file", "--path", path}, &out))
	assert.Equal(t, "store holds 5 buses\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"--driver", "file", "--path", path, "--catalog", catalogPath}, &out))
	assert.Equal(t, "store holds 5 buses\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"--driver", "file", "--path", path, "--catalog", catalogPath, "--force"}, &out))
	assert.Equal(t, "store holds 1 buses\n", out.String())
}

func TestRunRejectsExtraArgs(t *testing.T) {
	assert.Error(t, run([]string{"--driver", "memory", "oops"}, &bytes.Buffer{}))
}
