package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(WARN)
	Debugf("dropped %d", 1)
	Infof("dropped %d", 2)
	Warnf("kept %d", 3)
	Errorf("kept %d", 4)
	SetLevel(INFO)

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "[WARN] kept 3")
	require.Contains(t, out, "[ERROR] kept 4")
}

func TestFileSinkGetsAllLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	path := t.TempDir() + "/run.log"
	require.NoError(t, OpenFile(path))
	Debugf("file only %d", 1)
	CloseFile()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[DEBUG] file only 1")
	require.NotContains(t, buf.String(), "file only")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, ERROR, ParseLevel("ERROR"))
	require.Equal(t, INFO, ParseLevel("bogus"))
}
