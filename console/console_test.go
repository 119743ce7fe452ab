/*
console_test.go - Terminal output tests

Colors are disabled and the color writer is swapped for a buffer, so the
assertions see the raw text the user would read.
*/
package console_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/console"
)

// captureColor routes the colored helpers into a buffer.
func captureColor(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	oldOutput := color.Output
	oldNoColor := color.NoColor
	color.Output = &buf
	color.NoColor = true
	defer func() {
		color.Output = oldOutput
		color.NoColor = oldNoColor
	}()
	fn()
	return buf.String()
}

// captureStdout redirects os.Stdout for the plain helpers.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()
	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestSuccess_PrefixesACheckmark(t *testing.T) {
	out := captureColor(t, func() {
		console.Success("Stored %d rows\n", 60)
	})
	assert.Equal(t, "✓ Stored 60 rows\n", out)
}

func TestSuccess_KeepsAnExistingCheckmark(t *testing.T) {
	out := captureColor(t, func() {
		console.Success("✓ already marked\n")
	})
	assert.Equal(t, "✓ already marked\n", out)
}

func TestWarning_PrefixesTheWarningSign(t *testing.T) {
	out := captureColor(t, func() {
		console.Warning("3 missing values\n")
	})
	assert.Equal(t, "⚠️  3 missing values\n", out)
}

func TestStep_PrefixesAnArrow(t *testing.T) {
	out := captureColor(t, func() {
		console.Step("[1/5] Downloading...\n")
	})
	assert.Equal(t, "→ [1/5] Downloading...\n", out)
}

func TestBanner_PrintsSixtyColumnRules(t *testing.T) {
	out := captureStdout(t, func() {
		console.Banner("LA MOULINETTE")
	})
	lines := bytes.Split([]byte(out), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Len(t, string(lines[0]), 60)
	assert.Equal(t, "LA MOULINETTE", string(lines[1]))
	assert.Equal(t, string(lines[0]), string(lines[2]))
}

func TestError_ReturnsTheBareTitle(t *testing.T) {
	err := console.Error("Download failed", "The RTE endpoint did not respond.", []string{
		"Check your network connection",
		"Retry with --skip-download if cached data exists",
	})
	require.Error(t, err)
	assert.Equal(t, "Download failed", err.Error())
}

func TestErrorWithContext_ReturnsTheBareTitle(t *testing.T) {
	err := console.ErrorWithContext("Consistency check failed", "One quantity drifted.", map[string]string{
		"quantity": "industrie_elec_twh",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "Consistency check failed", err.Error())
}
