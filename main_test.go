package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"evmfmt/pkg/config"
	"evmfmt/pkg/models"
	"evmfmt/pkg/numfmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const testTx = "0x1111111111111111111111111111111111111111111111111111111111111111"

// runCLI runs the CLI against a config file in a temp dir so the user's
// home config never leaks into a test.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	for _, k := range []string{config.EnvLocale, config.EnvCurrency, config.EnvRPCURLs, config.EnvFiatDecimals} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	cfgPath := filepath.Join(t.TempDir(), config.ConfigFileName)
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-config", cfgPath}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func newMockRPC(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var result interface{}
		switch req.Method {
		case "eth_gasPrice":
			result = "0x6fc23ac00"
		case "eth_getBalance":
			result = "0x14d1120d7b160000"
		default:
			result = nil
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun_FormatCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"parse", []string{"parse", "2.5k"}, "2500"},
		{"big", []string{"big", "1500000"}, "1.5M"},
		{"big precision", []string{"-precision", "2", "big", "1234"}, "1.23k"},
		{"compact", []string{"compact", "1234"}, "1.2K"},
		{"number", []string{"number", "1234.5"}, "1,234.50"},
		{"number ungrouped", []string{"-no-group", "number", "1234.5"}, "1234.50"},
		{"currency", []string{"currency", "1m"}, "$1,000,000.00"},
		{"commas", []string{"commas", "1234567.891"}, "1,234,567.89"},
		{"hex short", []string{"-length", "8", "hex", "0x1234567890"}, "0x123456"},
		{"status", []string{"status", "1"}, "Success"},
		{"eth", []string{"eth", "1500000000000000000"}, "1.5000"},
		{"negative big", []string{"big", "-1.5m"}, "-1.5M"},
		{"negative currency", []string{"currency", "-3"}, "-$3.00"},
		{"markdown", []string{"-markdown", "number", "1234.5"}, `1,234\.50`},
		{"gwei", []string{"gwei", "30000000000"}, "30.0 Gwei"},
		{"case insensitive", []string{"BIG", "2000"}, "2.0k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, tt.args...)
			assert.Equal(t, exitOK, code, errOut)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestRun_FormatMultipleAndJSON(t *testing.T) {
	code, out, _ := runCLI(t, "-json", "big", "1k", "oops")
	assert.Equal(t, exitError, code)

	var results []models.FormatResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "1.0k", results[0].Output)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, "oops", results[1].Input)
	assert.NotEmpty(t, results[1].Error)
	assert.Empty(t, results[1].Output)
}

func TestRun_Usage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "Usage: evmfmt")

	code, _, errOut = runCLI(t, "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, `unknown command "frobnicate"`)

	code, _, _ = runCLI(t, "big")
	assert.Equal(t, exitUsage, code)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "evmfmt version")
}

func TestRun_Config(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), config.ConfigFileName)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", cfgPath, "config", "path"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, cfgPath+"\n", stdout.String())

	stdout.Reset()
	code = run([]string{"-config", cfgPath, "config", "init"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.FileExists(t, cfgPath)

	loaded, err := config.LoadConfigFromFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Locale, loaded.Locale)

	stdout.Reset()
	code = run([]string{"-config", cfgPath, "config", "show"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), `"currency": "USD"`)

	code = run([]string{"-config", cfgPath, "config", "bogus"}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
}

func TestRun_ConfigDrivesFormatting(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"currency":"EUR","currency_symbol":"€"}`), 0600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "currency", "12.5"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "€12.50\n", stdout.String())

	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"currency":"EUR","token_decimals":2}`), 0600))
	stdout.Reset()
	code = run([]string{"-config", cfgPath, "currency", "12.5"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "€12.50\n", stdout.String())

	stdout.Reset()
	code = run([]string{"-config", cfgPath, "eth", "1500000000000000000"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "1.50\n", stdout.String())

	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"locale":"not a locale!"}`), 0600))
	code = run([]string{"-config", cfgPath, "currency", "12.5"}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
}

func TestRun_ChainCommands(t *testing.T) {
	srv := newMockRPC(t)

	code, out, errOut := runCLI(t, "-rpc", srv.URL, "gas")
	assert.Equal(t, exitOK, code, errOut)
	assert.Equal(t, "30.0 Gwei\n", out)

	code, out, errOut = runCLI(t, "-rpc", srv.URL, "balance", "0x00000000219ab540356cBB839Cbe05303d7705Fa")
	assert.Equal(t, exitOK, code, errOut)
	assert.True(t, strings.HasSuffix(out, "  1.5000 ETH\n"), out)

	code, out, errOut = runCLI(t, "-rpc", srv.URL, "tx", testTx)
	assert.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "Pending")

	code, _, _ = runCLI(t, "-rpc", srv.URL, "balance", "not-an-address")
	assert.Equal(t, exitError, code)
}

func TestRun_GasSamples(t *testing.T) {
	srv := newMockRPC(t)

	code, out, errOut := runCLI(t, "-rpc", srv.URL, "-samples", "2", "-interval", "1ms", "gas")
	assert.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "gas price (gwei)")
	assert.Contains(t, out, "latest: 30.00 gwei at ")
	assert.Contains(t, out, "over 2 samples (+0.00%)")
}

func TestGasSummary(t *testing.T) {
	opts := numfmt.DefaultOptions()
	opts.Locale = language.German
	f := numfmt.New(opts)

	ts := time.Unix(1700000000, 0)
	samples := []models.GasSample{
		{Timestamp: ts, Gwei: 20},
		{Timestamp: ts.Add(time.Minute), Gwei: 30.5},
	}
	got := gasSummary(f, samples)
	assert.True(t, strings.HasPrefix(got, "latest: 30,50 gwei at "), got)
	assert.True(t, strings.HasSuffix(got, "over 2 samples (+52.50%)"), got)

	got = gasSummary(f, samples[:1])
	assert.True(t, strings.HasSuffix(got, "over 1 samples"), got)
}

func TestRun_ChainCommandsNeedRPC(t *testing.T) {
	for _, cmd := range []string{"gas", "balance", "tx"} {
		code, _, errOut := runCLI(t, cmd)
		assert.Equal(t, exitUsage, code, cmd)
		assert.Contains(t, errOut, config.ErrNoRPC.Error())
	}
}
