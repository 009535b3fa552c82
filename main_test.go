package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finmarket/config"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalcCommand(t *testing.T) {
	out, err := runCmd(t, "calc", "--amount", "300000", "--rate", "12.5", "--term", "24")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly payment: 14 192 ₽")
	assert.Contains(t, out, "Total payment:   340 608 ₽")
	assert.Contains(t, out, "Overpayment:     40 608 ₽")
	assert.Contains(t, out, "(2 years)")
}

func TestCalcCommand_Grace(t *testing.T) {
	out, err := runCmd(t, "calc", "--amount", "100000", "--rate", "19.9", "--grace-days", "120")
	require.NoError(t, err)
	assert.Contains(t, out, "Interest saved: 6 542 ₽")
}

func TestCalcCommand_Invalid(t *testing.T) {
	_, err := runCmd(t, "calc", "--amount", "0", "--rate", "10")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "finmarket dev\n", out)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func TestBuildApp_Memory(t *testing.T) {
	a, err := buildApp(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close(zap.NewNop())

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildApp_SQLiteAndRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Storage.Driver = config.StorageSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "finmarket.db")
	cfg.Cache.RedisAddr = mr.Addr()
	cfg.Application.RedirectDelay = time.Hour

	a, err := buildApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close(zap.NewNop())

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?category=loan", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ипотечный кредит")

	req := httptest.NewRequest(http.MethodPost, "/loan/calculate",
		bytes.NewBufferString(`{"amount": 300000, "interest_rate": 12.5, "term_months": 24}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mr.Exists("finmarket:loan:300000:12.5:24"))
}

func TestBuildApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.RedisAddr = "127.0.0.1:1"

	_, err := buildApp(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
