package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 8, cfg.PageSize)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.BotToken)
	assert.Empty(t, cfg.AdminIDs)
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{100, 200}}

	assert.True(t, cfg.IsAdmin(100))
	assert.True(t, cfg.IsAdmin(200))
	assert.False(t, cfg.IsAdmin(300))
	assert.False(t, (&Config{}).IsAdmin(100))
}

func TestGatewayConfigured(t *testing.T) {
	assert.False(t, (&Config{}).GatewayConfigured())
	assert.False(t, (&Config{RazorpayKeyID: "rzp_test"}).GatewayConfigured())
	assert.True(t, (&Config{RazorpayKeyID: "rzp_test", RazorpayKeySecret: "s"}).GatewayConfigured())
}

func TestParseEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("ADMIN_IDS", "1, 2,junk,,3")
	t.Setenv("ADDRESS", ":9090")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "tok", cfg.BotToken)
	assert.Equal(t, []int64{1, 2, 3}, cfg.AdminIDs)
	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
}

func TestParseAdminIDs(t *testing.T) {
	assert.Empty(t, parseAdminIDs(""))
	assert.Empty(t, parseAdminIDs("abc"))
	assert.Equal(t, []int64{42}, parseAdminIDs("42"))
	assert.Equal(t, []int64{1, 2}, parseAdminIDs(" 1 , 2 "))
}
