package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/studybot/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	BotToken          string  `json:"bot_token"`
	AdminIDs          []int64 `json:"admin_ids"`
	DatabaseDSN       string  `json:"database_dsn"`
	EndpointAddrHTTP  string  `json:"endpoint_addr_http"`
	WebhookSecret     string  `json:"webhook_secret"`
	RazorpayKeyID     string  `json:"razorpay_key_id"`
	RazorpayKeySecret string  `json:"razorpay_key_secret"`
	PaymentUPIID      string  `json:"payment_upi_id"`
	PaymentNote       string  `json:"payment_note"`
	PageSize          int     `json:"page_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. Zero values in the file do not
// overwrite existing config values.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.BotToken != "" {
		config.BotToken = c.BotToken
	}
	if len(c.AdminIDs) > 0 {
		config.AdminIDs = c.AdminIDs
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.WebhookSecret != "" {
		config.WebhookSecret = c.WebhookSecret
	}
	if c.RazorpayKeyID != "" {
		config.RazorpayKeyID = c.RazorpayKeyID
	}
	if c.RazorpayKeySecret != "" {
		config.RazorpayKeySecret = c.RazorpayKeySecret
	}
	if c.PaymentUPIID != "" {
		config.PaymentUPIID = c.PaymentUPIID
	}
	if c.PaymentNote != "" {
		config.PaymentNote = c.PaymentNote
	}
	if c.PageSize > 0 {
		config.PageSize = c.PageSize
	}
}
