package config

import (
	"os"
	"strconv"
	"strings"
)

// parseEnv overlays configuration from environment variables. Unset or
// malformed values leave the existing config untouched.
//
// Recognized variables: BOT_TOKEN, ADMIN_IDS (comma-separated Telegram IDs),
// DATABASE_DSN, ADDRESS, WEBHOOK_SECRET, RAZORPAY_KEY_ID,
// RAZORPAY_KEY_SECRET, PAYMENT_UPI_ID, PAYMENT_NOTE.
func parseEnv(config *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		config.BotToken = v
	}
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		if ids := parseAdminIDs(v); len(ids) > 0 {
			config.AdminIDs = ids
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		config.WebhookSecret = v
	}
	if v := os.Getenv("RAZORPAY_KEY_ID"); v != "" {
		config.RazorpayKeyID = v
	}
	if v := os.Getenv("RAZORPAY_KEY_SECRET"); v != "" {
		config.RazorpayKeySecret = v
	}
	if v := os.Getenv("PAYMENT_UPI_ID"); v != "" {
		config.PaymentUPIID = v
	}
	if v := os.Getenv("PAYMENT_NOTE"); v != "" {
		config.PaymentNote = v
	}
}

// parseAdminIDs splits a comma-separated list of Telegram IDs, skipping
// blanks and anything non-numeric.
func parseAdminIDs(s string) []int64 {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
