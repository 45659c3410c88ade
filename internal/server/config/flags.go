package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/studybot/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address for the webhook listener (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-t string   Telegram bot token
//	-w string   Razorpay webhook signing secret
//	-k string   Razorpay key id
//	-x string   Razorpay key secret
//	-u string   UPI id for manual payment instructions
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-w", "-k", "-x", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port for the webhook listener")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BotToken, "t", config.BotToken, "telegram bot token")
	fs.StringVar(&config.WebhookSecret, "w", config.WebhookSecret, "webhook signing secret")
	fs.StringVar(&config.RazorpayKeyID, "k", config.RazorpayKeyID, "razorpay key id")
	fs.StringVar(&config.RazorpayKeySecret, "x", config.RazorpayKeySecret, "razorpay key secret")
	fs.StringVar(&config.PaymentUPIID, "u", config.PaymentUPIID, "UPI id for manual payments")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
