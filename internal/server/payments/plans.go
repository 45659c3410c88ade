// Package payments issues gateway-hosted payment links for the fixed plan
// menu and decodes the gateway's asynchronous confirmations.
package payments

import (
	"fmt"
	"strings"
)

// Plan is one premium plan. Amount is in paise.
type Plan struct {
	Months int
	Amount int64
	Label  string
}

// Plans is the closed plan menu; keys arriving from callbacks are validated
// against it. PlanKeys fixes the display order.
var (
	Plans = map[string]Plan{
		"1m":  {Months: 1, Amount: 99_00, Label: "1 Month ₹99"},
		"3m":  {Months: 3, Amount: 249_00, Label: "3 Months ₹249"},
		"12m": {Months: 12, Amount: 699_00, Label: "12 Months ₹699"},
	}
	PlanKeys = []string{"1m", "3m", "12m"}
)

// ManualInstructions renders the UPI fallback text shown when the gateway is
// not configured, or when the user asks how to pay manually.
func ManualInstructions(upiID, note string) string {
	lines := []string{"⭐ *Premium Plans*"}
	for _, key := range PlanKeys {
		lines = append(lines, "• "+Plans[key].Label)
	}
	lines = append(lines,
		"",
		"Premium me Test Series, Exclusive Handwritten Notes, Full Sample Papers, Fast Support unlock hoga.",
		"",
		fmt.Sprintf("1) UPI se pay karein: `%s`", upiID),
		fmt.Sprintf("2) Payment note me likhein: `%s`", note),
		"3) Yahan bhejein: /redeem <TXN_ID> (jaise /redeem 12345ABCD)",
		"4) Admin verify karega aur aapko Premium de diya jayega.",
	)
	return strings.Join(lines, "\n")
}
