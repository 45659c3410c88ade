package payments

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/dmitrijs2005/studybot/internal/common"
)

// Gateway creates hosted payment pages. The notes travel through the gateway
// untouched and come back on the confirmation, which is how the webhook maps
// a payment back to a user and plan.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, amount int64, description, reference string, notes map[string]string) (string, error)
}

// RazorpayGateway implements Gateway over the Razorpay payment-link API.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway builds the gateway client, or ErrGatewayUnavailable when
// credentials are missing so that callers can degrade to manual instructions.
func NewRazorpayGateway(keyID, keySecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, common.ErrGatewayUnavailable
	}
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}, nil
}

func (g *RazorpayGateway) CreatePaymentLink(ctx context.Context, amount int64, description, reference string, notes map[string]string) (string, error) {
	data := map[string]interface{}{
		"amount":       amount,
		"currency":     "INR",
		"description":  description,
		"reference_id": reference,
		"notes":        notes,
	}

	body, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay create payment link: %w", err)
	}

	url, ok := body["short_url"].(string)
	if !ok || url == "" {
		return "", fmt.Errorf("razorpay create payment link: response has no short_url")
	}

	return url, nil
}

// WebhookVerifier checks the HMAC signature Razorpay attaches to webhook
// deliveries. It needs only the webhook secret, not the API credentials.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

func (v *WebhookVerifier) Verify(body []byte, signature string) bool {
	return utils.VerifyWebhookSignature(string(body), signature, v.secret)
}
