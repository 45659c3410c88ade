package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/studybot/internal/common"
	"github.com/dmitrijs2005/studybot/internal/server/catalog"
	"github.com/dmitrijs2005/studybot/internal/server/payments"
)

// handleCallback routes inline-button presses. The payload is untrusted
// client input; anything that fails token validation gets a polite nudge
// back to /menu instead of an error dump.
func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.From == nil || q.Message == nil {
		return
	}
	chatID := q.Message.Chat.ID
	tgID := q.From.ID

	if err := b.repos.Users(b.db).EnsureUser(ctx, tgID, displayName(q.From)); err != nil {
		b.logger.Error(ctx, "user upsert failed", "tg_id", tgID, "error", err)
	}

	token, err := catalog.ParseToken(q.Data)
	if err != nil {
		b.logger.Warn(ctx, "invalid callback payload", "tg_id", tgID, "data", q.Data)
		b.answer(ctx, q.ID, "Yeh menu purana ho gaya. /menu bhejein.")
		return
	}
	b.answer(ctx, q.ID, "")

	switch token.Kind {
	case catalog.KindBuy:
		b.sendPurchaseOptions(ctx, chatID)
	case catalog.KindUPI:
		b.sendMarkdown(ctx, chatID, payments.ManualInstructions(b.cfg.PaymentUPIID, b.cfg.PaymentNote))
	case catalog.KindPlan:
		b.handlePlan(ctx, chatID, tgID, token.PlanKey)
	case catalog.KindRange:
		b.deliverRange(ctx, chatID, tgID, token)
	default:
		b.renderToken(ctx, chatID, tgID, q.Message.MessageID, token)
	}
}

// renderToken renders a navigation token and replaces the menu message in
// place, so the user walks the catalog within one message.
func (b *Bot) renderToken(ctx context.Context, chatID, tgID int64, messageID int, token catalog.Token) {
	view, err := b.nav.Render(ctx, tgID, token)
	if err != nil {
		b.logger.Error(ctx, "menu render failed", "kind", token.Kind, "error", err)
		b.send(ctx, chatID, "Kuchh galat ho gaya, thodi der baad try karein.")
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, view.Text, keyboard(view))
	if _, err := b.tg.Send(edit); err != nil {
		// Editing fails when the message is too old; fall back to a fresh one.
		out := tgbotapi.NewMessage(chatID, view.Text)
		out.ReplyMarkup = keyboard(view)
		if _, err := b.tg.Send(out); err != nil {
			b.logger.Warn(ctx, "message send failed", "chat_id", chatID, "error", err)
		}
	}
}

func (b *Bot) handlePlan(ctx context.Context, chatID, tgID int64, planKey string) {
	url, err := b.issuer.CreateIntent(ctx, tgID, planKey)
	switch {
	case errors.Is(err, common.ErrUnknownPlan):
		b.send(ctx, chatID, "Yeh plan available nahi hai. /buy se dobara choose karein.")
	case errors.Is(err, common.ErrGatewayUnavailable):
		b.sendMarkdown(ctx, chatID, payments.ManualInstructions(b.cfg.PaymentUPIID, b.cfg.PaymentNote))
	case err != nil:
		b.logger.Error(ctx, "payment link failed", "tg_id", tgID, "plan", planKey, "error", err)
		b.send(ctx, chatID, "Payment link nahi ban paya, thodi der baad try karein.")
	default:
		out := tgbotapi.NewMessage(chatID, "Pay karne ke liye neeche tap karein. Payment hote hi premium apne aap activate ho jayega. ⭐")
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💳 "+payments.Plans[planKey].Label, url),
		))
		if _, err := b.tg.Send(out); err != nil {
			b.logger.Warn(ctx, "message send failed", "chat_id", chatID, "error", err)
		}
	}
}

// deliverRange sends every item in a send-all range as its own document.
// Entitlement is re-checked per item at send time, so a forged or stale
// range token can never leak premium files, and one bad file_id does not
// abort the rest of the batch.
func (b *Bot) deliverRange(ctx context.Context, chatID, tgID int64, token catalog.Token) {
	items, err := b.nav.ResolveRange(ctx, token)
	if err != nil {
		b.logger.Error(ctx, "range resolve failed", "error", err)
		b.send(ctx, chatID, "Kuchh galat ho gaya, thodi der baad try karein.")
		return
	}
	if len(items) == 0 {
		b.send(ctx, chatID, "Is page par abhi koi file nahi hai.")
		return
	}

	for _, item := range items {
		if item.Premium {
			premium, err := b.ledger.IsPremium(ctx, tgID)
			if err != nil {
				b.logger.Error(ctx, "entitlement check failed", "tg_id", tgID, "error", err)
				b.send(ctx, chatID, "⚠️ Bhej nahi paya: "+item.Title)
				continue
			}
			if !premium {
				b.send(ctx, chatID, "🔒 "+item.Title+" — sirf premium ke liye. /buy se unlock karein.")
				continue
			}
		}

		if _, err := b.tg.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadDocument)); err != nil {
			b.logger.Warn(ctx, "chat action failed", "chat_id", chatID, "error", err)
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(item.FileID))
		doc.Caption = item.Title
		if _, err := b.tg.Send(doc); err != nil {
			b.logger.Warn(ctx, "document send failed", "file_id", item.FileID, "error", err)
			b.send(ctx, chatID, "⚠️ Bhej nahi paya: "+item.Title)
		}
	}
}

func keyboard(v *catalog.View) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(v.Buttons))
	for _, row := range v.Buttons {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btns...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
