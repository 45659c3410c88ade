package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/studybot/internal/common"
	"github.com/dmitrijs2005/studybot/internal/server/catalog"
	"github.com/dmitrijs2005/studybot/internal/server/payments"
)

const helpText = `📚 StudyBot commands:
/menu — notes, PYQ aur sample papers browse karein
/quiz <class> <subject> [chapter] — ek random quiz
/buy — premium plans dekhein
/redeem <TXN_ID> — manual payment ke baad premium claim karein
/myid — apni Telegram ID dekhein`

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.repos.Users(b.db).EnsureUser(ctx, msg.From.ID, displayName(msg.From)); err != nil {
		b.logger.Error(ctx, "user upsert failed", "tg_id", msg.From.ID, "error", err)
	}
	b.send(ctx, msg.Chat.ID, fmt.Sprintf("Namaste %s! 👋\nNotes, PYQ, sample papers aur quizzes ke liye class choose karein.", msg.From.FirstName))
	b.sendMenu(ctx, msg.Chat.ID, msg.From.ID)
}

func (b *Bot) sendMenu(ctx context.Context, chatID, tgID int64) {
	view, err := b.nav.Render(ctx, tgID, catalog.Token{Kind: catalog.KindHome})
	if err != nil {
		b.logger.Error(ctx, "menu render failed", "error", err)
		b.send(ctx, chatID, "Kuchh galat ho gaya, thodi der baad try karein.")
		return
	}
	out := tgbotapi.NewMessage(chatID, view.Text)
	out.ReplyMarkup = keyboard(view)
	if _, err := b.tg.Send(out); err != nil {
		b.logger.Warn(ctx, "message send failed", "chat_id", chatID, "error", err)
	}
}

// sendPurchaseOptions shows the plan keyboard when the gateway is available
// and degrades to the manual UPI instructions when it is not.
func (b *Bot) sendPurchaseOptions(ctx context.Context, chatID int64) {
	if !b.cfg.GatewayConfigured() {
		b.sendMarkdown(ctx, chatID, payments.ManualInstructions(b.cfg.PaymentUPIID, b.cfg.PaymentNote))
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(payments.PlanKeys)+1)
	for _, key := range payments.PlanKeys {
		data := catalog.Token{Kind: catalog.KindPlan, PlanKey: key}.Encode()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(payments.Plans[key].Label, data),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🧾 UPI se pay kiya? Redeem karein", catalog.Token{Kind: catalog.KindUPI}.Encode()),
	))

	out := tgbotapi.NewMessage(chatID, "⭐ Premium plan choose karein:")
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.tg.Send(out); err != nil {
		b.logger.Warn(ctx, "message send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleRedeem(ctx context.Context, msg *tgbotapi.Message) {
	// keep the whole remainder: references pasted from UPI apps can
	// contain spaces
	txnID := strings.TrimSpace(msg.CommandArguments())
	if txnID == "" {
		b.send(ctx, msg.Chat.ID, "Use: /redeem <TXN_ID> (jaise /redeem 12345ABCD)")
		return
	}

	err := b.ledger.RecordManualClaim(ctx, msg.From.ID, displayName(msg.From), txnID)
	if err != nil {
		b.logger.Error(ctx, "manual claim failed", "tg_id", msg.From.ID, "error", err)
		b.send(ctx, msg.Chat.ID, "Abhi register nahi ho paya, thodi der baad try karein.")
		return
	}
	b.send(ctx, msg.Chat.ID, "✅ Mil gaya! Admin verify karke aapka premium activate kar denge.")
}

func (b *Bot) handleQuiz(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.send(ctx, msg.Chat.ID, "Use: /quiz <class> <subject> [chapter]")
		return
	}
	class, subject := args[0], args[1]
	chapter := strings.Join(args[2:], " ")

	q, locked, err := b.quizzes.Pick(ctx, msg.From.ID, class, subject, chapter)
	if errors.Is(err, common.ErrorNotFound) {
		b.send(ctx, msg.Chat.ID, "Is topic par abhi koi quiz nahi hai.")
		return
	}
	if err != nil {
		b.logger.Error(ctx, "quiz pick failed", "error", err)
		b.send(ctx, msg.Chat.ID, "Kuchh galat ho gaya, thodi der baad try karein.")
		return
	}
	if locked {
		b.send(ctx, msg.Chat.ID, "🔒 Yeh quiz premium-only hai. /buy se unlock karein.")
		return
	}

	poll := tgbotapi.NewPoll(msg.Chat.ID, q.Question, q.Options[0], q.Options[1], q.Options[2], q.Options[3])
	poll.Type = "quiz"
	poll.IsAnonymous = false
	poll.CorrectOptionID = int64(q.CorrectIndex - 1)

	sent, err := b.tg.Send(poll)
	if err != nil {
		b.logger.Warn(ctx, "poll send failed", "quiz_id", q.ID, "error", err)
		return
	}
	if sent.Poll != nil {
		b.trackPoll(sent.Poll.ID, q)
	}
}

func (b *Bot) handlePollAnswer(ctx context.Context, pa *tgbotapi.PollAnswer) {
	q := b.takePoll(pa.PollID)
	if q == nil || len(pa.OptionIDs) == 0 {
		return
	}
	chosen := pa.OptionIDs[0] + 1
	if err := b.quizzes.RecordAttempt(ctx, pa.User.ID, q.ID, chosen, chosen == q.CorrectIndex); err != nil {
		b.logger.Warn(ctx, "attempt record failed", "quiz_id", q.ID, "error", err)
	}
}

func (b *Bot) handleMakePremium(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.send(ctx, msg.Chat.ID, "Use: /make_premium <tg_id>")
		return
	}
	tgID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(ctx, msg.Chat.ID, "Use: /make_premium <tg_id>")
		return
	}

	flipped, err := b.ledger.Activate(ctx, tgID)
	if err != nil {
		b.logger.Error(ctx, "manual activation failed", "tg_id", tgID, "error", err)
		b.send(ctx, msg.Chat.ID, "Activation failed, dobara try karein.")
		return
	}
	if flipped {
		b.send(ctx, msg.Chat.ID, fmt.Sprintf("⭐ Premium activate ho gaya: %d", tgID))
	} else {
		b.send(ctx, msg.Chat.ID, fmt.Sprintf("User %d pehle se premium hai.", tgID))
	}
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	total, premium, err := b.repos.Users(b.db).Counts(ctx)
	if err != nil {
		b.logger.Error(ctx, "stats query failed", "error", err)
		b.send(ctx, msg.Chat.ID, "Stats abhi nahi mil paaye.")
		return
	}
	items, err := b.repos.Content(b.db).Count(ctx)
	if err != nil {
		b.logger.Error(ctx, "stats query failed", "error", err)
		b.send(ctx, msg.Chat.ID, "Stats abhi nahi mil paaye.")
		return
	}
	quizCount, err := b.repos.Quizzes(b.db).Count(ctx)
	if err != nil {
		b.logger.Error(ctx, "stats query failed", "error", err)
		b.send(ctx, msg.Chat.ID, "Stats abhi nahi mil paaye.")
		return
	}

	b.send(ctx, msg.Chat.ID, fmt.Sprintf("📊 Users: %d (premium %d)\n📄 Content items: %d\n❓ Quizzes: %d",
		total, premium, items, quizCount))
}

func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	return name
}
