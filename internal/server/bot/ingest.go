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
	"github.com/dmitrijs2005/studybot/internal/server/models"
)

const captionUsage = `Caption format:
class|category|subject|chapter|title|premium

Example: 10|PYQ|Maths|Ch-4 Trig|2019 Set-1|0
premium: 1 = haan, 0 = nahi`

const addQuizUsage = `Format:
/addquiz <class> <subject> <chapter> "<question>" | opt1;opt2;opt3;opt4 | correct | premium

Example: /addquiz 10 Maths Ch-4 "sin 90 = ?" | 0;1;-1;2 | 2 | 0`

// handleDocument ingests an admin upload. Non-admin documents are ignored
// silently. The file itself stays on Telegram's side; only the file_id and
// the placement parsed from the caption are stored.
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		return
	}

	item, err := ParseCaption(msg.Caption)
	if err != nil {
		b.send(ctx, msg.Chat.ID, "❌ "+err.Error()+"\n\n"+captionUsage)
		return
	}
	item.FileID = msg.Document.FileID

	created, err := b.repos.Content(b.db).Create(ctx, item)
	if err != nil {
		b.logger.Error(ctx, "content save failed", "title", item.Title, "error", err)
		b.send(ctx, msg.Chat.ID, "Save nahi ho paya, dobara try karein.")
		return
	}

	b.logger.Info(ctx, "content added", "id", created.ID, "class", created.Class, "category", created.Category)
	b.send(ctx, msg.Chat.ID, fmt.Sprintf("Saved ✅ %s → Class %s / %s / %s / %s",
		created.Title, created.Class, created.Category, created.Subject, created.Chapter))
}

func (b *Bot) handleAddQuiz(ctx context.Context, msg *tgbotapi.Message) {
	q, err := ParseQuizCommand(msg.CommandArguments())
	if err != nil {
		b.send(ctx, msg.Chat.ID, "❌ "+err.Error()+"\n\n"+addQuizUsage)
		return
	}

	created, err := b.quizzes.Add(ctx, q)
	if err != nil {
		if errors.Is(err, common.ErrInvalidQuiz) {
			b.send(ctx, msg.Chat.ID, "❌ "+err.Error()+"\n\n"+addQuizUsage)
			return
		}
		b.logger.Error(ctx, "quiz save failed", "error", err)
		b.send(ctx, msg.Chat.ID, "Save nahi ho paya, dobara try karein.")
		return
	}

	b.send(ctx, msg.Chat.ID, fmt.Sprintf("Quiz saved ✅ #%d (Class %s / %s / %s)",
		created.ID, created.Class, created.Subject, created.Chapter))
}

// ParseCaption parses the six pipe-separated caption fields of a content
// upload. All-or-nothing: any bad field rejects the whole caption.
func ParseCaption(caption string) (*models.ContentItem, error) {
	parts := strings.Split(caption, "|")
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: need 6 fields, got %d", common.ErrInvalidCaption, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	item := &models.ContentItem{
		Class:    parts[0],
		Category: parts[1],
		Subject:  parts[2],
		Chapter:  parts[3],
		Title:    parts[4],
		Premium:  truthy(parts[5]),
	}
	if !oneOf(catalog.Classes, item.Class) {
		return nil, fmt.Errorf("%w: unknown class %q", common.ErrInvalidCaption, item.Class)
	}
	if !oneOf(catalog.Categories, item.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrInvalidCaption, item.Category)
	}
	if item.Subject == "" || item.Chapter == "" || item.Title == "" {
		return nil, fmt.Errorf("%w: empty field", common.ErrInvalidCaption)
	}
	return item, nil
}

// ParseQuizCommand parses the /addquiz arguments: a space-separated head
// (class, subject, chapter, then the question, optionally quoted) followed
// by three pipe-separated parts for options, correct index, and premium.
func ParseQuizCommand(args string) (*models.Quiz, error) {
	segs := strings.Split(args, "|")
	if len(segs) != 4 {
		return nil, fmt.Errorf("%w: need question | options | correct | premium", common.ErrInvalidQuiz)
	}

	head := strings.Fields(segs[0])
	if len(head) < 4 {
		return nil, fmt.Errorf("%w: need class, subject, chapter and a question", common.ErrInvalidQuiz)
	}
	q := &models.Quiz{
		Class:    head[0],
		Subject:  head[1],
		Chapter:  head[2],
		Question: strings.Trim(strings.Join(head[3:], " "), `"`),
	}
	if !oneOf(catalog.Classes, q.Class) {
		return nil, fmt.Errorf("%w: unknown class %q", common.ErrInvalidQuiz, q.Class)
	}

	opts := strings.Split(segs[1], ";")
	if len(opts) != 4 {
		return nil, fmt.Errorf("%w: need exactly 4 options, got %d", common.ErrInvalidQuiz, len(opts))
	}
	for i, opt := range opts {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return nil, fmt.Errorf("%w: option %d is empty", common.ErrInvalidQuiz, i+1)
		}
		q.Options[i] = opt
	}

	correct, err := strconv.Atoi(strings.TrimSpace(segs[2]))
	if err != nil || correct < 1 || correct > 4 {
		return nil, fmt.Errorf("%w: correct index must be 1..4", common.ErrInvalidQuiz)
	}
	q.CorrectIndex = correct
	q.Premium = truthy(strings.TrimSpace(segs[3]))

	return q, nil
}

// truthy matches the accepted premium-flag spellings; anything else means
// free, not an error.
func truthy(s string) bool {
	switch s {
	case "1", "true", "True", "yes", "Y":
		return true
	}
	return false
}

func oneOf(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
