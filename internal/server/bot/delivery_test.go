package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/studybot/internal/logging"
	"github.com/dmitrijs2005/studybot/internal/server/catalog"
	"github.com/dmitrijs2005/studybot/internal/server/config"
	"github.com/dmitrijs2005/studybot/internal/server/models"
)

// --- fakes ---

// fakeSender records everything the bot sends; file ids listed in failFor
// make the send fail.
type fakeSender struct {
	texts   []string
	fileIDs []string
	failFor map[string]error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.texts = append(f.texts, v.Text)
	case tgbotapi.DocumentConfig:
		id := string(v.File.(tgbotapi.FileID))
		if err, ok := f.failFor[id]; ok {
			return tgbotapi.Message{}, err
		}
		f.fileIDs = append(f.fileIDs, id)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeLedger struct {
	premium bool
	claims  []string
}

func (f *fakeLedger) IsPremium(ctx context.Context, tgID int64) (bool, error) {
	return f.premium, nil
}

func (f *fakeLedger) Activate(ctx context.Context, tgID int64) (bool, error) {
	f.premium = true
	return true, nil
}

func (f *fakeLedger) RecordManualClaim(ctx context.Context, tgID int64, name, txnID string) error {
	f.claims = append(f.claims, txnID)
	return nil
}

type fakeContentRepo struct {
	items []*models.ContentItem
}

func (f *fakeContentRepo) Create(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	return item, nil
}

func (f *fakeContentRepo) DistinctSubjects(ctx context.Context, class, category string) ([]string, error) {
	return nil, nil
}

func (f *fakeContentRepo) DistinctChapters(ctx context.Context, class, category, subject string) ([]string, error) {
	return nil, nil
}

func (f *fakeContentRepo) ListByChapter(ctx context.Context, class, category, subject, chapter string) ([]*models.ContentItem, error) {
	return f.items, nil
}

func (f *fakeContentRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

// --- helpers ---

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newBotUnderTest(items []*models.ContentItem, ledger *fakeLedger) (*Bot, *fakeSender) {
	snd := &fakeSender{failFor: map[string]error{}}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	b := &Bot{
		tg:     snd,
		cfg:    cfg,
		ledger: ledger,
		nav:    catalog.NewNavigator(&fakeContentRepo{items: items}, ledger, cfg.PageSize),
		logger: discardLogger(),
	}
	return b, snd
}

func rangeToken(start, count int) catalog.Token {
	return catalog.Token{
		Kind: catalog.KindRange, Class: "10", Category: "PYQ",
		Subject: "Maths", Chapter: "Ch-4", Start: start, Count: count,
	}
}

// --- tests ---

// The range button encodes entitlement as it was at render time; the button
// may be pressed much later, so every item is gated again when it is sent.
func TestDeliverRange_WithholdsPremiumItemsAtSendTime(t *testing.T) {
	items := []*models.ContentItem{
		{ID: 1, Title: "2019 Set-1", FileID: "file-1"},
		{ID: 2, Title: "2020 Set-2", FileID: "file-2", Premium: true},
		{ID: 3, Title: "2021 Set-3", FileID: "file-3"},
	}
	b, snd := newBotUnderTest(items, &fakeLedger{premium: false})

	b.deliverRange(context.Background(), 7, 7, rangeToken(0, 3))

	assert.Equal(t, []string{"file-1", "file-3"}, snd.fileIDs, "premium file must not be sent")
	require.Len(t, snd.texts, 1)
	assert.Contains(t, snd.texts[0], "🔒 2020 Set-2")
	assert.Contains(t, snd.texts[0], "/buy")
}

func TestDeliverRange_PremiumUserGetsEverything(t *testing.T) {
	items := []*models.ContentItem{
		{ID: 1, Title: "2019 Set-1", FileID: "file-1"},
		{ID: 2, Title: "2020 Set-2", FileID: "file-2", Premium: true},
	}
	b, snd := newBotUnderTest(items, &fakeLedger{premium: true})

	b.deliverRange(context.Background(), 7, 7, rangeToken(0, 2))

	assert.Equal(t, []string{"file-1", "file-2"}, snd.fileIDs)
	assert.Empty(t, snd.texts)
}

func TestDeliverRange_OneFailedSendDoesNotAbortSiblings(t *testing.T) {
	items := []*models.ContentItem{
		{ID: 1, Title: "2019 Set-1", FileID: "file-1"},
		{ID: 2, Title: "2020 Set-2", FileID: "file-2"},
		{ID: 3, Title: "2021 Set-3", FileID: "file-3"},
	}
	b, snd := newBotUnderTest(items, &fakeLedger{premium: false})
	snd.failFor["file-2"] = errors.New("wrong file_id")

	b.deliverRange(context.Background(), 7, 7, rangeToken(0, 3))

	assert.Equal(t, []string{"file-1", "file-3"}, snd.fileIDs, "siblings after the failure must still go out")
	require.Len(t, snd.texts, 1)
	assert.Contains(t, snd.texts[0], "2020 Set-2", "failed item must be reported")
}

func TestDeliverRange_ForgedRangeClampedToChapter(t *testing.T) {
	items := []*models.ContentItem{
		{ID: 1, Title: "2019 Set-1", FileID: "file-1"},
	}
	b, snd := newBotUnderTest(items, &fakeLedger{premium: false})

	b.deliverRange(context.Background(), 7, 7, rangeToken(50, 100))

	assert.Empty(t, snd.fileIDs)
	require.Len(t, snd.texts, 1, "empty resolved range must be reported, not panicked on")
}

func TestHandleRedeem_KeepsFullReference(t *testing.T) {
	ledger := &fakeLedger{}
	b, _ := newBotUnderTest(nil, ledger)

	b.handleRedeem(context.Background(), redeemMessage(t, "/redeem UPI 2309 1444 0551"))

	require.Len(t, ledger.claims, 1)
	assert.Equal(t, "UPI 2309 1444 0551", ledger.claims[0], "multi-word reference must survive intact")
}

func TestHandleRedeem_EmptyArgumentGetsUsage(t *testing.T) {
	ledger := &fakeLedger{}
	b, snd := newBotUnderTest(nil, ledger)

	b.handleRedeem(context.Background(), redeemMessage(t, "/redeem   "))

	assert.Empty(t, ledger.claims)
	require.Len(t, snd.texts, 1)
	assert.Contains(t, snd.texts[0], "Use: /redeem")
}

func redeemMessage(t *testing.T, text string) *tgbotapi.Message {
	t.Helper()
	return &tgbotapi.Message{
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/redeem")}},
		From:     &tgbotapi.User{ID: 7, FirstName: "Asha"},
		Chat:     &tgbotapi.Chat{ID: 7},
	}
}
