package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studybot/internal/common"
	"github.com/dmitrijs2005/studybot/internal/server/models"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/content"
)

// Fallback lists shown when the store has no content under a node yet.
// Display-only: nothing here is ever written back to the store.
var (
	fallbackSubjects = []string{"Maths", "Physics", "Chemistry", "Biology", "English", "Hindi", "SST"}
	fallbackChapters = []string{"Chapter 1", "Chapter 2", "Chapter 3"}
)

// PremiumChecker is the entitlement read used while rendering and delivering.
type PremiumChecker interface {
	IsPremium(ctx context.Context, tgID int64) (bool, error)
}

// Button is one inline control; Data is the encoded token for the next state.
type Button struct {
	Label string
	Data  string
}

// View is a rendered menu: message text plus button rows.
type View struct {
	Text    string
	Buttons [][]Button
}

// Navigator renders the catalog menus. It is stateless: every call gets all
// its state from the token and the store.
type Navigator struct {
	content  content.Repository
	ent      PremiumChecker
	pageSize int
}

func NewNavigator(content content.Repository, ent PremiumChecker, pageSize int) *Navigator {
	return &Navigator{content: content, ent: ent, pageSize: pageSize}
}

// Render computes the view for a navigation token. Purchase tokens (buy,
// plan) and delivery tokens (range) are routed elsewhere; passing one here
// is a programmer error reported as an invalid payload.
func (n *Navigator) Render(ctx context.Context, tgID int64, t Token) (*View, error) {
	switch t.Kind {
	case KindHome:
		return n.renderHome(), nil
	case KindClass:
		return n.renderCategories(t), nil
	case KindCat:
		return n.renderSubjects(ctx, t)
	case KindSub:
		return n.renderChapters(ctx, t)
	case KindChap:
		t.Page = 0
		return n.renderPage(ctx, tgID, t)
	case KindPage:
		return n.renderPage(ctx, tgID, t)
	}
	return nil, fmt.Errorf("%w: kind %q is not renderable", common.ErrInvalidPayload, t.Kind)
}

func (n *Navigator) renderHome() *View {
	v := &View{Text: "📚 Choose your class:"}
	for _, c := range Classes {
		v.Buttons = append(v.Buttons, []Button{{
			Label: "Class " + c,
			Data:  Token{Kind: KindClass, Class: c}.Encode(),
		}})
	}
	v.Buttons = append(v.Buttons, []Button{{Label: "Buy Premium ⭐", Data: Token{Kind: KindBuy}.Encode()}})
	return v
}

func (n *Navigator) renderCategories(t Token) *View {
	v := &View{Text: fmt.Sprintf("Class %s → Choose category:", t.Class)}
	for _, cat := range Categories {
		v.Buttons = append(v.Buttons, []Button{{
			Label: cat,
			Data:  Token{Kind: KindCat, Class: t.Class, Category: cat}.Encode(),
		}})
	}
	v.Buttons = append(v.Buttons, backRow(t.parent()))
	return v
}

func (n *Navigator) renderSubjects(ctx context.Context, t Token) (*View, error) {
	subjects, err := n.content.DistinctSubjects(ctx, t.Class, t.Category)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		subjects = fallbackSubjects
	}

	v := &View{Text: fmt.Sprintf("Class %s → %s → Choose subject:", t.Class, t.Category)}
	for _, s := range subjects {
		v.Buttons = append(v.Buttons, []Button{{
			Label: s,
			Data:  Token{Kind: KindSub, Class: t.Class, Category: t.Category, Subject: s}.Encode(),
		}})
	}
	v.Buttons = append(v.Buttons, backRow(t.parent()))
	return v, nil
}

func (n *Navigator) renderChapters(ctx context.Context, t Token) (*View, error) {
	chapters, err := n.content.DistinctChapters(ctx, t.Class, t.Category, t.Subject)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		chapters = fallbackChapters
	}

	v := &View{Text: fmt.Sprintf("Class %s → %s → %s → Choose chapter:", t.Class, t.Category, t.Subject)}
	for _, ch := range chapters {
		v.Buttons = append(v.Buttons, []Button{{
			Label: ch,
			Data:  Token{Kind: KindChap, Class: t.Class, Category: t.Category, Subject: t.Subject, Chapter: ch}.Encode(),
		}})
	}
	v.Buttons = append(v.Buttons, backRow(t.parent()))
	return v, nil
}

func (n *Navigator) renderPage(ctx context.Context, tgID int64, t Token) (*View, error) {
	items, err := n.content.ListByChapter(ctx, t.Class, t.Category, t.Subject, t.Chapter)
	if err != nil {
		return nil, err
	}
	premium, err := n.ent.IsPremium(ctx, tgID)
	if err != nil {
		return nil, err
	}

	// clamp a forged or stale page index back into range
	page := t.Page
	if maxPage := (len(items) - 1) / n.pageSize; page > maxPage && maxPage >= 0 {
		page = maxPage
	}
	if page < 0 {
		page = 0
	}

	start := page * n.pageSize
	end := start + n.pageSize
	if end > len(items) {
		end = len(items)
	}
	pageItems := items[start:end]

	lines := []string{fmt.Sprintf("Class %s → %s → %s → %s", t.Class, t.Category, t.Subject, t.Chapter), ""}
	if len(pageItems) == 0 {
		lines = append(lines, "No items yet. Check again later ✨")
	} else {
		for i, item := range pageItems {
			lines = append(lines, fmt.Sprintf("%d. %s %s", start+i+1, item.Title, lockGlyph(premium, item)))
		}
	}

	v := &View{Text: strings.Join(lines, "\n")}

	node := Token{Class: t.Class, Category: t.Category, Subject: t.Subject, Chapter: t.Chapter}

	var nav []Button
	if start > 0 {
		prev := node
		prev.Kind, prev.Page = KindPage, page-1
		nav = append(nav, Button{Label: "⬅️ Prev", Data: prev.Encode()})
	}
	if end < len(items) {
		next := node
		next.Kind, next.Page = KindPage, page+1
		nav = append(nav, Button{Label: "Next ➡️", Data: next.Encode()})
	}
	if len(nav) > 0 {
		v.Buttons = append(v.Buttons, nav)
	}

	if len(pageItems) > 0 {
		rng := node
		rng.Kind, rng.Start, rng.Count = KindRange, start, len(pageItems)
		v.Buttons = append(v.Buttons, []Button{{
			Label: fmt.Sprintf("📥 Send #%d–#%d", start+1, end),
			Data:  rng.Encode(),
		}})
	}

	back := node
	back.Kind = KindChap
	v.Buttons = append(v.Buttons, backRow(back.parent()))

	if !premium {
		v.Buttons = append(v.Buttons, []Button{{Label: "⭐ Buy Premium", Data: Token{Kind: KindBuy}.Encode()}})
	}

	return v, nil
}

// ResolveRange returns the items addressed by a range token, clamped to the
// actual list so a forged range never panics or leaks items outside the
// chapter. Entitlement is deliberately not checked here: delivery re-checks
// it per item at send time.
func (n *Navigator) ResolveRange(ctx context.Context, t Token) ([]*models.ContentItem, error) {
	if t.Kind != KindRange {
		return nil, fmt.Errorf("%w: kind %q is not a range", common.ErrInvalidPayload, t.Kind)
	}

	items, err := n.content.ListByChapter(ctx, t.Class, t.Category, t.Subject, t.Chapter)
	if err != nil {
		return nil, err
	}

	start := t.Start
	if start > len(items) {
		start = len(items)
	}
	end := start + t.Count
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], nil
}

func lockGlyph(premiumUser bool, item *models.ContentItem) string {
	if premiumUser || !item.Premium {
		return "🔓"
	}
	return "🔒 Premium"
}

func backRow(parent Token) []Button {
	return []Button{{Label: "⬅️ Back", Data: parent.Encode()}}
}
