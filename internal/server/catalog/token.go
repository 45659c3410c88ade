// Package catalog implements the menu state machine that walks users through
// class → category → subject → chapter → item pages. No session state is
// kept in memory: every inline button carries a token that fully describes
// the state to render next, so each callback is handled statelessly.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studybot/internal/common"
)

// Classes and Categories are the fixed catalog enums. Tokens referencing
// anything outside these lists are rejected during parsing.
var (
	Classes    = []string{"9", "10", "11", "12"}
	Categories = []string{"Short Notes", "PYQ", "Sample Papers", "Handwritten Notes", "Test Series", "Quizzes"}
)

// Token kinds, one per navigation state plus the purchase actions.
const (
	KindHome  = "home"
	KindClass = "class"
	KindCat   = "cat"
	KindSub   = "sub"
	KindChap  = "chap"
	KindPage  = "page"
	KindRange = "range"
	KindBuy   = "buy"
	KindUPI   = "upi"
	KindPlan  = "plan"
)

// Token is the parsed form of a callback payload: a tagged variant whose
// populated fields depend on Kind. Tokens come from clients and are treated
// as untrusted until ParseToken has validated them.
type Token struct {
	Kind     string
	Class    string
	Category string
	Subject  string
	Chapter  string
	Page     int
	Start    int
	Count    int
	PlanKey  string
}

// Encode renders the token as the pipe-delimited callback payload.
func (t Token) Encode() string {
	switch t.Kind {
	case KindHome, KindBuy, KindUPI:
		return t.Kind
	case KindClass:
		return strings.Join([]string{KindClass, t.Class}, "|")
	case KindCat:
		return strings.Join([]string{KindCat, t.Class, t.Category}, "|")
	case KindSub:
		return strings.Join([]string{KindSub, t.Class, t.Category, t.Subject}, "|")
	case KindChap:
		return strings.Join([]string{KindChap, t.Class, t.Category, t.Subject, t.Chapter}, "|")
	case KindPage:
		return strings.Join([]string{KindPage, t.Class, t.Category, t.Subject, t.Chapter, strconv.Itoa(t.Page)}, "|")
	case KindRange:
		return strings.Join([]string{KindRange, t.Class, t.Category, t.Subject, t.Chapter, strconv.Itoa(t.Start), strconv.Itoa(t.Count)}, "|")
	case KindPlan:
		return strings.Join([]string{KindPlan, t.PlanKey}, "|")
	}
	return ""
}

// ParseToken decodes and validates a callback payload. Anything structurally
// wrong (unknown tag, wrong field count, class or category outside the
// configured enums, empty free-text fields, non-numeric or negative numbers)
// yields common.ErrInvalidPayload. Forged-but-well-formed tokens that point
// at empty chapters are handled later by rendering an empty list.
func ParseToken(data string) (Token, error) {
	parts := strings.Split(data, "|")

	bad := func(reason string) (Token, error) {
		return Token{}, fmt.Errorf("%w: %s in %q", common.ErrInvalidPayload, reason, data)
	}

	switch parts[0] {
	case KindHome, KindBuy, KindUPI:
		if len(parts) != 1 {
			return bad("unexpected fields")
		}
		return Token{Kind: parts[0]}, nil

	case KindClass:
		if len(parts) != 2 {
			return bad("field count")
		}
		if !contains(Classes, parts[1]) {
			return bad("unknown class")
		}
		return Token{Kind: KindClass, Class: parts[1]}, nil

	case KindCat:
		if len(parts) != 3 {
			return bad("field count")
		}
		if !contains(Classes, parts[1]) || !contains(Categories, parts[2]) {
			return bad("unknown class or category")
		}
		return Token{Kind: KindCat, Class: parts[1], Category: parts[2]}, nil

	case KindSub:
		if len(parts) != 4 {
			return bad("field count")
		}
		if !contains(Classes, parts[1]) || !contains(Categories, parts[2]) || parts[3] == "" {
			return bad("bad node")
		}
		return Token{Kind: KindSub, Class: parts[1], Category: parts[2], Subject: parts[3]}, nil

	case KindChap:
		if len(parts) != 5 {
			return bad("field count")
		}
		if !contains(Classes, parts[1]) || !contains(Categories, parts[2]) || parts[3] == "" || parts[4] == "" {
			return bad("bad node")
		}
		return Token{Kind: KindChap, Class: parts[1], Category: parts[2], Subject: parts[3], Chapter: parts[4]}, nil

	case KindPage:
		if len(parts) != 6 {
			return bad("field count")
		}
		page, err := strconv.Atoi(parts[5])
		if err != nil || page < 0 {
			return bad("bad page index")
		}
		if !contains(Classes, parts[1]) || !contains(Categories, parts[2]) || parts[3] == "" || parts[4] == "" {
			return bad("bad node")
		}
		return Token{Kind: KindPage, Class: parts[1], Category: parts[2], Subject: parts[3], Chapter: parts[4], Page: page}, nil

	case KindRange:
		if len(parts) != 7 {
			return bad("field count")
		}
		start, err1 := strconv.Atoi(parts[5])
		count, err2 := strconv.Atoi(parts[6])
		if err1 != nil || err2 != nil || start < 0 || count < 1 {
			return bad("bad range")
		}
		if !contains(Classes, parts[1]) || !contains(Categories, parts[2]) || parts[3] == "" || parts[4] == "" {
			return bad("bad node")
		}
		return Token{Kind: KindRange, Class: parts[1], Category: parts[2], Subject: parts[3], Chapter: parts[4], Start: start, Count: count}, nil

	case KindPlan:
		if len(parts) != 2 || parts[1] == "" {
			return bad("bad plan key")
		}
		return Token{Kind: KindPlan, PlanKey: parts[1]}, nil
	}

	return bad("unknown tag")
}

// parent returns the token one level up; back buttons are just the parent
// token, so no navigation stack is needed.
func (t Token) parent() Token {
	switch t.Kind {
	case KindClass:
		return Token{Kind: KindHome}
	case KindCat:
		return Token{Kind: KindClass, Class: t.Class}
	case KindSub:
		return Token{Kind: KindCat, Class: t.Class, Category: t.Category}
	case KindChap:
		return Token{Kind: KindSub, Class: t.Class, Category: t.Category, Subject: t.Subject}
	case KindPage, KindRange:
		return Token{Kind: KindChap, Class: t.Class, Category: t.Category, Subject: t.Subject, Chapter: t.Chapter}
	}
	return Token{Kind: KindHome}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
