package models

import "time"

// ContentItem is one admin-uploaded document. FileID is the opaque Telegram
// file reference; the file bytes never transit this system. Items are
// immutable after creation.
type ContentItem struct {
	ID        int64
	Class     string
	Category  string
	Subject   string
	Chapter   string
	Title     string
	FileID    string
	Premium   bool
	CreatedAt time.Time
}
