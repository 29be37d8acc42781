package models

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jonasmwansa/portfolio-backend/errs"
)

// ContentStatus is the publication state shared by projects and blog posts.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// assignID fills in a primary key for rows created without one.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func requireText(field, value string) error {
	if value == "" {
		return errs.NewValidationError(field, "this field is required")
	}
	return nil
}

func maxRunes(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return errs.NewValidationError(field, "must be at most "+strconv.Itoa(limit)+" characters")
	}
	return nil
}

func checkStatus(field string, status *ContentStatus) error {
	if *status == "" {
		*status = StatusDraft
	}
	if !status.Valid() {
		return errs.NewValidationError(field, "must be one of draft, published, archived")
	}
	return nil
}

// Today returns t truncated to its calendar date in UTC.
func Today(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// dateKey turns a calendar date into a comparable yyyymmdd integer so dates
// stored in different locations compare by their wall-clock day.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
