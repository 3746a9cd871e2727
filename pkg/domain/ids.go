package domain

import (
	"strconv"
	"strings"

	dErrors "formprefill/pkg/domain-errors"
)

// Typed identifiers for the records this service reads. All of them are
// positive integers assigned by the hosting content store; the types keep a
// page id from being passed where a content element id is expected.
type (
	UserID     int64
	PageID     int64
	ContentID  int64
	LanguageID int64
)

func (id UserID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id PageID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id ContentID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id LanguageID) String() string { return strconv.FormatInt(int64(id), 10) }

// IsValid reports whether the id denotes a real, logged-in user. Anonymous
// sessions carry a zero id.
func (id UserID) IsValid() bool { return id > 0 }

// ParseUserID parses a positive user id.
func ParseUserID(s string) (UserID, error) {
	v, err := parsePositive(s, "user id")
	return UserID(v), err
}

// ParsePageID parses a positive page id.
func ParsePageID(s string) (PageID, error) {
	v, err := parsePositive(s, "page id")
	return PageID(v), err
}

// ParseContentID parses a positive content element id.
func ParseContentID(s string) (ContentID, error) {
	v, err := parsePositive(s, "content id")
	return ContentID(v), err
}

// ParseLanguageID parses a language id. Zero is the default language.
func ParseLanguageID(s string) (LanguageID, error) {
	v, err := parseInt(s, "language id")
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "language id must not be negative")
	}
	return LanguageID(v), nil
}

func parsePositive(s, what string) (int64, error) {
	v, err := parseInt(s, what)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, what+" must be positive")
	}
	return v, nil
}

func parseInt(s, what string) (int64, error) {
	if s == "" || strings.TrimSpace(s) != s {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	return v, nil
}
