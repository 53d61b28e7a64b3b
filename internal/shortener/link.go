package shortener

import (
	"regexp"
	"time"
)

// Code represents a short link code.
type Code string

// Link maps a code to its target URL and carries its click accounting.
type Link struct {
	Code          Code
	TargetURL     string
	TotalClicks   int64
	LastClickedAt *time.Time // nil until the first successful resolution
	CreatedAt     time.Time
}

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// Valid reports whether c has the shape of a storable code.
func (c Code) Valid() bool {
	return codePattern.MatchString(string(c))
}
