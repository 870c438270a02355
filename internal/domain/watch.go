package domain

import (
	"errors"
	"strings"
	"time"
)

// SourceType identifies which job-board API a watch is read from.
type SourceType string

const (
	SourceGreenhouse SourceType = "greenhouse"
	SourceLever      SourceType = "lever"
	SourceAshby      SourceType = "ashby"
)

var ErrInvalidSourceType = errors.New("invalid source type")

func ParseSourceType(value string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(value))) {
	case SourceGreenhouse:
		return SourceGreenhouse, nil
	case SourceLever:
		return SourceLever, nil
	case SourceAshby:
		return SourceAshby, nil
	}
	return "", ErrInvalidSourceType
}

// Watch is a saved monitoring target: one company board plus keyword filters.
// SourceID is the provider-specific board/org slug and is treated as opaque.
type Watch struct {
	ID               string
	Company          string
	SourceType       SourceType
	SourceID         string
	TitleKeywords    []string
	LocationKeywords []string
	Active           bool
	LastCheckedAt    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
