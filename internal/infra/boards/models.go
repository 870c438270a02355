package boards

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type greenhouseResponse struct {
	Jobs []json.RawMessage `json:"jobs"`
}

type greenhouseJob struct {
	ID          *int64       `json:"id"`
	Title       *string      `json:"title"`
	AbsoluteURL *string      `json:"absolute_url"`
	Location    locationName `json:"location"`
	UpdatedAt   flexTime     `json:"updated_at"`
}

type leverPosting struct {
	ID         *string `json:"id"`
	Text       *string `json:"text"`
	HostedURL  *string `json:"hostedUrl"`
	Categories struct {
		Location locationName `json:"location"`
	} `json:"categories"`
	CreatedAt flexTime `json:"createdAt"`
	UpdatedAt flexTime `json:"updatedAt"`
}

type ashbyResponse struct {
	Jobs []json.RawMessage `json:"jobs"`
}

type ashbyJob struct {
	ID          *string      `json:"id"`
	AltID       *string      `json:"_id"`
	Title       *string      `json:"title"`
	JobURL      *string      `json:"jobUrl"`
	ApplyURL    *string      `json:"applyUrl"`
	URL         *string      `json:"url"`
	Location    locationName `json:"location"`
	PublishedAt flexTime     `json:"publishedAt"`
	CreatedAt   flexTime     `json:"createdAt"`
	UpdatedAt   flexTime     `json:"updatedAt"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime accepts RFC3339-style strings or epoch milliseconds (Lever). Any
// value that fails to parse decodes as not-valid rather than erroring, so a
// bad timestamp normalizes to a nil pointer instead of dropping the posting.
type flexTime struct {
	Time  time.Time
	Valid bool
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	t.Valid = false
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}

	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return nil
		}
		value = strings.TrimSpace(value)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				t.Time = parsed.UTC()
				t.Valid = true
				return nil
			}
		}
		return nil
	}

	var millis float64
	if err := json.Unmarshal(data, &millis); err != nil {
		return nil
	}
	if millis <= 0 {
		return nil
	}
	t.Time = time.UnixMilli(int64(millis)).UTC()
	t.Valid = true
	return nil
}

func (t flexTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

// locationName accepts either a bare string or an object with a "name" field;
// providers are inconsistent about which they send.
type locationName struct {
	Name string
}

func (l *locationName) UnmarshalJSON(data []byte) error {
	l.Name = ""
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}

	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return nil
		}
		l.Name = value
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	l.Name = obj.Name
	return nil
}
