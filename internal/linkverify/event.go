package linkverify

import (
	"context"
	"time"
)

// BrokenLinkEvent describes a broken link for downstream consumers such as
// issue trackers.
type BrokenLinkEvent struct {
	URL        string `json:"url"`
	Target     string `json:"target"`
	Tag        string `json:"tag"`
	Text       string `json:"text,omitempty"`
	Page       string `json:"page"`
	PageURL    string `json:"page_url"`
	SourcePath string `json:"source_path"`
	Origin     string `json:"origin,omitempty"`
	RunID      string `json:"run_id,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewBrokenLinkEvent builds the event for b.
func NewBrokenLinkEvent(b BrokenLink, runID string) *BrokenLinkEvent {
	return &BrokenLinkEvent{
		URL:        b.Link.URL,
		Target:     b.Target,
		Tag:        b.Link.Tag,
		Text:       b.Link.Text,
		Page:       b.Page,
		PageURL:    b.PageURL,
		SourcePath: b.PagePath,
		Origin:     b.Origin,
		RunID:      runID,
	}
}

// EventPublisher delivers broken link events.
type EventPublisher interface {
	PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error
	Close() error
}

// PublishAll publishes an event for every broken link and returns the
// number delivered. It stops at the first error.
func PublishAll(ctx context.Context, pub EventPublisher, broken []BrokenLink, runID string) (int, error) {
	for i, b := range broken {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := pub.PublishBrokenLink(ctx, NewBrokenLinkEvent(b, runID)); err != nil {
			return i, err
		}
	}
	return len(broken), nil
}
