package service

import (
	"context"
	"time"

	"mycareerlist/model"
)

// EmailMessage an outgoing email. TemplateID and Data are used by templated
// mail, Subject and Text by plain mail.
type EmailMessage struct {
	To         []string       `json:"to"`
	From       string         `json:"from"`
	ReplyTo    string         `json:"replyTo,omitempty"`
	Subject    string         `json:"subject,omitempty"`
	Text       string         `json:"text,omitempty"`
	TemplateID string         `json:"templateId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// JobPublishedEvent emitted when a paid featured job goes live
type JobPublishedEvent struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Category    string             `json:"category"`
	Type        string             `json:"type"`
	Location    string             `json:"location"`
	City        string             `json:"city"`
	URL         string             `json:"url"`
	Featured    bool               `json:"featured"`
	Company     model.CompanyBrief `json:"company"`
	CompanyURL  string             `json:"companyUrl"`
	PublishedAt time.Time          `json:"publishedAt"`
}

// Notifier fire-and-forget outbound messages
type Notifier interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
	JobPublished(ctx context.Context, event JobPublishedEvent) error
}

// ViewTracker job page view analytics
type ViewTracker interface {
	RecordView(ctx context.Context, slug string, at time.Time) error
	DailyViews(ctx context.Context, slug string, from, to time.Time) ([]model.ViewCount, error)
}

// NoopNotifier drops every message
type NoopNotifier struct{}

func (NoopNotifier) SendEmail(context.Context, EmailMessage) error { return nil }

func (NoopNotifier) JobPublished(context.Context, JobPublishedEvent) error { return nil }

// NoopViewTracker records nothing and reports no views
type NoopViewTracker struct{}

func (NoopViewTracker) RecordView(context.Context, string, time.Time) error { return nil }

func (NoopViewTracker) DailyViews(context.Context, string, time.Time, time.Time) ([]model.ViewCount, error) {
	return []model.ViewCount{}, nil
}
