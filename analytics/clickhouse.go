package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"mycareerlist/config"
	"mycareerlist/model"
)

const dayLayout = "2006-01-02"

// Client stores job page views in ClickHouse
type Client struct {
	conn driver.Conn
}

func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) CreateTable(ctx context.Context) error {
	return c.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_views (
			slug String,
			viewed_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree()
		ORDER BY (slug, viewed_at)
	`)
}

func (c *Client) RecordView(ctx context.Context, slug string, at time.Time) error {
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO job_views")
	if err != nil {
		return err
	}
	if err := batch.Append(slug, at.UTC()); err != nil {
		return err
	}
	return batch.Send()
}

// DailyViews views per day between from and to, days without views included
func (c *Client) DailyViews(ctx context.Context, slug string, from, to time.Time) ([]model.ViewCount, error) {
	rows, err := c.conn.Query(ctx, `
		SELECT toDate(viewed_at) AS day, count() AS views
		FROM job_views
		WHERE slug = ? AND viewed_at >= ? AND viewed_at <= ?
		GROUP BY day
		ORDER BY day
	`, slug, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var (
			day   time.Time
			views uint64
		)
		if err := rows.Scan(&day, &views); err != nil {
			return nil, err
		}
		counts[day.Format(dayLayout)] = views
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fillDays(from, to, counts), nil
}

// fillDays one entry per UTC day from..to, zero where counts has none
func fillDays(from, to time.Time, counts map[string]uint64) []model.ViewCount {
	start := truncateDay(from)
	end := truncateDay(to)
	out := []model.ViewCount{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		out = append(out, model.ViewCount{Date: key, Views: counts[key]})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
