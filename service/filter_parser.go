package service

import (
	"net/url"
	"strconv"
	"strings"

	"mycareerlist/model"
	"mycareerlist/utils"
)

// ParseJobFilter normalizes job listing query parameters.
// Absent or blank list parameters mean no constraint.
func ParseJobFilter(q url.Values) model.JobFilter {
	return model.JobFilter{
		Title:    strings.TrimSpace(q.Get("title")),
		Location: utils.ParseListValues(q["location"]),
		Category: utils.ParseListValues(q["category"]),
		Type:     utils.ParseListValues(q["type"]),
		Cursor:   strings.TrimSpace(q.Get("cursor")),
		Page:     parsePage(q.Get("page")),
	}
}

// ParseCompanyFilter normalizes company listing query parameters.
// Unknown sort keys fall back to creation time.
func ParseCompanyFilter(q url.Values) model.CompanyFilter {
	return model.CompanyFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   parseCompanySort(q.Get("sort")),
		Cursor: strings.TrimSpace(q.Get("cursor")),
		Page:   parsePage(q.Get("page")),
	}
}

// FilterFromPreferences turns stored feed preferences into a job filter
func FilterFromPreferences(p model.FeedPreferences) model.JobFilter {
	return model.JobFilter{
		Location: utils.ParseListValues(p.Location),
		Category: utils.ParseListValues(p.Category),
		Type:     utils.ParseListValues(p.Type),
	}
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 0
	}
	return page
}

func parseCompanySort(raw string) string {
	switch strings.TrimSpace(raw) {
	case model.CompanySortJobs:
		return model.CompanySortJobs
	case model.CompanySortReviews:
		return model.CompanySortReviews
	default:
		return model.CompanySortCreatedAt
	}
}
