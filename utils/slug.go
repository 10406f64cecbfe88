package utils

import (
	"github.com/gosimple/slug"
)

// Slugify lowercases s and replaces everything but letters and digits
// with single dashes. The same input always gives the same slug.
func Slugify(s string) string {
	return slug.Make(s)
}

// JobSlug derives the permanent slug of a job: "<title>-at-<company>"
func JobSlug(title, company string) string {
	return slug.Make(title + " at " + company)
}
