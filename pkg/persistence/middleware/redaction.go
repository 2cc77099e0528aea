package middleware

import (
	"context"
	"regexp"

	"synod/pkg/ports"
)

type redactionMiddleware struct {
	next     ports.ReportCache
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks every match of
// the patterns before a report is cached. Reports quote raw feed data,
// which can carry account identifiers or API keys that must not be
// persisted.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReportCache) ports.ReportCache {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Put(ctx context.Context, instrument, role, report string) error {
	for _, p := range m.patterns {
		report = p.ReplaceAllString(report, "***")
	}
	return m.next.Put(ctx, instrument, role, report)
}

func (m *redactionMiddleware) Get(ctx context.Context, instrument, role string) (string, error) {
	return m.next.Get(ctx, instrument, role)
}

func (m *redactionMiddleware) Delete(ctx context.Context, instrument, role string) error {
	return m.next.Delete(ctx, instrument, role)
}
