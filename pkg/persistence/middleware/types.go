// Package middleware wraps a ReportCache with at-rest behaviors:
// encryption and redaction of cached analyst reports.
package middleware

import "synod/pkg/ports"

// Middleware allows wrapping a ReportCache to add behavior.
type Middleware func(ports.ReportCache) ports.ReportCache

// Chain applies the middlewares around the cache, the first one given
// being the outermost.
func Chain(cache ports.ReportCache, mws ...Middleware) ports.ReportCache {
	for i := len(mws) - 1; i >= 0; i-- {
		cache = mws[i](cache)
	}
	return cache
}
