// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X github.com/rickgao/stockprice-etl/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/stockprice-etl/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/stockprice-etl/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/processor
package version

import "log/slog"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}

// Attr groups the build metadata for structured logs.
func Attr() slog.Attr {
	return slog.Group("build",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)
}
