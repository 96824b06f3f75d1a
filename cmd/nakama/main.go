// Command nakama is built as a Nakama Go plugin (-buildmode=plugin) that
// serves ramen rooms.
package main

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"ramendo/internal/ports/nakama"
)

// InitModule is the symbol Nakama looks up when it loads the plugin.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}

// main is never called when loaded as a plugin; it lets `go build ./...`
// link this package in the default build mode.
func main() {}
