package main

import (
	"context"
	"os"

	"github.com/haguru/seedkit/internal/app"
)

// investor-inspector is read-only: it never inserts and never creates indexes.
func main() {
	os.Exit(app.Main(app.InvestorInspectorCommand, func(ctx context.Context, a *app.App) error {
		return a.RunInspector(ctx)
	}))
}
