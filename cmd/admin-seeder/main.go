package main

import (
	"context"
	"os"

	"github.com/haguru/seedkit/internal/app"
	"github.com/haguru/seedkit/internal/models"
	"github.com/haguru/seedkit/internal/seeder"
)

func main() {
	os.Exit(app.Main(app.AdminSeederCommand, func(ctx context.Context, a *app.App) error {
		defaults, err := seeder.DefaultsFor(models.RoleAdmin)
		if err != nil {
			return err
		}
		return a.RunSeeder(ctx, models.RoleAdmin, defaults)
	}))
}
