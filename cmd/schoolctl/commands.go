package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sekolah-web/core/internal/app"
	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/media"
)

func regenerateConversions(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("regenerate-conversions", flag.ContinueOnError)
	collection := fs.String("collection", "", "Only assets of this collection")
	if err := fs.Parse(args); err != nil {
		return err
	}
	done, failed, err := a.RegenerateConversions(ctx, *collection)
	if err != nil {
		return err
	}
	fmt.Printf("regenerated %d assets, %d failed\n", done, failed)
	if failed > 0 {
		return fmt.Errorf("%d assets could not be regenerated", failed)
	}
	return nil
}

func clearSettingsCache(ctx context.Context, a *app.App, _ []string) error {
	if err := a.Settings.ClearCache(ctx); err != nil {
		return err
	}
	fmt.Println("settings cache cleared")
	return nil
}

func purgeTrash(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("purge-trash", flag.ContinueOnError)
	kind := fs.String("kind", "", "Record kind: "+kindList(a.PurgeableKinds()))
	olderThan := fs.String("older-than", "30d", "Minimum time in the trash, e.g. 30d or 72h")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *kind == "" {
		fs.Usage()
		return errors.New("-kind is required")
	}
	age, err := app.ParseAge(*olderThan)
	if err != nil {
		return fmt.Errorf("-older-than: %w", err)
	}
	n, err := a.PurgeTrash(ctx, models.MorphType(*kind), age)
	if err != nil {
		return err
	}
	fmt.Printf("purged %d %s rows\n", n, *kind)
	return nil
}

func resolve(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	kind := fs.String("kind", "", "Record kind: "+kindList(a.ImageKinds()))
	slug := fs.String("slug", "", "Record slug")
	sizeName := fs.String("size", string(media.SizeMedium), "thumb, small, medium or large")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *kind == "" || *slug == "" {
		fs.Usage()
		return errors.New("-kind and -slug are required")
	}
	size, ok := media.ParseSize(*sizeName)
	if !ok {
		return fmt.Errorf("unknown size %q", *sizeName)
	}
	set, err := a.ResolveImage(ctx, models.MorphType(*kind), *slug, size)
	if err != nil {
		return err
	}
	for _, row := range []struct {
		name string
		url  *string
	}{{"webp", set.Webp}, {"jpg", set.Jpg}, {"original", set.Original}, {"thumb", set.Thumb}} {
		v := "-"
		if row.url != nil {
			v = *row.url
		}
		fmt.Fprintf(os.Stdout, "%-9s %s\n", row.name, v)
	}
	return nil
}
