package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"centro-site/api/internal/admin"
	"centro-site/api/internal/config"
	"centro-site/api/internal/models"
)

const usage = `Usage: siteadmin featured [show|set|options] [options]

  show      print the current A/B/C assignment
  set       change slots, e.g. set -A news:new-lab -B project:alpha -C ""
            slots not given keep their current value; "" empties a slot
  options   list every news item and project that can be selected`

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	if len(os.Args) < 3 || os.Args[1] != "featured" {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	fs := flag.NewFlagSet("featured "+os.Args[2], flag.ExitOnError)
	fs.StringVar(&cfg.APIURL, "api", config.GetEnvString("SITE_API_URL", config.DefaultAPIURL),
		"Base URL of the site API (env: SITE_API_URL)")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "API key for write routes (env: SITE_API_KEY)")

	refs := make(map[models.Position]*string, len(models.Positions))
	for _, p := range models.Positions {
		refs[p] = fs.String(string(p), "", fmt.Sprintf("Selection for position %s as type:slug", p))
	}
	fs.Parse(os.Args[3:])

	client, err := admin.NewClient(cfg.APIURL, cfg.APIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid API URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[2] {
	case "show":
		err = show(ctx, admin.NewEditor(client))
	case "set":
		given := make(map[models.Position]string)
		fs.Visit(func(f *flag.Flag) {
			if p, perr := models.ParsePosition(f.Name); perr == nil {
				given[p] = *refs[p]
			}
		})
		err = set(ctx, admin.NewEditor(client), given)
	case "options":
		err = options(ctx, client)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func show(ctx context.Context, editor *admin.Editor) error {
	if err := editor.Load(ctx); err != nil {
		return err
	}
	printSnapshot(editor.Snapshot())
	return nil
}

func set(ctx context.Context, editor *admin.Editor, given map[models.Position]string) error {
	if len(given) == 0 {
		return errors.New("nothing to set: pass at least one of -A, -B, -C")
	}
	if err := editor.Load(ctx); err != nil {
		return err
	}

	for p, raw := range given {
		ref, err := parseRef(raw)
		if err != nil {
			return fmt.Errorf("position %s: %w", p, err)
		}
		if err := editor.Select(p, ref); err != nil {
			return err
		}
	}

	if err := editor.Save(ctx); err != nil {
		if errors.Is(err, admin.ErrDuplicateSelection) {
			log.Warn().Msg(editor.Snapshot().Warning)
		}
		return err
	}

	fmt.Println("Saved.")
	printSnapshot(editor.Snapshot())
	return nil
}

func options(ctx context.Context, client *admin.Client) error {
	for _, kind := range []models.ContentType{models.ContentNews, models.ContentProject} {
		items, err := client.ListArticles(ctx, kind)
		if err != nil {
			return err
		}
		for _, a := range items {
			marker := ""
			if a.FeaturedPosition != nil {
				marker = " [" + string(*a.FeaturedPosition) + "]"
			}
			fmt.Printf("%s:%s\t%s%s\n", kind, a.Slug, a.TitlePT, marker)
		}
	}
	return nil
}

func printSnapshot(s admin.Snapshot) {
	for _, p := range models.Positions {
		ref := s.Selection(p)
		if ref.IsZero() {
			fmt.Printf("%s: (empty)\n", p)
			continue
		}
		fmt.Printf("%s: %s\n", p, ref.Key())
	}
}

// parseRef reads "type:slug". An empty string clears the slot.
func parseRef(raw string) (models.SlotRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.SlotRef{}, nil
	}
	kind, slug, ok := strings.Cut(raw, ":")
	if !ok || slug == "" {
		return models.SlotRef{}, fmt.Errorf("expected type:slug, got %q", raw)
	}
	ct := models.ContentType(kind)
	if !ct.Valid() {
		return models.SlotRef{}, fmt.Errorf("invalid type %q", kind)
	}
	return models.SlotRef{Type: ct, Slug: slug}, nil
}
