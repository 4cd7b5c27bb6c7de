package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/MASHINC1/LinkMan/internal/app"
	"github.com/MASHINC1/LinkMan/internal/config"
	"github.com/MASHINC1/LinkMan/internal/culler"
	"github.com/MASHINC1/LinkMan/internal/exporter"
	"github.com/MASHINC1/LinkMan/internal/importer"
	"github.com/MASHINC1/LinkMan/internal/mcpserver"
	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/picker"
	"github.com/MASHINC1/LinkMan/internal/preview"
	"github.com/MASHINC1/LinkMan/internal/search"
	"github.com/MASHINC1/LinkMan/internal/session"
	"github.com/MASHINC1/LinkMan/internal/storage"
	"github.com/MASHINC1/LinkMan/internal/tui"
)

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// openSession loads the config and opens the configured store. Logs go to
// stderr.
func openSession(cmd *cli.Command) (*config.Config, *session.Session, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	slog.SetDefault(logger)

	st, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}
	closeFn := func() {
		if err := storage.Close(st); err != nil {
			logger.Warn("close storage", slog.String("error", err.Error()))
		}
	}

	sess, err := session.Open(session.Params{Storage: st, Logger: logger})
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return cfg, sess, closeFn, nil
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() < n {
		return fmt.Errorf("usage: %s %s %s", cmd.Root().Name, cmd.Name, cmd.ArgsUsage)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := app.Run(ctx, app.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return mcpserver.New(sess, version).ServeStdio()
}

func runAdd(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	link, err := sess.AddLink(model.NewLinkParams{
		URL:      cmd.Args().First(),
		Name:     cmd.String("name"),
		Category: cmd.String("category"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %s [%s] %s\n", link.Name, link.Category, link.URL)
	fmt.Printf("  id: %s\n", link.ID)
	return nil
}

func runList(_ context.Context, cmd *cli.Command) error {
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	store := sess.Snapshot()
	links := store.Links
	if group := cmd.String("group"); group != "" {
		links = store.GetLinksInGroup(group)
	}

	if cmd.Bool("json") {
		return printJSON(os.Stdout, links)
	}
	if len(links) == 0 {
		fmt.Println("No links")
		return nil
	}
	for _, l := range links {
		fmt.Printf("%s  %s [%s]\n    %s\n", l.ID, l.Name, l.Category, l.URL)
	}
	return nil
}

func runGroups(_ context.Context, cmd *cli.Command) error {
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	store := sess.Snapshot()
	order := model.ReconcileGroupOrder(store.GroupOrder, model.GroupNamesFromState(store.Categories, store.Links))
	if len(order) == 0 {
		fmt.Println("No groups")
		return nil
	}
	for _, g := range order {
		fmt.Printf("%s (%d links)\n", g, len(store.GetLinksInGroup(g)))
		for _, sec := range store.GetSections(g) {
			fmt.Printf("  - %s\n", sec)
		}
	}
	return nil
}

func runMoveLink(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	moved, err := sess.MoveLink(cmd.Args().Get(0), cmd.Args().Get(1), cmd.String("before"))
	if err != nil {
		return err
	}
	printChanged(moved, "Moved", "Nothing to move")
	return nil
}

func runMoveGroup(_ context.Context, cmd *cli.Command) error {
	toEnd := cmd.Bool("end")
	if toEnd {
		if err := requireArgs(cmd, 1); err != nil {
			return err
		}
	} else if err := requireArgs(cmd, 2); err != nil {
		return err
	}

	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	var moved bool
	if toEnd {
		moved, err = sess.MoveGroupToEnd(cmd.Args().Get(0))
	} else {
		moved, err = sess.MoveGroup(cmd.Args().Get(0), cmd.Args().Get(1), cmd.Bool("after"))
	}
	if err != nil {
		return err
	}
	printChanged(moved, "Moved", "Nothing to move")
	return nil
}

func runRenameGroup(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	renamed, err := sess.RenameGroup(cmd.Args().Get(0), cmd.Args().Get(1))
	if err != nil {
		return err
	}
	printChanged(renamed, "Renamed", "Nothing to rename")
	return nil
}

func runDeleteGroup(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	removed, err := sess.DeleteGroup(cmd.Args().First())
	if err != nil {
		return err
	}
	fmt.Printf("Deleted group %q (%d links removed)\n", cmd.Args().First(), removed)
	return nil
}

func runImport(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	path := cmd.Args().First()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	batch, err := parseImportFile(path, f)
	if err != nil {
		return err
	}

	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := sess.Import(batch)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d links (%d skipped) from %s\n", result.Created, result.Skipped, path)
	return nil
}

func parseImportFile(path string, r io.Reader) (model.ImportBatch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return importer.ParseHTMLBookmarks(r)
	default:
		return importer.ParseBatch(r)
	}
}

func runExport(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		p, err := exporter.DefaultExportPath()
		if err != nil {
			return err
		}
		path = p
	}

	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	store := sess.Snapshot()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(exporter.ExportHTML(store)), 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	fmt.Printf("Exported %d links to %s\n", len(store.Links), path)
	return nil
}

func runBrowse(_ context.Context, cmd *cli.Command) error {
	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	browser := tui.NewApp(tui.AppParams{Session: sess, OpenURL: openURL})
	if _, err := tea.NewProgram(browser, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

func runSearch(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	query := strings.Join(cmd.Args().Slice(), " ")

	_, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	results := search.FuzzySearchLinks(sess.Snapshot().Links, query)
	if len(results) == 0 {
		fmt.Printf("No links found for '%s'\n", query)
		return nil
	}

	if len(results) == 1 {
		link := results[0].Link
		fmt.Printf("Opening: %s\n", link.Name)
		return openURL(link.URL)
	}

	finalModel, err := tea.NewProgram(picker.New(results, query)).Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}
	link, action, ok := finalModel.(picker.Picker).Selected()
	if !ok {
		return nil
	}

	switch action {
	case picker.ActionCopy:
		fmt.Printf("Copied: %s\n", link.URL)
	case picker.ActionOpen:
		fmt.Printf("Opening: %s\n", link.Name)
		return openURL(link.URL)
	}
	return nil
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	cfg, sess, closeFn, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	links := sess.Snapshot().Links
	asJSON := cmd.Bool("json")

	results := culler.CheckURLs(ctx, links, culler.Params{
		Concurrency:    cfg.Cull.Concurrency,
		Timeout:        cfg.Cull.Timeout,
		ExcludeDomains: cfg.Cull.ExcludeDomains,
		OnProgress: func(completed, total int) {
			if !asJSON {
				fmt.Fprintf(os.Stderr, "\rChecked %d/%d", completed, total)
			}
		},
	})
	if !asJSON && len(links) > 0 {
		fmt.Fprintln(os.Stderr)
	}

	if asJSON {
		if err := printJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Status == culler.Healthy || r.Status == culler.Skipped {
				continue
			}
			detail := r.Error
			if r.StatusCode != 0 {
				detail = fmt.Sprintf("HTTP %d", r.StatusCode)
			}
			fmt.Printf("%-11s %s (%s)\n    %s\n", r.Status, r.Link.Name, detail, r.Link.URL)
		}
		counts := culler.Summary(results)
		fmt.Printf("%d healthy, %d dead, %d unreachable, %d skipped\n",
			counts[culler.Healthy], counts[culler.Dead], counts[culler.Unreachable], counts[culler.Skipped])
	}

	if !cmd.Bool("prune") {
		return nil
	}
	pruned := 0
	for _, r := range results {
		if r.Status != culler.Dead {
			continue
		}
		ok, err := sess.DeleteLink(r.Link.ID)
		if err != nil {
			return fmt.Errorf("prune %s: %w", r.Link.URL, err)
		}
		if ok {
			pruned++
		}
	}
	fmt.Fprintf(os.Stderr, "Pruned %d dead links\n", pruned)
	return nil
}

func runPreview(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fetcher := preview.NewFetcher(preview.FetcherParams{
		Timeout:   cfg.Preview.Timeout,
		MaxBytes:  cfg.Preview.MaxBytes,
		UserAgent: cfg.Preview.UserAgent,
	})
	result, err := fetcher.Fetch(ctx, cmd.Args().First())
	if err != nil {
		if errors.Is(err, preview.ErrUnsupportedScheme) {
			return fmt.Errorf("preview: only http and https URLs are supported: %w", err)
		}
		return err
	}
	return printJSON(os.Stdout, result)
}

func printChanged(changed bool, done, noop string) {
	if changed {
		fmt.Println(done)
		return
	}
	fmt.Println(noop)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
