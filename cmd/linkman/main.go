package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/MASHINC1/LinkMan/internal/config"
)

var version = "dev"

func main() {
	defaultConfig, err := config.DefaultPath()
	if err != nil {
		defaultConfig = "config.yaml"
	}

	cmd := &cli.Command{
		Name:    "linkman",
		Usage:   "Grouped link collection with previews, import/export and a local HTTP API",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   defaultConfig,
				Sources: cli.EnvVars("LINKMAN_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and event stream",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Serve link tools over MCP on stdio",
				Action: runMCP,
			},
			{
				Name:      "add",
				Usage:     "Add a link",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name (derived from the host when empty)"},
					&cli.StringFlag{Name: "category", Aliases: []string{"g"}, Usage: `Category, e.g. "Work / Docs"`},
				},
				Action: runAdd,
			},
			{
				Name:  "list",
				Usage: "List links in store order",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "Only links in this group"},
					&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
				},
				Action: runList,
			},
			{
				Name:   "groups",
				Usage:  "List groups in display order",
				Action: runGroups,
			},
			{
				Name:      "move-link",
				Usage:     "Move a link into a group",
				ArgsUsage: "<id> <group>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "before", Usage: "Insert before this link id"},
				},
				Action: runMoveLink,
			},
			{
				Name:      "move-group",
				Usage:     "Move a group before or after another group, or to the end",
				ArgsUsage: "<group> [target]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "after", Usage: "Insert after target instead of before"},
					&cli.BoolFlag{Name: "end", Usage: "Move to the end of the order"},
				},
				Action: runMoveGroup,
			},
			{
				Name:      "rename-group",
				Usage:     "Rename a group",
				ArgsUsage: "<old> <new>",
				Action:    runRenameGroup,
			},
			{
				Name:      "delete-group",
				Usage:     "Delete a group and all of its links",
				ArgsUsage: "<group>",
				Action:    runDeleteGroup,
			},
			{
				Name:      "import",
				Usage:     "Import links from a JSON batch or a Netscape bookmarks HTML file",
				ArgsUsage: "<file.json|file.html>",
				Action:    runImport,
			},
			{
				Name:      "export",
				Usage:     "Export links as Netscape bookmarks HTML",
				ArgsUsage: "[path]",
				Action:    runExport,
			},
			{
				Name:   "browse",
				Usage:  "Browse groups and links; cut and paste to reorder",
				Action: runBrowse,
			},
			{
				Name:      "search",
				Usage:     "Fuzzy search links and open or copy the selection",
				ArgsUsage: "<query>",
				Action:    runSearch,
			},
			{
				Name:  "check",
				Usage: "Check all links for dead or unreachable URLs",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "prune", Usage: "Delete dead links"},
					&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
				},
				Action: runCheck,
			},
			{
				Name:      "preview",
				Usage:     "Fetch the preview metadata for a URL",
				ArgsUsage: "<url>",
				Action:    runPreview,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("linkman error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
