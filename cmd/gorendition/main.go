/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"gorendition/internal/app"
	"gorendition/internal/config"
	"gorendition/internal/crash"
	"gorendition/internal/dialog"
	"gorendition/internal/domain"
	"gorendition/internal/export"
	"gorendition/internal/host"
	"gorendition/internal/i18n"
	applog "gorendition/internal/log"
	"gorendition/internal/prefs"
	"gorendition/internal/rendition"
	"gorendition/internal/report"
	"gorendition/internal/storage"
	"gorendition/internal/ui"
	"gorendition/internal/version"
)

func usage() {
	fmt.Println("GoRendition - export a design object as an image")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gorendition version|-v|--version                 Show version")
	fmt.Println("  gorendition formats                              List rendition formats")
	fmt.Println("  gorendition sample [--force] <doc.json>          Write a sample design document")
	fmt.Println("  gorendition prefs [show|reset]                   Show or reset export preferences")
	fmt.Println("  gorendition config [show|init]                   Show settings and their source, or write the config file")
	fmt.Println("  gorendition export [flags] <doc.json> [node...]  Export the first selected node")
	fmt.Println("  gorendition ui [<doc.json>]                      Launch desktop UI (build with -tags fyne)")
	fmt.Println()
	fmt.Println("Export flags:")
	fmt.Println("  --folder <dir>   destination folder (asked for when empty)")
	fmt.Println("  --yes            confirm the settings dialog without asking")
	fmt.Println("  --preview        render into a temporary folder")
	fmt.Println("  --name, --format, --scale, --overwrite   settings used with --yes")
}

func main() {
	os.Exit(run(os.Args))
}

// run dispatches one command and returns the process exit code. Deferred
// cleanup runs before main exits.
func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Config error:", err)
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	dataDir, err := cfg.DataDir()
	if err != nil {
		l.Error("data dir unavailable", slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}
	defer crash.Recover(dataDir)

	l.Debug("start", slog.Int("args", len(args)), slog.String("data_dir", dataDir))
	if len(args) < 2 {
		usage()
		return 0
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("GoRendition")
		fmt.Println(version.String())
	case "formats":
		data := [][]string{{"Format", "Extension"}}
		for _, t := range rendition.Types() {
			data = append(data, []string{t.Label(), "." + string(t)})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	case "sample":
		return runSample(args[2:])
	case "prefs":
		store := prefs.NewStore(dataDir)
		rec := store.Load(ctx)
		if len(args) > 2 && args[2] == "reset" {
			if rec, err = store.Reset(ctx); err != nil {
				fmt.Println("Error:", err)
				return 1
			}
		}
		b, _ := json.MarshalIndent(rec, "", "  ")
		pterm.Info.Println(store.Path())
		fmt.Println(string(b))
	case "config":
		return runConfig(cfg, args[2:])
	case "export":
		return runExport(ctx, cfg, dataDir, args[2:])
	case "ui":
		var doc string
		if len(args) >= 3 {
			doc = args[2]
		}
		if err := ui.Run(doc); err != nil {
			fmt.Println("Error:", err)
			return 1
		}
	default:
		usage()
		return 2
	}
	return 0
}

// runSample writes the sample document. With --force an existing file is
// replaced and its previous version kept under the backups folder.
func runSample(args []string) int {
	l := applog.WithComponent("cli")
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	force := fs.Bool("force", false, "replace an existing document")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Println("sample requires <doc.json>")
		usage()
		return 2
	}
	abs, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fmt.Println("Error:", err)
		return 1
	}
	if _, statErr := os.Stat(abs); statErr == nil && *force {
		err = storage.Save(&storage.DocumentHandle{Path: abs, Document: storage.SampleDocument()})
	} else {
		_, err = storage.Create(abs, storage.SampleDocument())
	}
	if err != nil {
		l.Error("sample failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}
	fmt.Println("Wrote sample document to", abs)
	return 0
}

// runConfig shows the effective settings or writes them to the config file.
func runConfig(cfg config.AppConfig, args []string) int {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "show":
		if path, err := config.ConfigPath(); err == nil {
			pterm.Info.Println(path)
		}
		data := [][]string{{"Key", "Value", "Source"}}
		for _, s := range config.Describe(cfg) {
			data = append(data, []string{s.Key, s.Value, s.Source})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	case "init":
		if err := config.Save(cfg); err != nil {
			fmt.Println("Error:", err)
			return 1
		}
		path, _ := config.ConfigPath()
		fmt.Println("Wrote config to", path)
	default:
		usage()
		return 2
	}
	return 0
}

var errBadUsage = errors.New("bad usage")

// exportFlags is the parsed command line of the export command.
type exportFlags struct {
	Folder    string
	Yes       bool
	Preview   bool
	Overrides dialog.Overrides
	Doc       string
	Nodes     []string
}

func parseExportFlags(args []string) (exportFlags, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	folder := fs.String("folder", "", "destination folder")
	yes := fs.Bool("yes", false, "confirm settings without asking")
	preview := fs.Bool("preview", false, "render into a temporary folder")
	name := fs.String("name", "", "file name (with --yes)")
	format := fs.String("format", "", "rendition type (with --yes)")
	scale := fs.Float64("scale", 0, "scale 1..5 (with --yes)")
	overwrite := fs.Bool("overwrite", false, "replace an existing file (with --yes)")
	if err := fs.Parse(args); err != nil {
		return exportFlags{}, fmt.Errorf("%w: %v", errBadUsage, err)
	}
	if fs.NArg() < 1 {
		return exportFlags{}, fmt.Errorf("%w: export requires <doc.json>", errBadUsage)
	}
	ef := exportFlags{Folder: *folder, Yes: *yes, Preview: *preview, Doc: fs.Arg(0), Nodes: fs.Args()[1:]}
	if *format != "" {
		t, ok := domain.ParseRenditionType(*format)
		if !ok {
			return exportFlags{}, fmt.Errorf("%w: unknown format %q", errBadUsage, *format)
		}
		ef.Overrides.Format = t
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			ef.Overrides.Filename = name
		case "scale":
			ef.Overrides.Scale = scale
		case "overwrite":
			ef.Overrides.Overwrite = overwrite
		}
	})
	return ef, nil
}

// runExport runs one invocation and returns the process exit code: 0 for success
// or cancel, 1 for an error outcome, 2 for bad usage.
func runExport(ctx context.Context, cfg config.AppConfig, dataDir string, args []string) int {
	l := applog.WithComponent("cli")
	ef, err := parseExportFlags(args)
	if err != nil {
		fmt.Println("Error:", err)
		usage()
		return 2
	}

	doc, err := storage.Open(ef.Doc)
	if err != nil {
		l.Error("open document failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}
	cat, err := i18n.New()
	if err != nil {
		fmt.Println("Error:", err)
		return 1
	}
	h := host.New(cfg, doc)
	sel, err := h.Resolve(ef.Nodes)
	if err != nil {
		fmt.Println("Error:", err)
		return 2
	}

	parts := app.Parts{
		Host:     h,
		Store:    prefs.NewStore(dataDir),
		Catalog:  cat,
		Renderer: rendition.New(),
	}
	var dest export.Destinations
	if ef.Yes {
		parts.Presenter = dialog.AcceptPresenter{Overrides: ef.Overrides}
		parts.Notifier = report.TerminalNotifier{Out: os.Stdout, NoWait: true}
		dest = host.FolderDestinations{Picker: host.FixedFolder(ef.Folder)}
	} else {
		rl, err := readline.New("")
		if err != nil {
			fmt.Println("Error:", err)
			return 1
		}
		defer rl.Close()
		parts.Presenter = dialog.TerminalPresenter{In: rl, Out: os.Stdout}
		parts.Notifier = report.TerminalNotifier{In: rl, Out: os.Stdout}
		var picker host.FolderPicker = host.FixedFolder(ef.Folder)
		if ef.Folder == "" {
			picker = host.TerminalFolderPicker{In: rl, Label: "Folder", Suggest: doc.Dir()}
		}
		dest = host.FolderDestinations{Picker: picker}
	}
	if ef.Preview {
		dest = host.TempDestinations{}
	}
	parts.Destinations = dest

	sum := app.New(parts).Run(ctx, sel)
	l.Info("export done", slog.Bool("canceled", sum.Canceled), slog.String("kind", sum.Outcome.Kind.String()))
	if sum.Failed() {
		return 1
	}
	return 0
}
