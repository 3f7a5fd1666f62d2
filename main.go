package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"arbor/internal/config"
	"arbor/internal/git"
	"arbor/internal/logging"
	"arbor/internal/model"
	"arbor/internal/repos"
	"arbor/internal/telemetry"
	"arbor/internal/tree"
	"arbor/internal/tui"
)

var (
	version = "0.1.0"
	cfgFile string
	folders []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Pull request tree for multi-folder workspaces",
		Long: `Arbor shows the pull requests of every folder in your workspace as a
lazily loaded tree, grouped into query categories and kept in sync with
repository and configuration changes.`,
		RunE: runApp,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/arbor/config.yaml)")
	rootCmd.PersistentFlags().StringArrayVar(&folders, "folder", nil, "workspace folder, repeatable (default is the current directory when it is a git repo)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("arbor version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		// Scaffold the defaults so the settings picker has a file to open.
		if err := config.Save(path, cfg); err != nil {
			return err
		}
	}
	store := config.NewStore(cfg)

	if err := logging.Setup(cfg.Logging.File, cfg.Logging.Level); err != nil {
		return err
	}

	open := openFolders(folders)
	tel := telemetry.New()
	classifier := tree.NewEnvClassifier(tree.NewEnvCache(), cfg.CallbackHost, nil)
	view := tui.NewViewHandle()

	ctrl := tree.NewController(store, view, tel, classifier, open)

	var mgr *repos.Manager
	var rescan func()
	if len(open) > 0 {
		mgr = repos.NewManager(open, store)
		rescan = func() { mgr.Rescan(context.Background()) }
	}

	app := tui.New(ctrl, tui.Options{ConfigPath: path, Rescan: rescan})

	// The manager may attach after construction; without one the controller
	// renders the folder/auth placeholders on its own.
	if mgr != nil {
		ctrl.Initialize(mgr)
	}

	watcher, err := config.NewWatcher(path, store, ctrl.HandleSettingChange)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	p := tea.NewProgram(app, tea.WithAltScreen())
	view.Attach(p)

	if mgr != nil {
		go mgr.Start(context.Background())
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error: %w", err)
	}
	return nil
}

// openFolders turns the --folder flags into workspace folders, defaulting to
// the current directory when it is inside a git repo.
func openFolders(flags []string) []model.Folder {
	if len(flags) == 0 {
		wd, err := os.Getwd()
		if err == nil && git.IsRepo(wd) {
			flags = []string{wd}
		}
	}
	out := make([]model.Folder, 0, len(flags))
	for _, f := range flags {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		out = append(out, model.Folder{Name: filepath.Base(abs), Path: abs})
	}
	return out
}
