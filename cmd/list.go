// Package cmd — list command.
// Prints the conversations discovered in the host page sidebar.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/chatscribe/core/browser"
	"github.com/gaurav-prasanna/chatscribe/core/config"
	"github.com/gaurav-prasanna/chatscribe/core/discover"
)

var (
	flagListConfig   string
	flagListDebugger string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations found in the sidebar",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&flagListConfig, "config", "", "YAML config file overriding the defaults")
	listCmd.Flags().StringVar(&flagListDebugger, "debugger", "", "DevTools URL of a running Chromium")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagListConfig)
	if err != nil {
		return err
	}
	if flagListDebugger != "" {
		cfg.Browser.DebuggerURL = flagListDebugger
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	session, err := browser.Connect(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer session.Close() //nolint:errcheck

	html, err := session.Snapshot(ctx)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parsing page: %w", err)
	}

	entries := discover.Sidebar(doc, cfg.Selectors.SidebarItem)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No conversations found in sidebar")
		return nil
	}
	for i, entry := range entries {
		fmt.Fprintf(os.Stdout, "%3d. %s\n", i+1, entry.Title)
	}
	return nil
}
