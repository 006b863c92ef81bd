package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/export"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the chart of accounts from upstream and merge it into storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.sync.RunSync(cmd.Context(), domain.SyncTriggerManual)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"processed=%d skipped=%d unique=%d succeeded=%d failed=%d\n",
				result.Processed, result.Skipped, result.Unique, result.Succeeded, result.Failed,
			)
			return nil
		},
	}
}

func newTreeCmd(a *app) *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the aggregated account hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.hierarchy.GetHierarchy(cmd.Context())
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				return writeXLSX(xlsxPath, nodes)
			}
			printTree(cmd.OutOrStdout(), nodes, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the hierarchy to this XLSX file instead of printing it")
	return cmd
}

func writeXLSX(path string, nodes []domain.TreeNode) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteHierarchyXLSX(f, nodes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printTree(w io.Writer, nodes []domain.TreeNode, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%-*s  %s  debt=%s credit=%s\n",
			strings.Repeat("  ", depth), 12-2*depth, n.Code, n.Name,
			n.Debt.StringFixed(2), n.Credit.StringFixed(2),
		)
		printTree(w, n.Children, depth+1)
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored level record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			n, err := a.hierarchy.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d records\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Log in to the upstream and fetch data without touching storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			probe, err := a.upstream.Probe(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token received: %t\n", probe.TokenReceived)
			fmt.Fprintf(out, "payload length: %d\n", probe.RawLength)
			fmt.Fprintf(out, "sample: %s\n", probe.RawSample)
			return nil
		},
	}
}
