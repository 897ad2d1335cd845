package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"forge/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local package store",
	Long: `Manage header-only C++ packages installed under .forge/store in the
project root. Installed packages named in [dependencies] are added to the
include path of every build.`,
}

var storeAddCmd = &cobra.Command{
	Use:   "add <name> <version> <dir>",
	Short: "Install a package tree into the store",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openProjectStore()
		if err != nil {
			return err
		}
		entry, err := s.Add(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "installed %s %s (%s)\n", entry.Name, entry.Version, shortDigest(entry.Digest))
		return nil
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openProjectStore()
		if err != nil {
			return err
		}
		entries := s.List()
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "store is empty")
			return nil
		}
		for _, e := range entries {
			added := time.Unix(e.AddedAt, 0).Format("2006-01-02")
			fmt.Fprintf(os.Stdout, "%-20s %-10s %s  added %s\n", e.Name, e.Version, shortDigest(e.Digest), added)
		}
		return nil
	},
}

var storeRemoveCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove"},
	Short:   "Uninstall a package",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openProjectStore()
		if err != nil {
			return err
		}
		if err := s.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "removed %s\n", args[0])
		return nil
	},
}

var storeVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-hash installed packages and report corruption",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openProjectStore()
		if err != nil {
			return err
		}
		corrupted, err := s.Verify(cmd.Context())
		if err != nil {
			return err
		}
		if len(corrupted) == 0 {
			fmt.Fprintln(os.Stdout, "all packages verified")
			return nil
		}
		for _, name := range corrupted {
			fmt.Fprintf(os.Stderr, "corrupted: %s (reinstall with 'forge store add')\n", name)
		}
		return silentExit(cmd)
	},
}

var storeGCCmd = &cobra.Command{
	Use:   "gc",
	Short: "Delete unreferenced package trees",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openProjectStore()
		if err != nil {
			return err
		}
		removed, err := s.GC()
		if err != nil {
			return err
		}
		if len(removed) == 0 {
			fmt.Fprintln(os.Stdout, "nothing to collect")
			return nil
		}
		for _, dir := range removed {
			fmt.Fprintf(os.Stdout, "collected %s\n", dir)
		}
		return nil
	},
}

func init() {
	storeCmd.AddCommand(storeAddCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeRemoveCmd)
	storeCmd.AddCommand(storeVerifyCmd)
	storeCmd.AddCommand(storeGCCmd)
}

func openProjectStore() (*store.Store, error) {
	manifest, err := loadManifest()
	if err != nil {
		return nil, err
	}
	return projectStore(manifest)
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
