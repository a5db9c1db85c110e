// layerlint statically validates service-layer manifests: it checks that
// every declared dependency and consumer reference resolves to a unique
// provider, without constructing anything.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modulant/servicelayer"
	"github.com/modulant/servicelayer/loader"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "layerlint",
		Short:         "Static validation for service layer manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCommand())
	return root
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>...",
		Short: "Check that every dependency and consumer reference resolves",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var packages []servicelayer.Package
			for _, path := range args {
				manifest, err := loader.LoadFile(path)
				if err != nil {
					return err
				}
				pkgs, err := loader.BuildStatic(manifest)
				if err != nil {
					return err
				}
				packages = append(packages, pkgs...)
			}
			if _, err := servicelayer.New(packages, nil); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			cmd.Printf("OK: %d package(s) validated\n", len(packages))
			return nil
		},
	}
}
