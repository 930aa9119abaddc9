package main

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kyaoi/medit/internal/app"
)

func main() {
	cmd := &cobra.Command{
		Use:          "medit [file...]",
		Short:        "A small terminal markdown editor with tabs and preview",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, len(args))
			for i, arg := range args {
				paths[i] = filepath.Clean(arg)
			}
			return app.Run(paths)
		},
	}
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
