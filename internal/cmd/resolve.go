package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"skinsight.app/skinsight/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <username or uuid>",
	Short: "Resolves a skin texture url for the given username or uuid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container := shouldGetContainer()

		var skinResolver *resolver.Resolver
		if err := container.Resolve(&skinResolver); err != nil {
			return err
		}

		var ctx context.Context
		if err := container.Resolve(&ctx); err != nil {
			return err
		}

		skin, err := skinResolver.Resolve(ctx, args[0])
		if err != nil {
			if errors.Is(err, resolver.ErrNotFound) || errors.Is(err, resolver.ErrNoSkin) {
				cmd.SilenceUsage = true
			}

			return err
		}

		fmt.Printf("Username: %s\n", skin.Username)
		fmt.Printf("UUID:     %s\n", skin.Uuid)
		fmt.Printf("Skin:     %s\n", skin.Url)
		if skin.Model != "" {
			fmt.Printf("Model:    %s\n", skin.Model)
		}

		if skin.CapeUrl != "" {
			fmt.Printf("Cape:     %s\n", skin.CapeUrl)
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(resolveCmd)
}
