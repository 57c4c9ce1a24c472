package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"skinsight.app/skinsight/internal/http"
	"skinsight.app/skinsight/internal/otel"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the skin viewer and its HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		otelShutdown, err := otel.SetupOTelSDK(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				slog.Error("Unable to shutdown OpenTelemetry SDK", slog.Any("error", err))
			}
		}()

		container := shouldGetContainer()

		return container.Invoke(http.StartServer)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
