package cmd

import (
	"strings"

	"github.com/defval/di"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	internalDi "skinsight.app/skinsight/internal/di"
	"skinsight.app/skinsight/internal/version"
)

var RootCmd = &cobra.Command{
	Use:     "skinsight",
	Short:   "Web based viewer for Minecraft skins",
	Version: version.Version(),
}

func shouldGetContainer() *di.Container {
	container, err := internalDi.New()
	if err != nil {
		panic(err)
	}

	return container
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
}
