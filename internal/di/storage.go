package di

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/defval/di"
	"github.com/etherlabsio/healthcheck/v2"
	"github.com/spf13/viper"

	"skinsight.app/skinsight/internal/store"
	"skinsight.app/skinsight/internal/store/redis"
)

var storageDiOptions = di.Options(
	di.Provide(newViewStateStore),
)

// The file backend plays the role of the browser's local storage and is
// the default. Redis is available for deployments where the viewer state
// should survive the host
func newViewStateStore(container *di.Container, config *viper.Viper) (store.ViewStateStore, error) {
	config.SetDefault("storage.type", "file")

	var viewState store.ViewStateStore
	var err error
	switch config.GetString("storage.type") {
	case "file":
		viewState, err = newFileStore(config)
	case "redis":
		viewState, err = newRedisStore(config)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.GetString("storage.type"))
	}

	if err != nil {
		return nil, err
	}

	if err := container.Provide(func() *namedHealthChecker {
		return &namedHealthChecker{
			Name:    config.GetString("storage.type"),
			Checker: healthcheck.CheckerFunc(viewState.Ping),
		}
	}); err != nil {
		return nil, err
	}

	return viewState, nil
}

func newFileStore(config *viper.Viper) (*store.FileStore, error) {
	path := config.GetString("storage.file.path")
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}

		path = filepath.Join(configDir, "skinsight", "state.bin")
	}

	return store.NewFileStore(path, store.NewZlibEncoder(store.NewJsonSerializer()))
}

func newRedisStore(config *viper.Viper) (*redis.Redis, error) {
	config.SetDefault("storage.redis.host", "localhost")
	config.SetDefault("storage.redis.port", 6379)
	config.SetDefault("storage.redis.poolSize", 10)

	return redis.New(
		context.Background(),
		fmt.Sprintf("%s:%d", config.GetString("storage.redis.host"), config.GetInt("storage.redis.port")),
		config.GetInt("storage.redis.poolSize"),
	)
}
