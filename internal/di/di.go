package di

import "github.com/defval/di"

func New() (*di.Container, error) {
	return di.New(
		configDiOptions,
		contextDiOptions,
		handlersDiOptions,
		httpClientDiOptions,
		loaderDiOptions,
		loggerDiOptions,
		mojangDiOptions,
		resolverDiOptions,
		serverDiOptions,
		storageDiOptions,
	)
}
