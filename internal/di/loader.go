package di

import (
	netHttp "net/http"

	"github.com/defval/di"

	"skinsight.app/skinsight/internal/http"
	"skinsight.app/skinsight/internal/store"
	"skinsight.app/skinsight/internal/viewer"
)

var loaderDiOptions = di.Options(
	di.Provide(newTextureFetcher, di.As(new(viewer.Renderer))),
	di.Provide(newLoader, di.As(new(http.SkinLoader))),
)

func newTextureFetcher(httpClient *netHttp.Client) *viewer.TextureFetcher {
	return viewer.NewTextureFetcher(httpClient)
}

func newLoader(renderer viewer.Renderer, viewState store.ViewStateStore) (*viewer.Loader, error) {
	return viewer.NewLoader(renderer, viewState)
}
