package di

import (
	"github.com/defval/di"

	"skinsight.app/skinsight/internal/http"
	"skinsight.app/skinsight/internal/mojang"
	"skinsight.app/skinsight/internal/resolver"
)

var resolverDiOptions = di.Options(
	di.Provide(newResolver, di.As(new(http.SkinResolver))),
)

func newResolver(
	uuidsProvider mojang.UuidsProvider,
	texturesProvider mojang.TexturesProvider,
) (*resolver.Resolver, error) {
	return resolver.New(uuidsProvider, texturesProvider)
}
