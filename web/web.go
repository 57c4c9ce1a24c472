// Package web bundles the static viewer shell. All the 3D work happens in
// the skinview3d library on the browser side, the shell only wires user
// actions to the service API.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

func Handler() http.Handler {
	content, _ := fs.Sub(static, "static")
	return http.FileServer(http.FS(content))
}
