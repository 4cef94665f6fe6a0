//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"embed"
	"fmt"
	"github.com/labstack/echo/v4"
	"net/http"
	"path"
	"strings"
)

//go:embed emb
var efs embed.FS

//
// ROUTES
//

func RtEmbJS(c echo.Context) error {
	d := "emb/js/"
	return pathembedder(c, d)
}

func RtEmbCSS(c echo.Context) error {
	d := "emb/css/"
	return pathembedder(c, d)
}

//
// HELPERS
//

// pathembedder - read and send file at path
func pathembedder(c echo.Context, d string) error {
	f := path.Base(c.Param("file"))
	j, e := efs.ReadFile(d + f)
	if e != nil {
		Msg.WARN(fmt.Sprintf("can't find %s", d+f))
		return c.String(http.StatusNotFound, "")
	}

	add := addresponsehead(f)
	if len(add) != 0 {
		c.Response().Header().Add("Content-Type", add)
	}

	return c.String(http.StatusOK, string(j))
}

// addresponsehead - set the response header for various file types
func addresponsehead(f string) string {
	add := ""

	if strings.HasSuffix(f, ".css") {
		add = "text/css; charset=utf-8"
	}

	if strings.HasSuffix(f, ".js") {
		add = "text/javascript; charset=utf-8"
	}

	return add
}

/*
CSVTopicServer/web/emb/ % tree
.
├── css
│   └── cts.css
├── frontpage.html
└── js
    └── topics.js
*/
