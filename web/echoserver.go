//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/lnch"
	"github.com/e-gun/CSVTopicServer/internal/vlt"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"strings"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()
)

// StartEchoServer - start serving; this blocks and does not return while the program remains alive
func StartEchoServer() {
	e := BuildEcho()
	Msg.NOTE(fmt.Sprintf("serving from http://%s:%d/", lnch.Config.HostIP, lnch.Config.HostPort))
	Msg.EF(e.Start(fmt.Sprintf("%s:%d", lnch.Config.HostIP, lnch.Config.HostPort)), "StartEchoServer()")
}

// BuildEcho - an *echo.Echo with the middleware and routes all in place
func BuildEcho() *echo.Echo {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "${remote_ip}\t${custom}\t${status}\t${bytes_out}\t${uri}\n"
	)

	// ctf - a CustomTagFunc return a short user agent
	ctf := func(c echo.Context, buf *bytes.Buffer) (int, error) {
		ua := strings.Split(c.Request().UserAgent(), " ")
		if len(ua) == 0 {
			return 0, nil
		} else {
			last := ua[len(ua)-1]
			buf.Write([]byte(last))
			return 1, nil
		}
	}

	//
	// SETUP
	//

	e := echo.New()

	// fitting a big column takes a while: the write timeout is generous
	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR

	switch lnch.Config.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT, CustomTagFunc: ctf}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	default:
		// do nothing
	}

	// see "responsestats.go"; the counts are visible at "/stats"
	e.Use(vlt.TrackResponses)

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(vv.MAXECHOREQPERSECONDPERIP)))

	e.Use(middleware.Recover())

	if lnch.Config.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	}

	// the multipart envelope needs a little room beyond the file itself; ingest.Parse() polices the file
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", lnch.Config.MaxUploadMB+1)))

	//
	// CTS ROUTES
	//

	// [a] frontpage ("rt-frontpage.go")

	e.GET("/", RtFrontpage) // "GET /?lang=en HTTP/1.1"

	// [b] upload ("rt-upload.go")

	e.POST("/upload", RtUpload) // multipart form with a "file" field

	// [c] analyze ("rt-analyze.go")

	e.POST("/analyze/:id", RtAnalyze) // "POST /analyze/8b7c7f4e-... HTTP/1.1" + form fields "column" and "job"
	e.POST("/cancel/:job", RtCancel)  // "POST /cancel/3fa9c1d2 HTTP/1.1"

	// [d] websocket ("rt-websocket.go")

	e.GET("/ws", RtWebsocket)

	// [e] serve via the embedded FS ("rt-embedding.go")

	e.GET("/emb/js/:file", RtEmbJS)
	e.GET("/emb/css/:file", RtEmbCSS)

	// [f] housekeeping ("rt-health.go")

	e.GET("/healthz", RtHealth)
	e.GET("/stats", RtStats)

	e.HideBanner = true
	e.HidePort = lnch.Config.QuietStart
	e.Debug = false
	e.DisableHTTP2 = true
	return e
}
