//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/i18n"
	"github.com/e-gun/CSVTopicServer/internal/lnch"
	"github.com/e-gun/CSVTopicServer/internal/mm"
	"github.com/e-gun/CSVTopicServer/internal/topics"
	"github.com/e-gun/CSVTopicServer/internal/vlt"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/e-gun/CSVTopicServer/web"
	"os"
	"time"
)

// these next variables should be injected at build time: 'go build -ldflags "-X main.GitCommit=$GIT_COMMIT"', etc

var GitCommit string
var VersSuppl string
var BuildDate string

func main() {
	const (
		FAIL1 = "could not read the stop word files: %s"
		MSG1  = "wrote the built-in stop words to C3%sC0"
		MSG2  = "uploads expire after C3%vC0"
	)

	lnch.GitCommit = GitCommit
	lnch.VersSuppl = VersSuppl
	lnch.BuildDate = BuildDate

	serve, err := lnch.ConfigAtLaunch(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !serve {
		return
	}

	lnch.UpdateMessageMakerWithConfig(lnch.Msg)
	lnch.UpdateMessageMakerWithConfig(vlt.Msg)
	lnch.UpdateMessageMakerWithConfig(web.Msg)

	vv.LaunchTime = time.Now()

	if !lnch.Config.QuietStart {
		lnch.PrintVersion(*lnch.Config)
		lnch.PrintBuildInfo(*lnch.Config)
		fmt.Println(lnch.Msg.ColStyle(fmt.Sprintf(vv.TERMINALTEXT, vv.PROJYEAR, vv.PROJAUTH, vv.PROJURL)))
	}

	i18n.SetDefault(lnch.Config.UILang)

	made, err := topics.ReadStopConfig(lnch.ConfigDir())
	if err != nil {
		lnch.Msg.CRIT(fmt.Sprintf(FAIL1, err.Error()))
	}
	for _, fn := range made {
		lnch.Msg.FYI(fmt.Sprintf(MSG1, fn))
	}

	stop := lnch.StartProfiling(lnch.Config)
	defer stop()

	go mm.PathInfoHub()
	go vlt.WSJobInfoHub(vlt.WSJobs)
	go vlt.WebsocketPool.WSPoolStartListening()
	go vlt.ResponseStatsKeeper()
	go vlt.AllUploads.UploadJanitor(lnch.Config.UploadTTL, vv.UPLOADSWEEP)
	lnch.Msg.PEEK(fmt.Sprintf(MSG2, lnch.Config.UploadTTL))

	if lnch.Config.TickerActive {
		go web.Msg.Ticker(vv.TICKERDELAY)
	}

	web.StartEchoServer()
}
