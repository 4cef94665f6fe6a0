//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"github.com/e-gun/CSVTopicServer/internal/mm"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"os"
	"runtime"
	"time"
)

// NewMessageMakerWithDefaults - for package level vars that exist before ConfigAtLaunch() has run
func NewMessageMakerWithDefaults() *mm.MessageMaker {
	return &mm.MessageMaker{
		Lnc:  time.Now(),
		BW:   vv.BLACKANDWHITE,
		GC:   false,
		LLvl: vv.DEFAULTGOLOGLEVEL,
		LNm:  vv.MYNAME,
		SNm:  vv.SHORTNAME,
		Tick: false,
		Ver:  vv.VERSION,
		Win:  runtime.GOOS == "windows",
		Out:  os.Stdout,
	}
}

// UpdateMessageMakerWithConfig - the settings arrive after the MessageMakers were built
func UpdateMessageMakerWithConfig(m *mm.MessageMaker) {
	m.BW = Config.BlackAndWhite
	m.GC = Config.ManualGC
	m.LLvl = Config.LogLevel
	m.Tick = Config.TickerActive
	m.LNm = vv.MYNAME
	m.SNm = vv.SHORTNAME
	m.Ver = vv.VERSION
}
