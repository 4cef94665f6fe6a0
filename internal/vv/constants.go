//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "CSV Topic Server"
	SHORTNAME = "CTS"
	VERSION   = "0.3.1"

	BLACKANDWHITE            = false
	CONFIGLOCATION           = "."
	CONFIGALTAPTH            = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC              = "cts-conf.yaml"
	CONFIGSTOPSAR            = "cts-stops-arabic.json"
	CONFIGSTOPSEN            = "cts-stops-english.json"
	CHARTWORDS               = 5
	DEFAULTCHRTHEIGHT        = "480px"
	DEFAULTCHRTWIDTH         = "960px"
	DEFAULTECHOLOGLEVEL      = 0
	DEFAULTGOLOGLEVEL        = 0
	DEFAULTLANG              = "ar"
	DEFAULTMODEL             = "lda"
	DEFAULTMODELLANGUAGE     = "multilingual"
	DIRPERMS                 = 0755
	ECHARTSHOST              = "https://go-echarts.github.io/go-echarts-assets/assets/"
	ECHARTSJS                = "echarts.min.js"
	DEFAULTPREVIEWROWS       = 5
	JSONINDENT               = "  "
	LDAITERATIONS            = 50
	MAXECHOREQPERSECONDPERIP = 30
	MAXUPLOADMB              = 25
	MINVALIDTEXTS            = 10 // fewer than this and the model is never invoked
	NUMBEROFTOPICS           = 10
	REPRESENTATIVEDOCS       = 3
	REPDOCRUNES              = 280 // longer documents are cut short in the table
	SERVEDFROMHOST           = "127.0.0.1"
	SERVEDFROMPORT           = 8000
	TICKERISACTIVE           = false
	TICKERDELAY              = 60 * time.Second
	TIMEOUTRD                = 30 * time.Second
	TIMEOUTWR                = 180 * time.Second // fitting a large column is slow
	TOPICWORDS               = 10
	UPLOADTTL                = 30 * time.Minute
	UPLOADSWEEP              = time.Minute
	USEGZIP                  = false
	WRITEPERMS               = 0644
	WSJOBWAIT                = 5 * time.Second
	WSPOLLINGPAUSE           = 100 * time.Millisecond
)
