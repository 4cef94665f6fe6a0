//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import "time"

type CurrentConfiguration struct {
	BlackAndWhite bool          `yaml:"blackandwhite"`
	CalcProbs     bool          `yaml:"calcprobs"`
	ChartHeight   string        `yaml:"chartheight"`
	ChartWidth    string        `yaml:"chartwidth"`
	EchoLog       int           `yaml:"echolog"` // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	Gzip          bool          `yaml:"gzip"`
	HostIP        string        `yaml:"hostip"`
	HostPort      int           `yaml:"hostport"`
	Iterations    int           `yaml:"iterations"`
	LogLevel      int           `yaml:"loglevel"`
	ManualGC      bool          `yaml:"manualgc"` // see MessageMaker.LogPaths()
	MaxUploadMB   int           `yaml:"maxuploadmb"`
	MinValidTexts int           `yaml:"minvalidtexts"`
	Model         string        `yaml:"model"`         // "lda" or "lsa"
	ModelLanguage string        `yaml:"modellanguage"` // "multilingual", "arabic", "english"
	NumTopics     int           `yaml:"numtopics"`
	PreviewRows   int           `yaml:"previewrows"`
	ProfileCPU    bool          `yaml:"-"`
	ProfileMEM    bool          `yaml:"-"`
	QuietStart    bool          `yaml:"quietstart"`
	RepDocs       int           `yaml:"repdocs"`
	TickerActive  bool          `yaml:"ticker"`
	TopWords      int           `yaml:"topwords"`
	UILang        string        `yaml:"uilang"`
	UploadTTL     time.Duration `yaml:"uploadttl"`
	WorkerCount   int           `yaml:"workers"`
}
