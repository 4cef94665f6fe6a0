//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"errors"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/str"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"
)

var (
	Config = BuildDefaultConfig()
	Msg    = NewMessageMakerWithDefaults()
)

// ConfigAtLaunch - read the configuration values from YAML and/or the command line; false means: do not serve
func ConfigAtLaunch(args []string) (bool, error) {
	serve := false
	cmd := NewRootCmd(func(c *str.CurrentConfiguration) error {
		Config = c
		serve = true
		return nil
	})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return false, err
	}
	return serve, nil
}

// NewRootCmd - the command line; flags that were actually set override whatever the config file said
func NewRootCmd(launch func(c *str.CurrentConfiguration) error) *cobra.Command {
	const (
		SHORT = "Serve a page that discovers the topics in a column of a CSV file"
		LONG  = `%s uploads a CSV file, cleans one of its text columns and fits a topic model to it.

Settings are read from '%s' in the current directory or from '%s' in your home directory;
command line flags override the file.`
	)

	var (
		cfgfile   string
		writecfg  string
		sample    bool
		showvers  bool
		showbuild bool
		flagged   = BuildDefaultConfig()
	)

	uh, _ := os.UserHomeDir()

	cmd := &cobra.Command{
		Use:           strings.ToLower(vv.SHORTNAME),
		Short:         SHORT,
		Long:          fmt.Sprintf(LONG, vv.MYNAME, vv.CONFIGBASIC, fmt.Sprintf(vv.CONFIGALTAPTH, uh)+vv.CONFIGBASIC),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	overrides := bindflags(cmd, flagged)
	fl := cmd.Flags()
	fl.StringVarP(&cfgfile, "config", "c", "", "read this YAML file instead of looking in the usual places")
	fl.BoolVarP(&showvers, "version", "v", false, "print the version and exit")
	fl.BoolVar(&showbuild, "buildinfo", false, "print the version and build information and exit")
	fl.BoolVar(&sample, "sampleconfig", false, "print a sample YAML configuration and exit")
	fl.StringVar(&writecfg, "writeconfig", "", "write the effective configuration to this YAML file and exit")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if showvers || showbuild {
			c := BuildDefaultConfig()
			PrintVersion(*c)
			if showbuild {
				PrintBuildInfo(*c)
			}
			return nil
		}

		if sample {
			fmt.Fprint(cmd.OutOrStdout(), vv.SAMPLECONFIG)
			return nil
		}

		paths := ConfigFilePaths()
		if cfgfile != "" {
			paths = []string{cfgfile}
		}

		c, loaded, err := LoadConfigFile(paths...)
		if err != nil {
			return err
		}
		if loaded != "" {
			Msg.TMI(fmt.Sprintf("'%s' loaded", loaded))
		} else if cfgfile != "" {
			return fmt.Errorf("could not find '%s': %w", cfgfile, fs.ErrNotExist)
		}

		for name, apply := range overrides {
			if cmd.Flags().Changed(name) {
				apply(c)
			}
		}

		Sanitize(c)

		if writecfg != "" {
			if err = WriteConfigFile(c, writecfg); err != nil {
				return err
			}
			Msg.MAND(fmt.Sprintf("wrote '%s'", writecfg))
			return nil
		}

		return launch(c)
	}

	return cmd
}

// bindflags - every settable value gets a flag; the returned closures copy a flag's value into a configuration
func bindflags(cmd *cobra.Command, f *str.CurrentConfiguration) map[string]func(*str.CurrentConfiguration) {
	fl := cmd.Flags()

	fl.StringVarP(&f.HostIP, "host", "a", f.HostIP, "serve from this address")
	fl.IntVarP(&f.HostPort, "port", "p", f.HostPort, "serve from this port")
	fl.IntVarP(&f.LogLevel, "loglevel", "g", f.LogLevel, "console message level [0-5]")
	fl.IntVarP(&f.EchoLog, "echolog", "e", f.EchoLog, "request logging [0: none, 1: terse, 2: prolix, 3: prolix+remoteip]")
	fl.BoolVarP(&f.Gzip, "gzip", "z", f.Gzip, "gzip the responses")
	fl.BoolVar(&f.BlackAndWhite, "bw", f.BlackAndWhite, "no colors in the console")
	fl.BoolVarP(&f.TickerActive, "ticker", "t", f.TickerActive, "keep a running tally of activity in the console")
	fl.BoolVarP(&f.QuietStart, "quiet", "q", f.QuietStart, "skip the version banner at launch")
	fl.BoolVar(&f.ManualGC, "gc", f.ManualGC, "run the garbage collector after every route")
	fl.BoolVar(&f.ProfileCPU, "profilecpu", f.ProfileCPU, "write a CPU profile")
	fl.BoolVar(&f.ProfileMEM, "profilemem", f.ProfileMEM, "write a memory profile")
	fl.IntVarP(&f.WorkerCount, "workers", "w", f.WorkerCount, "goroutines available to the topic model")
	fl.StringVarP(&f.Model, "model", "m", f.Model, "topic model: "+strings.Join(vv.ModelKinds, ", "))
	fl.StringVar(&f.ModelLanguage, "modellang", f.ModelLanguage, "stop words: "+strings.Join(vv.ModelLanguages, ", "))
	fl.IntVarP(&f.NumTopics, "topics", "k", f.NumTopics, "how many topics to look for")
	fl.IntVar(&f.Iterations, "iterations", f.Iterations, "LDA iterations")
	fl.IntVar(&f.TopWords, "topwords", f.TopWords, "words reported per topic")
	fl.IntVar(&f.RepDocs, "repdocs", f.RepDocs, "representative texts reported per topic")
	fl.BoolVar(&f.CalcProbs, "probs", f.CalcProbs, "compute per-text topic probabilities")
	fl.IntVar(&f.MinValidTexts, "minvalid", f.MinValidTexts, "refuse to model fewer valid texts than this")
	fl.IntVar(&f.MaxUploadMB, "maxupload", f.MaxUploadMB, "largest acceptable upload in MB")
	fl.IntVar(&f.PreviewRows, "preview", f.PreviewRows, "rows shown in the data preview")
	fl.DurationVar(&f.UploadTTL, "uploadttl", f.UploadTTL, "forget an upload after this much idle time")
	fl.StringVarP(&f.UILang, "lang", "l", f.UILang, "default page language: "+strings.Join(vv.UILanguages, ", "))
	fl.StringVar(&f.ChartWidth, "chartwidth", f.ChartWidth, "chart width")
	fl.StringVar(&f.ChartHeight, "chartheight", f.ChartHeight, "chart height")

	return map[string]func(*str.CurrentConfiguration){
		"host":        func(c *str.CurrentConfiguration) { c.HostIP = f.HostIP },
		"port":        func(c *str.CurrentConfiguration) { c.HostPort = f.HostPort },
		"loglevel":    func(c *str.CurrentConfiguration) { c.LogLevel = f.LogLevel },
		"echolog":     func(c *str.CurrentConfiguration) { c.EchoLog = f.EchoLog },
		"gzip":        func(c *str.CurrentConfiguration) { c.Gzip = f.Gzip },
		"bw":          func(c *str.CurrentConfiguration) { c.BlackAndWhite = f.BlackAndWhite },
		"ticker":      func(c *str.CurrentConfiguration) { c.TickerActive = f.TickerActive },
		"quiet":       func(c *str.CurrentConfiguration) { c.QuietStart = f.QuietStart },
		"gc":          func(c *str.CurrentConfiguration) { c.ManualGC = f.ManualGC },
		"profilecpu":  func(c *str.CurrentConfiguration) { c.ProfileCPU = f.ProfileCPU },
		"profilemem":  func(c *str.CurrentConfiguration) { c.ProfileMEM = f.ProfileMEM },
		"workers":     func(c *str.CurrentConfiguration) { c.WorkerCount = f.WorkerCount },
		"model":       func(c *str.CurrentConfiguration) { c.Model = f.Model },
		"modellang":   func(c *str.CurrentConfiguration) { c.ModelLanguage = f.ModelLanguage },
		"topics":      func(c *str.CurrentConfiguration) { c.NumTopics = f.NumTopics },
		"iterations":  func(c *str.CurrentConfiguration) { c.Iterations = f.Iterations },
		"topwords":    func(c *str.CurrentConfiguration) { c.TopWords = f.TopWords },
		"repdocs":     func(c *str.CurrentConfiguration) { c.RepDocs = f.RepDocs },
		"probs":       func(c *str.CurrentConfiguration) { c.CalcProbs = f.CalcProbs },
		"minvalid":    func(c *str.CurrentConfiguration) { c.MinValidTexts = f.MinValidTexts },
		"maxupload":   func(c *str.CurrentConfiguration) { c.MaxUploadMB = f.MaxUploadMB },
		"preview":     func(c *str.CurrentConfiguration) { c.PreviewRows = f.PreviewRows },
		"uploadttl":   func(c *str.CurrentConfiguration) { c.UploadTTL = f.UploadTTL },
		"lang":        func(c *str.CurrentConfiguration) { c.UILang = f.UILang },
		"chartwidth":  func(c *str.CurrentConfiguration) { c.ChartWidth = f.ChartWidth },
		"chartheight": func(c *str.CurrentConfiguration) { c.ChartHeight = f.ChartHeight },
	}
}

// ConfigFilePaths - where to look for a config file, in order of preference
func ConfigFilePaths() []string {
	paths := []string{filepath.Join(vv.CONFIGLOCATION, vv.CONFIGBASIC)}
	if uh, err := os.UserHomeDir(); err == nil {
		paths = append(paths, fmt.Sprintf(vv.CONFIGALTAPTH, uh)+vv.CONFIGBASIC)
	}
	return paths
}

// ConfigDir - the directory that receives the stop word files and the profiles; cwd only if there is no home
func ConfigDir() string {
	const (
		FAIL1 = "ConfigDir() cannot find UserHomeDir; falling back to '%s'"
		FAIL2 = "ConfigDir() cannot create '%s'; falling back to '%s'"
	)

	h, err := os.UserHomeDir()
	if err != nil {
		Msg.WARN(fmt.Sprintf(FAIL1, vv.CONFIGLOCATION))
		return vv.CONFIGLOCATION
	}

	d := fmt.Sprintf(vv.CONFIGALTAPTH, h)
	if err = os.MkdirAll(d, vv.DIRPERMS); err != nil {
		Msg.WARN(fmt.Sprintf(FAIL2, d, vv.CONFIGLOCATION))
		return vv.CONFIGLOCATION
	}
	return d
}

// LoadConfigFile - the defaults overlaid by the first of the paths that exists; "" if none did
func LoadConfigFile(paths ...string) (*str.CurrentConfiguration, string, error) {
	const (
		FAIL = "could not parse '%s': %w"
	)

	c := BuildDefaultConfig()
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		if err = yaml.Unmarshal(data, c); err != nil {
			return nil, "", fmt.Errorf(FAIL, p, err)
		}
		return c, p, nil
	}
	return c, "", nil
}

// WriteConfigFile - dump a configuration as YAML so that it can be edited and reused
func WriteConfigFile(c *str.CurrentConfiguration, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, vv.WRITEPERMS)
}

// Sanitize - swap out values that cannot work for the defaults
func Sanitize(c *str.CurrentConfiguration) {
	const (
		FAIL1 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		FAIL2 = "Unknown %s '%s' ---> using '%s'"
		FAIL3 = "Refusing to set %s to %d ---> using %d"
	)

	if c.WorkerCount > runtime.NumCPU() {
		Msg.CRIT(fmt.Sprintf(FAIL1, c.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
		c.WorkerCount = runtime.NumCPU()
	}
	if c.WorkerCount < 1 {
		Msg.CRIT(fmt.Sprintf(FAIL3, "workers", c.WorkerCount, 1))
		c.WorkerCount = 1
	}

	oneof := func(what string, v *string, known []string, def string) {
		*v = strings.ToLower(strings.TrimSpace(*v))
		if !slices.Contains(known, *v) {
			Msg.CRIT(fmt.Sprintf(FAIL2, what, *v, def))
			*v = def
		}
	}
	oneof("model", &c.Model, vv.ModelKinds, vv.DEFAULTMODEL)
	oneof("model language", &c.ModelLanguage, vv.ModelLanguages, vv.DEFAULTMODELLANGUAGE)
	oneof("page language", &c.UILang, vv.UILanguages, vv.DEFAULTLANG)

	atleast := func(what string, v *int, floor int, def int) {
		if *v < floor {
			Msg.CRIT(fmt.Sprintf(FAIL3, what, *v, def))
			*v = def
		}
	}
	atleast("topics", &c.NumTopics, 1, vv.NUMBEROFTOPICS)
	atleast("iterations", &c.Iterations, 1, vv.LDAITERATIONS)
	atleast("topwords", &c.TopWords, 1, vv.TOPICWORDS)
	atleast("repdocs", &c.RepDocs, 1, vv.REPRESENTATIVEDOCS)
	atleast("minvalid", &c.MinValidTexts, 2, vv.MINVALIDTEXTS)
	atleast("maxupload", &c.MaxUploadMB, 1, vv.MAXUPLOADMB)
	atleast("preview", &c.PreviewRows, 0, vv.DEFAULTPREVIEWROWS)

	if c.UploadTTL <= 0 {
		c.UploadTTL = vv.UPLOADTTL
	}
	if c.EchoLog < 0 || c.EchoLog > 3 {
		c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	}
	if c.ChartWidth == "" {
		c.ChartWidth = vv.DEFAULTCHRTWIDTH
	}
	if c.ChartHeight == "" {
		c.ChartHeight = vv.DEFAULTCHRTHEIGHT
	}
}

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.CalcProbs = false
	c.ChartHeight = vv.DEFAULTCHRTHEIGHT
	c.ChartWidth = vv.DEFAULTCHRTWIDTH
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.Gzip = vv.USEGZIP
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.Iterations = vv.LDAITERATIONS
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.ManualGC = false
	c.MaxUploadMB = vv.MAXUPLOADMB
	c.MinValidTexts = vv.MINVALIDTEXTS
	c.Model = vv.DEFAULTMODEL
	c.ModelLanguage = vv.DEFAULTMODELLANGUAGE
	c.NumTopics = vv.NUMBEROFTOPICS
	c.PreviewRows = vv.DEFAULTPREVIEWROWS
	c.ProfileCPU = false
	c.ProfileMEM = false
	c.QuietStart = false
	c.RepDocs = vv.REPRESENTATIVEDOCS
	c.TickerActive = vv.TICKERISACTIVE
	c.TopWords = vv.TOPICWORDS
	c.UILang = vv.DEFAULTLANG
	c.UploadTTL = vv.UPLOADTTL
	c.WorkerCount = runtime.NumCPU()
	return &c
}

// StartProfiling - honor the profiling flags; call the returned func on the way out
func StartProfiling(c *str.CurrentConfiguration) func() {
	// go tool pprof --pdf ./cts cpu.pprof > profile.pdf
	const (
		MSG = "writing a %s profile to '%s' when the server stops"
	)

	var p interface{ Stop() }
	switch {
	case c.ProfileCPU:
		d := ConfigDir()
		Msg.WARN(fmt.Sprintf(MSG, "CPU", d))
		p = profile.Start(profile.CPUProfile, profile.ProfilePath(d), profile.Quiet)
	case c.ProfileMEM:
		d := ConfigDir()
		Msg.WARN(fmt.Sprintf(MSG, "memory", d))
		p = profile.Start(profile.MemProfile, profile.ProfilePath(d), profile.Quiet)
	default:
		return func() {}
	}

	start := time.Now()
	return func() {
		p.Stop()
		Msg.Timer("P", "profiling stopped", start, start)
	}
}
