//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"fmt"
	"github.com/fatih/color"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

//
// TERMINAL OUTPUT/MESSAGES
//

const (
	MSGMAND              = -1
	MSGCRIT              = 0
	MSGWARN              = 1
	MSGNOTE              = 2
	MSGFYI               = 3
	MSGPEEK              = 4
	MSGTMI               = 5
	TIMETRACKERMSGTHRESH = MSGFYI
	PANIC                = "[%s v.%s] %s\n"
	PANIC2               = "[%s v.%s] (%s) %s\n"
	UNRECOVERABLE        = "UNRECOVERABLE ERROR"
)

var (
	levelcolors = map[int]*color.Color{
		MSGMAND: color.New(color.FgGreen),
		MSGCRIT: color.New(color.FgRed),
		MSGWARN: color.New(color.FgHiYellow),
		MSGNOTE: color.New(color.FgYellow),
		MSGFYI:  color.New(color.FgHiCyan),
		MSGPEEK: color.New(color.FgBlue),
		MSGTMI:  color.New(color.FgHiBlack),
	}
	namecolor = color.New(color.FgYellow)
)

// MessageMaker - levelled, optionally colored, console messaging
type MessageMaker struct {
	Lnc  time.Time
	BW   bool
	Clr  string
	GC   bool
	LLvl int
	LNm  string
	SNm  string
	Tick bool
	Ver  string
	Win  bool
	Out  io.Writer
	mtx  sync.Mutex
}

// NewMessageMaker - a MessageMaker that only reports criticals until configured otherwise
func NewMessageMaker() *MessageMaker {
	return &MessageMaker{
		Lnc:  time.Now(),
		LLvl: MSGCRIT,
		LNm:  "",
		SNm:  "",
		Win:  runtime.GOOS == "windows",
		Out:  os.Stdout,
	}
}

func (m *MessageMaker) MAND(s string) { m.Emit(s, MSGMAND) }
func (m *MessageMaker) CRIT(s string) { m.Emit(s, MSGCRIT) }
func (m *MessageMaker) WARN(s string) { m.Emit(s, MSGWARN) }
func (m *MessageMaker) NOTE(s string) { m.Emit(s, MSGNOTE) }
func (m *MessageMaker) FYI(s string)  { m.Emit(s, MSGFYI) }
func (m *MessageMaker) PEEK(s string) { m.Emit(s, MSGPEEK) }
func (m *MessageMaker) TMI(s string)  { m.Emit(s, MSGTMI) }

// Emit - send a message to the terminal, perhaps adding color and style to it
func (m *MessageMaker) Emit(message string, threshold int) {
	// sample output: "[CTS] RtUpload() stored 'reviews.csv' (412 rows)"

	if m.LLvl < threshold {
		return
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.colorful() {
		lc, ok := levelcolors[threshold]
		if !ok {
			lc = color.New(color.FgWhite)
		}
		fmt.Fprintf(m.out(), "[%s] %s\n", namecolor.Sprint(m.SNm), lc.Sprint(message))
	} else {
		// terminal color codes not w's friend
		fmt.Fprintf(m.out(), "[%s] %s\n", m.SNm, message)
	}
}

func (m *MessageMaker) colorful() bool {
	return !m.Win && !m.BW && !color.NoColor
}

func (m *MessageMaker) out() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// Color - color text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Color(tagged string) string {
	// "[git: C4%sC0]" ==> green text for the %s
	swap := strings.NewReplacer("C1", "", "C2", "", "C3", "", "C4", "", "C5", "", "C6", "", "C0", "")

	if m.colorful() {
		swap = strings.NewReplacer(
			"C1", opener(color.FgYellow),
			"C2", opener(color.FgHiCyan),
			"C3", opener(color.FgBlue),
			"C4", opener(color.FgGreen),
			"C5", opener(color.FgRed),
			"C6", opener(color.FgHiBlack),
			"C0", opener(color.Reset))
	}
	return swap.Replace(tagged)
}

// Styled - style text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Styled(tagged string) string {
	swap := strings.NewReplacer("S1", "", "S2", "", "S3", "", "S0", "")

	if m.colorful() {
		swap = strings.NewReplacer(
			"S1", opener(color.Bold),
			"S2", opener(color.Italic),
			"S3", opener(color.Underline),
			"S0", opener(color.Reset))
	}
	return swap.Replace(tagged)
}

func (m *MessageMaker) ColStyle(tagged string) string {
	return m.Styled(m.Color(tagged))
}

// opener - the escape sequence that switches on a single attribute
func opener(a color.Attribute) string {
	return fmt.Sprintf("\x1b[%dm", a)
}

// EC - report an error and keep going
func (m *MessageMaker) EC(err error) {
	if err != nil {
		m.Emit(fmt.Sprintf(PANIC, m.LNm, m.Ver, err.Error()), MSGCRIT)
	}
}

// EF - report error and function; then exit
func (m *MessageMaker) EF(err error, fn string) {
	if err != nil {
		m.Emit(fmt.Sprintf(PANIC2, m.LNm, m.Ver, fn, UNRECOVERABLE), MSGMAND)
		m.Emit(err.Error(), MSGMAND)
		m.ExitOrHang(1)
	}
}

// ExitOrHang - Windows should hang to keep the error visible before the window closes and hides it
func (m *MessageMaker) ExitOrHang(e int) {
	const (
		HANG = `Execution suspended. %s is now frozen. Note any errors above. Execution will halt after %d seconds.`
		SUSP = 60
	)
	if !m.Win {
		os.Exit(e)
	} else {
		m.Emit(fmt.Sprintf(HANG, m.LNm, SUSP), MSGMAND)
		time.Sleep(SUSP * time.Second)
		os.Exit(e)
	}
}

// Timer - report how much time elapsed between A and B
func (m *MessageMaker) Timer(letter string, o string, start time.Time, previous time.Time) {
	// sample output: "[A2: 1.764s][Δ: 1.024s] topic model fitted"
	d := fmt.Sprintf("[Δ: %.3fs] ", time.Since(previous).Seconds())
	o = fmt.Sprintf("[%s: %.3fs]", letter, time.Since(start).Seconds()) + d + o
	m.Emit(o, TIMETRACKERMSGTHRESH)
}

// LogPaths - increment path counter for this path; optionally do runtime.GC as well
func (m *MessageMaker) LogPaths(fn string) {
	// sample output:
	// [a] "[CTS] RtAnalyze() runtime.GC() 426M --> 408M"
	// [b] "[CTS] RtUpload() current heap: 34M"

	const (
		MSG  = "%s runtime.GC() %s --> %s"
		HEAP = "%s current heap: %s"
		MPR  = MSGPEEK
	)

	// PathInfoHub() must be running: this blocks once the buffer is full
	PIUpdate <- fn

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	b := fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)

	if !m.GC {
		m.Emit(fmt.Sprintf(HEAP, fn, b), MPR)
	} else {
		runtime.GC()
		runtime.ReadMemStats(&mem)
		a := fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)
		m.Emit(fmt.Sprintf(MSG, fn, b, a), MPR)
	}
}
