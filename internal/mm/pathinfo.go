//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/gen"
	"runtime"
	"sort"
	"strings"
	"time"
)

//
// CHANNEL-BASED PATHINFO REPORTING TO COMMUNICATE STATS BETWEEN ROUTINES
//

// PIReply - PathInfoHub helper struct for returning the PathInfo
type PIReply struct {
	Request  bool
	Response chan map[string]int
}

var (
	PIUpdate  = make(chan string, 2*runtime.NumCPU())
	PIRequest = make(chan PIReply)
)

// PathInfoHub - log paths that pass through MessageMaker.LogPaths; note that we are assuming only one mm is logging
func PathInfoHub() {
	var (
		PathsCalled = make(map[string]int)
	)

	// the main loop; it will never exit
	for {
		select {
		case upd := <-PIUpdate:
			PathsCalled[upd]++
		case req := <-PIRequest:
			// hand over a copy: the map keeps changing here
			cp := make(map[string]int, len(PathsCalled))
			for k, v := range PathsCalled {
				cp[k] = v
			}
			req.Response <- cp
		}
	}
}

// PathCounts - ask the hub what it has seen so far
func PathCounts() map[string]int {
	responder := PIReply{Request: true, Response: make(chan map[string]int)}
	PIRequest <- responder
	return <-responder.Response
}

// Ticker - requires running with the ticker flag; feed basic use stats to the console and update them indefinitely
func (m *MessageMaker) Ticker(wait time.Duration) {
	// sample output:

	//  ----------------- [10:24:28] CTS uptime: 1m0s [33M] -----------------
	//  Analyze: 4 * Frontpage: 7 * Upload: 5

	const (
		CLEAR     = "\033[2K"
		CLEARRT   = "\033[0K"
		HEAD      = "\r"
		CURSHOME  = "\033[1;1H"
		FIRSTLINE = "\033[2;1H"
		CURSSAVE  = "\033[s"
		CURSREST  = "\033[u"
		PADDING   = "  -----------------  "
		STATTMPL  = "%s: C2%dC0"
		UPTIME    = "[S1C6%vC0]  C5S1%s uptime: C1%vC0  [S1C6%sC0]"
	)

	// ANSI escape codes do not work in windows
	if !m.Tick || m.Win {
		return
	}
	var mem runtime.MemStats

	// the uptime line
	t := func(up time.Duration) {
		runtime.ReadMemStats(&mem)
		heap := fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)
		tick := fmt.Sprintf(UPTIME, time.Now().Format(time.TimeOnly), m.SNm, up.Truncate(time.Second), heap)
		tick = m.ColStyle(PADDING + tick + PADDING)
		fmt.Print(CURSSAVE + CURSHOME + CLEAR + HEAD + tick + CURSREST)
	}

	// the routes called line
	s := func() {
		ctr := PathCounts()
		keys := gen.StringMapKeysIntoSlice(ctr)

		var pairs []string
		for _, k := range keys {
			this := strings.TrimPrefix(k, "Rt")
			this = strings.TrimSuffix(this, "()")
			pairs = append(pairs, fmt.Sprintf(STATTMPL, this, ctr[k]))
		}

		sort.Strings(pairs)

		fmt.Print(CURSSAVE + FIRSTLINE)
		out := m.Color(strings.Join(pairs, " C6*C0 "))
		fmt.Print(out + CLEARRT)
		fmt.Println()
		fmt.Print(CLEAR + CURSREST)
	}

	for {
		up := time.Since(m.Lnc)
		t(up)
		s()
		time.Sleep(wait)
	}
}
