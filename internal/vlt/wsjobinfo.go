//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

//
// CHANNEL-BASED JOBINFO REPORTING TO COMMUNICATE PROGRESS BETWEEN ROUTINES: analyze routes write; websocket reads
//

// WSJobInfo - struct used to deliver info about analyses in progress
type WSJobInfo struct {
	ID        string
	Exists    bool
	Stage     string
	Msg       string
	Step      int
	Steps     int
	Launched  time.Time
	CancelFnc context.CancelFunc
}

// WSJIStep - WSJobInfoHub helper struct for moving the item at map[Key] on to a new stage
type WSJIStep struct {
	Key   string
	Stage string
	Msg   string
	Step  int
}

// WSJIReply - WSJobInfoHub helper struct for returning the WSJobInfo stored at map[Key]
type WSJIReply struct {
	Key      string
	Response chan WSJobInfo
}

// WSJIClaim - WSJobInfoHub helper struct for registering a job only if its id is free
type WSJIClaim struct {
	Info     WSJobInfo
	Response chan bool
}

type WSJobHubInterface struct {
	UpdateStage chan WSJIStep
	RequestInfo chan WSJIReply
	InsertInfo  chan WSJobInfo
	Claim       chan WSJIClaim
	JobCount    chan chan int
	Cancel      chan string
	Del         chan string
}

// BuildWSJobHubIf - build the WSJobHubInterface that will interact with WSJobInfoHub (one and only one built at app startup)
func BuildWSJobHubIf() *WSJobHubInterface {
	return &WSJobHubInterface{
		UpdateStage: make(chan WSJIStep, 2*runtime.NumCPU()),
		RequestInfo: make(chan WSJIReply),
		InsertInfo:  make(chan WSJobInfo),
		Claim:       make(chan WSJIClaim),
		JobCount:    make(chan chan int),
		Cancel:      make(chan string),
		Del:         make(chan string),
	}
}

// WSJobInfoHub - the loop that lets you read/write from/to the various WSJobInfo channels of a *WSJobHubInterface
func WSJobInfoHub(hub *WSJobHubInterface) {
	const (
		CANC    = "WSJobInfoHub() reports that '%s' was cancelled"
		FINWAIT = 10 * time.Second
		FINCHK  = 60 * time.Second
	)

	var (
		Allinfo  = make(map[string]WSJobInfo)
		Finished = make(map[string]time.Time)
	)

	reporter := func(r WSJIReply) {
		if _, ok := Allinfo[r.Key]; ok {
			r.Response <- Allinfo[r.Key]
		} else {
			// "false" triggers a break in WSMessageLoop()
			r.Response <- WSJobInfo{ID: r.Key, Exists: false}
		}
	}

	fetchifexists := func(id string) WSJobInfo {
		if _, ok := Allinfo[id]; ok {
			return Allinfo[id]
		} else {
			return WSJobInfo{ID: id, Exists: true, Launched: time.Now()}
		}
	}

	// a late stage update must not respawn a job that was already deleted
	storeunlessfinished := func(ji WSJobInfo) {
		if _, ok := Finished[ji.ID]; !ok {
			Allinfo[ji.ID] = ji
		}
	}

	cleanfinished := func() {
		for f, ft := range Finished {
			if time.Since(ft) > FINWAIT {
				delete(Finished, f)
			}
		}
	}

	tick := time.NewTicker(FINCHK)
	defer tick.Stop()

	// the main loop; it will never exit
	for {
		select {
		case rq := <-hub.RequestInfo:
			reporter(rq)
		case st := <-hub.UpdateStage:
			x := fetchifexists(st.Key)
			x.Stage = st.Stage
			x.Msg = st.Msg
			x.Step = st.Step
			storeunlessfinished(x)
		case ji := <-hub.InsertInfo:
			ji.Exists = true
			storeunlessfinished(ji)
		case cl := <-hub.Claim:
			// an id that is running or just finished belongs to somebody else
			_, running := Allinfo[cl.Info.ID]
			_, finished := Finished[cl.Info.ID]
			if running || finished {
				cl.Response <- false
			} else {
				cl.Info.Exists = true
				Allinfo[cl.Info.ID] = cl.Info
				cl.Response <- true
			}
		case rsp := <-hub.JobCount:
			rsp <- len(Allinfo)
		case canc := <-hub.Cancel:
			if ji, ok := Allinfo[canc]; ok && ji.CancelFnc != nil {
				ji.CancelFnc()
				Msg.PEEK(fmt.Sprintf(CANC, canc))
			}
		case del := <-hub.Del:
			Finished[del] = time.Now()
			delete(Allinfo, del)
		case <-tick.C:
			cleanfinished()
		}
	}
}

// Fetch - ask the hub about one job
func (h *WSJobHubInterface) Fetch(id string) WSJobInfo {
	responder := WSJIReply{Key: id, Response: make(chan WSJobInfo)}
	h.RequestInfo <- responder
	return <-responder.Response
}

// ClaimJob - register a job unless its id is already taken; false means pick another id
func (h *WSJobHubInterface) ClaimJob(ji WSJobInfo) bool {
	cl := WSJIClaim{Info: ji, Response: make(chan bool)}
	h.Claim <- cl
	return <-cl.Response
}

// Count - how many jobs are in flight
func (h *WSJobHubInterface) Count() int {
	rsp := make(chan int)
	h.JobCount <- rsp
	return <-rsp
}
