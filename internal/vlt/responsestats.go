//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

//
// RESPONSE STATS: count what the server has been handing back
//

type EchoResponseStats struct {
	TwoHundred        uint64
	FourHundred       uint64
	FourOhFour        uint64
	FourOhFive        uint64
	FourThirteen      uint64
	FourTwentyNine    uint64
	FiveHundred       uint64
	LastClientFailure string
}

type StatListWR struct {
	code int
	ip   string
	uri  string
}

type StatListRD struct {
	resp chan EchoResponseStats
}

// variables to manage the response stats infrastructure
var (
	SListWR = make(chan StatListWR, 64)
	SListRD = make(chan StatListRD)
)

// TrackResponses - register the response code of every request; this is custom middleware for an *echo.Echo
func TrackResponses(nextechohandler echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// do this before reading c.Response().Status or you will always get "200"
		if err := nextechohandler(c); err != nil {
			c.Error(err)
		}

		registerresult := StatListWR{
			code: c.Response().Status,
			ip:   c.RealIP(),
			uri:  c.Request().RequestURI,
		}

		select {
		case SListWR <- registerresult:
		default:
			// the keeper is not running or has fallen behind: drop the count
		}
		return nil
	}
}

// ResponseStatsKeeper - log echo responses; should have exclusive r/w access to its EchoResponseStats
func ResponseStatsKeeper() {
	const (
		FYI200 = `StatusOK count is %d`
		FRQ200 = 1000
		FYI400 = `[%s] StatusBadRequest count is %d. Last was %s requesting "%s"`
		FRQ400 = 25
		FYI404 = `[%s] StatusNotFound count is %d`
		FRQ404 = 100
		FYI405 = `[%s] MethodNotAllowed count is %d`
		FRQ405 = 5
		FYI413 = `[%s] StatusRequestEntityTooLarge count is %d. Last was %s`
		FYI429 = `[%s] StatusTooManyRequests count is %d. Last was %s`
		FRQ429 = 10
		FYI500 = `[%s] StatusInternalServerError count is %d.`
		FRQ500 = 1
	)

	stats := EchoResponseStats{}

	warn := func(v uint64, frq uint64, fyi string, args ...any) {
		if v%frq == 0 {
			Msg.NOTE(fmt.Sprintf(fyi, args...))
		}
	}

	// NB: this loop will never exit
	for {
		select {
		case rd := <-SListRD:
			rd.resp <- stats
		case status := <-SListWR:
			when := time.Now().Format(time.RFC822)
			switch status.code {
			case http.StatusOK:
				stats.TwoHundred++
				warn(stats.TwoHundred, FRQ200, FYI200, stats.TwoHundred)
			case http.StatusBadRequest:
				stats.FourHundred++
				stats.LastClientFailure = status.uri
				warn(stats.FourHundred, FRQ400, FYI400, when, stats.FourHundred, status.ip, status.uri)
			case http.StatusNotFound:
				stats.FourOhFour++
				warn(stats.FourOhFour, FRQ404, FYI404, when, stats.FourOhFour)
			case http.StatusMethodNotAllowed:
				stats.FourOhFive++
				warn(stats.FourOhFive, FRQ405, FYI405, when, stats.FourOhFive)
			case http.StatusRequestEntityTooLarge:
				stats.FourThirteen++
				warn(stats.FourThirteen, 1, FYI413, when, stats.FourThirteen, status.ip)
			case http.StatusTooManyRequests:
				stats.FourTwentyNine++
				warn(stats.FourTwentyNine, FRQ429, FYI429, when, stats.FourTwentyNine, status.ip)
			case http.StatusInternalServerError:
				stats.FiveHundred++
				warn(stats.FiveHundred, FRQ500, FYI500, when, stats.FiveHundred)
			default:
				// do nothing: not interested
				// 101 from "/ws"
			}
		}
	}
}

// FetchResponseStats - a copy of the current counts
func FetchResponseStats() EchoResponseStats {
	rd := StatListRD{resp: make(chan EchoResponseStats)}
	SListRD <- rd
	return <-rd.resp
}
