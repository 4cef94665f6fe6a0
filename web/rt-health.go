//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"github.com/e-gun/CSVTopicServer/internal/mm"
	"github.com/e-gun/CSVTopicServer/internal/str"
	"github.com/e-gun/CSVTopicServer/internal/vlt"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

// RtHealth - the server is up
func RtHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// RtStats - what the server has been doing since launch
func RtStats(c echo.Context) error {
	rs := vlt.FetchResponseStats()

	so := str.StatsOutputJSON{
		Version:   vv.VERSION,
		Uptime:    time.Since(vv.LaunchTime).Truncate(time.Second).String(),
		Uploads:   vlt.AllUploads.Count(),
		Jobs:      vlt.WSJobs.Count(),
		Routes:    mm.PathCounts(),
		Responses: map[string]uint64{
			"200": rs.TwoHundred,
			"400": rs.FourHundred,
			"404": rs.FourOhFour,
			"405": rs.FourOhFive,
			"413": rs.FourThirteen,
			"429": rs.FourTwentyNine,
			"500": rs.FiveHundred,
		},
	}
	return c.JSONPretty(http.StatusOK, so, vv.JSONINDENT)
}
