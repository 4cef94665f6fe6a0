//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"context"
	"errors"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/analysis"
	"github.com/e-gun/CSVTopicServer/internal/i18n"
	"github.com/e-gun/CSVTopicServer/internal/ingest"
	"github.com/e-gun/CSVTopicServer/internal/lnch"
	"github.com/e-gun/CSVTopicServer/internal/str"
	"github.com/e-gun/CSVTopicServer/internal/topics"
	"github.com/e-gun/CSVTopicServer/internal/vlt"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

const (
	STATUSOK   = "ok"
	STATUSWARN = "warning"
	STATUSERR  = "error"
)

// RtAnalyze - run the pipeline against one column of a stored upload and send back the table and the charts
func RtAnalyze(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtAnalyze()") })

	const (
		FAIL1 = "RtAnalyze() could not find upload '%s'"
		FAIL2 = "RtAnalyze() failed on '%s' [%s]: %s"
		FAIL3 = "RtAnalyze() could not draw the charts for '%s': %s"
		FAIL4 = "RtAnalyze() refused job id '%s': already in use"
		MSG1  = "RtAnalyze() found %d topics in '%s' [%s]"
		STEPS = 7 // column, missing, clean, filter, model, summary, done
	)

	p := i18n.Printer(pagelanguage(c))

	reply := func(code int, ao str.AnalysisOutputJSON) error {
		return c.JSONPretty(code, ao, vv.JSONINDENT)
	}

	failure := func(code int, status string, err error) error {
		key, text := i18n.ForError(p, err)
		return reply(code, str.AnalysisOutputJSON{Status: status, Key: key, Message: text})
	}

	id := c.Param("id")
	ds, ok := vlt.AllUploads.GetUpload(id)
	if !ok {
		Msg.NOTE(fmt.Sprintf(FAIL1, id))
		return reply(http.StatusNotFound, str.AnalysisOutputJSON{Status: STATUSERR, Key: i18n.KeyUnknownUpload, Message: p.Sprintf(i18n.KeyUnknownUpload)})
	}

	column := c.FormValue("column")
	job := c.FormValue("job")
	if job == "" {
		job = uuid.New().String()
	}

	m, err := topics.New(modelsettings())
	if err != nil {
		return failure(http.StatusOK, STATUSERR, err)
	}

	// a client that goes away takes its analysis with it
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	start := time.Now()
	if !vlt.WSJobs.ClaimJob(vlt.WSJobInfo{ID: job, Msg: p.Sprintf(i18n.LblSpinner), Steps: STEPS, Launched: start, CancelFnc: cancel}) {
		Msg.NOTE(fmt.Sprintf(FAIL4, job))
		return reply(http.StatusConflict, str.AnalysisOutputJSON{Status: STATUSERR, Key: i18n.KeyJobInUse, Message: p.Sprintf(i18n.KeyJobInUse)})
	}
	defer func() { vlt.WSJobs.Del <- job }()

	step := 0
	previous := start
	rep := analysis.ReporterFunc(func(stage analysis.Stage, detail string) {
		step++
		vlt.WSJobs.UpdateStage <- vlt.WSJIStep{Key: job, Stage: string(stage), Msg: i18n.ForStage(p, stage, detail), Step: step}
		Msg.Timer(fmt.Sprintf("A%d", step), fmt.Sprintf("%s: %s", stage, detail), start, previous)
		previous = time.Now()
	})

	res, err := analysis.Run(ctx, ds, column, m, analysis.Options{MinValidTexts: lnch.Config.MinValidTexts}, rep)
	if err != nil {
		Msg.NOTE(fmt.Sprintf(FAIL2, ds.Name, column, err.Error()))
		switch {
		case errors.Is(err, ingest.ErrUnknownColumn):
			return failure(http.StatusBadRequest, STATUSERR, err)
		case errors.Is(err, analysis.ErrNoTopics):
			return failure(http.StatusOK, STATUSWARN, err)
		default:
			return failure(http.StatusOK, STATUSERR, err)
		}
	}

	Msg.FYI(fmt.Sprintf(MSG1, len(res.Model.Info), ds.Name, column))

	key, text := i18n.ForError(p, nil)
	ao := str.AnalysisOutputJSON{
		Status:  STATUSOK,
		Key:     key,
		Message: text,
		Summary: p.Sprintf(i18n.LblSummary, res.Valid, res.TotalRows, len(res.Model.Info), res.Elapsed.Round(time.Millisecond).String()),
		Table:   topictable(p, res.Model.Info),
	}

	// the table survives a chart that cannot be drawn
	chart, err := buildcharts(p, res.Model.Info)
	switch {
	case errors.Is(err, ErrNothingToChart):
		ao.Status = STATUSWARN
		ao.Warnings = append(ao.Warnings, p.Sprintf(i18n.KeyNothingToShow))
	case err != nil:
		Msg.WARN(fmt.Sprintf(FAIL3, ds.Name, err.Error()))
		ao.Status = STATUSWARN
		ao.Warnings = append(ao.Warnings, p.Sprintf(i18n.KeyChartFailure, err.Error()))
	default:
		ao.Chart = chart
	}

	return reply(http.StatusOK, ao)
}

// RtCancel - stop an analysis in progress; the analyze request then answers with the canceled message
func RtCancel(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtCancel()") })

	job := c.Param("job")
	if !vlt.WSJobs.Fetch(job).Exists {
		return c.NoContent(http.StatusNotFound)
	}
	vlt.WSJobs.Cancel <- job
	return c.NoContent(http.StatusAccepted)
}

// modelsettings - the configured topic model
func modelsettings() topics.Settings {
	return topics.Settings{
		Kind:                   lnch.Config.Model,
		Language:               lnch.Config.ModelLanguage,
		NumTopics:              lnch.Config.NumTopics,
		CalculateProbabilities: lnch.Config.CalcProbs,
		TopWords:               lnch.Config.TopWords,
		RepresentativeDocs:     lnch.Config.RepDocs,
		Iterations:             lnch.Config.Iterations,
		Workers:                lnch.Config.WorkerCount,
	}
}
