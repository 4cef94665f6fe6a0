//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/i18n"
	"github.com/e-gun/CSVTopicServer/internal/ingest"
	"github.com/e-gun/CSVTopicServer/internal/lnch"
	"github.com/e-gun/CSVTopicServer/internal/str"
	"github.com/e-gun/CSVTopicServer/internal/vlt"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/labstack/echo/v4"
	"net/http"
)

// RtUpload - parse an uploaded file and park it in the vault until somebody asks for an analysis
func RtUpload(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtUpload()") })

	const (
		FAIL1 = "RtUpload() rejected '%s': %s"
		MSG1  = "RtUpload() stored '%s' (%d rows, %d columns) as %s"
		ONE   = 1 << 20
	)

	p := i18n.Printer(pagelanguage(c))

	fail := func(name string, err error) error {
		Msg.NOTE(fmt.Sprintf(FAIL1, name, err.Error()))
		key, text := i18n.ForError(p, err)
		return c.JSONPretty(http.StatusBadRequest, str.UploadOutputJSON{Key: key, Message: text}, vv.JSONINDENT)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		// no file at all is an empty upload as far as the user is concerned
		return fail("", fmt.Errorf("%w: %s", ingest.ErrEmptyFile, err.Error()))
	}

	f, err := fh.Open()
	if err != nil {
		return fail(fh.Filename, fmt.Errorf("%w: %s", ingest.ErrRead, err.Error()))
	}
	defer f.Close()

	ds, err := ingest.Parse(fh.Filename, f, ingest.Options{MaxBytes: int64(lnch.Config.MaxUploadMB) * ONE})
	if err != nil {
		return fail(fh.Filename, err)
	}

	id := vlt.AllUploads.InsertUpload(ds)
	Msg.FYI(fmt.Sprintf(MSG1, ds.Name, len(ds.Rows), len(ds.Columns), id))

	uo := str.UploadOutputJSON{
		ID:      id,
		Name:    ds.Name,
		Size:    ds.HumanSize(),
		Columns: ds.Columns,
		Rows:    len(ds.Rows),
		Preview: ds.Preview(lnch.Config.PreviewRows),
		Message: p.Sprintf(i18n.LblUploaded, ds.Name, len(ds.Rows), ds.HumanSize()),
	}

	return c.JSONPretty(http.StatusOK, uo, vv.JSONINDENT)
}
