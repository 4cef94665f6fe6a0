//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/i18n"
	"github.com/e-gun/CSVTopicServer/internal/lnch"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"html/template"
	"net/http"
	"runtime"
	"strings"
)

const (
	FRONTPAGE = "emb/frontpage.html"
)

var (
	fptemplate = template.Must(template.ParseFS(efs, FRONTPAGE))
)

//
// ROUTING
//

// RtFrontpage - send the html for "/"
func RtFrontpage(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtFrontpage()") })

	lang := pagelanguage(c)
	p := i18n.Printer(lang)

	other := language.English
	if lang == language.English {
		other = language.Arabic
	}

	dir := "ltr"
	if i18n.IsRTL(lang) {
		dir = "rtl"
	}

	gc := lnch.GitCommit
	if gc == "" {
		gc = "UNKNOWN"
	}
	ver := fmt.Sprintf("%s %s [git: %s]", vv.MYNAME, vv.VERSION+lnch.VersSuppl, gc)
	env := fmt.Sprintf("%s: %s - %s (%d workers)", runtime.Version(), runtime.GOOS, runtime.GOARCH, lnch.Config.WorkerCount)

	subs := map[string]interface{}{
		"lang":       lang.String(),
		"dir":        dir,
		"otherlang":  other.String(),
		"otherlabel": p.Sprintf(i18n.LblLanguage),
		"title":      p.Sprintf(i18n.LblTitle),
		"intro":      p.Sprintf(i18n.LblIntro),
		"upload":     p.Sprintf(i18n.LblUpload),
		"column":     p.Sprintf(i18n.LblColumn),
		"analyze":    p.Sprintf(i18n.LblAnalyze),
		"spinner":    p.Sprintf(i18n.LblSpinner),
		"cancel":     p.Sprintf(i18n.LblCancel),
		"preview":    p.Sprintf(i18n.LblPreview),
		"accept":     strings.Join(vv.AcceptedExtensions, ","),
		"maxmb":      lnch.Config.MaxUploadMB,
		"echarts":    vv.ECHARTSHOST + vv.ECHARTSJS,
		"longver":    ver,
		"env":        env,
	}

	var b bytes.Buffer
	if err := fptemplate.Execute(&b, subs); err != nil {
		Msg.EC(err)
		return c.String(http.StatusInternalServerError, "")
	}

	return c.HTML(http.StatusOK, b.String())
}

// pagelanguage - "?lang=" beats the Accept-Language header; both lose to nothing
func pagelanguage(c echo.Context) language.Tag {
	return i18n.Pick(c.QueryParam("lang"), c.Request().Header.Get("Accept-Language"))
}
