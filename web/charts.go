//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/i18n"
	"github.com/e-gun/CSVTopicServer/internal/lnch"
	"github.com/e-gun/CSVTopicServer/internal/topics"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"golang.org/x/text/message"
	"html/template"
	"io"
	"math"
	"regexp"
)

var (
	ErrNothingToChart = errors.New("no topics to chart")
)

//
// GRAPHING
//

// buildcharts - generate the html and js for the topic charts; a var so that a failing renderer can be swapped in
var buildcharts = topiccharts

// topiccharts - a distribution chart plus one horizontal term-weight chart per topic
func topiccharts(p *message.Printer, info []topics.TopicInfo) (htm string, err error) {
	// go-echarts is "too clever" and opaque about how to not do things its way
	// we override their page.Render() to yield html+js (see the ModX and CustomX code below)
	// this gets injected into the "charts" div on frontpage.html

	if len(info) == 0 {
		return "", ErrNothingToChart
	}

	// at heart this is somebody else's template engine: do not let it take the route down with it
	defer func() {
		if r := recover(); r != nil {
			htm = ""
			err = fmt.Errorf("%v", r)
		}
	}()

	// [a] acquire the charts
	cc := []components.Charter{distributionchart(p, info)}
	for _, ti := range info {
		if len(ti.Representation) == 0 {
			continue
		}
		cc = append(cc, termchart(p, ti))
	}

	// [b] we are building a page by hand
	pg := components.NewPage()
	pg.SetLayout(components.PageFlexLayout)
	pg.Renderer = NewCustomPageRender(pg, pg.Validate)

	// [c] AddCharts() validates each chart and collects its assets
	pg.AddCharts(cc...)
	pg.Validate()

	// [d] render the charts and get the html+js for them
	var buf bytes.Buffer
	if err = pg.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// distributionchart - how many texts each topic claimed
func distributionchart(p *message.Printer, info []topics.TopicInfo) *charts.Bar {
	labels := make([]string, len(info))
	data := make([]opts.BarData, len(info))
	for i, ti := range info {
		labels[i] = ti.Name
		data[i] = opts.BarData{Value: ti.Count}
	}

	bar := newbar(p.Sprintf(i18n.LblDistribution), lnch.Config.ChartWidth, lnch.Config.ChartHeight)
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: true, Rotate: 30, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: p.Sprintf(i18n.LblDocCount)}),
	)
	bar.SetXAxis(labels).AddSeries(p.Sprintf(i18n.LblCount), data)
	return bar
}

// termchart - the heaviest words of one topic as horizontal bars, heaviest on top
func termchart(p *message.Printer, ti topics.TopicInfo) *charts.Bar {
	const (
		WIDTH  = "320px"
		HEIGHT = "300px"
	)

	n := min(vv.CHARTWORDS, len(ti.Representation))

	// echarts draws the first category at the bottom
	words := make([]string, n)
	data := make([]opts.BarData, n)
	for i := 0; i < n; i++ {
		words[n-1-i] = ti.Representation[i]
		w := 0.0
		if i < len(ti.Weights) {
			w = round(ti.Weights[i])
		}
		data[n-1-i] = opts.BarData{Value: w}
	}

	bar := newbar(p.Sprintf(i18n.LblTopicWords, ti.Topic), WIDTH, HEIGHT)
	bar.SetXAxis(words).AddSeries(ti.Name, data)
	return bar.XYReversal()
}

// newbar - return a pre-formatted charts.Bar
func newbar(title string, width string, height string) *charts.Bar {
	const (
		FONTSTYLE = "normal"
		SAVETYPE  = "png"
		TEXTCOLOR = ""
	)

	tst := opts.TextStyle{
		Color:     TEXTCOLOR,
		FontStyle: FONTSTYLE,
		FontSize:  14,
	}

	tit := opts.Title{
		Title:      title,
		TitleStyle: &tst,
		Left:       "center",
	}

	tbs := opts.ToolBoxFeatureSaveAsImage{
		Show: true,
		Type: SAVETYPE,
		Name: title,
	}

	tbo := opts.Toolbox{
		Show:    true,
		Orient:  "vertical",
		Feature: &opts.ToolBoxFeature{SaveAsImage: &tbs},
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height, AssetsHost: vv.ECHARTSHOST}),
		charts.WithTitleOpts(tit),
		charts.WithToolboxOpts(tbo),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithLegendOpts(opts.Legend{Show: false}),
	)
	return bar
}

// round - four places is plenty for a tooltip
func round(f float64) float64 {
	return math.Round(f*10000) / 10000
}

//
// OVERRIDE GO-ECHARTS [original code at https://github.com/go-echarts/go-echarts]
//

// ModRenderer etc modified from https://github.com/go-echarts/go-echarts/render/engine.go
type ModRenderer interface {
	Render(w io.Writer) error
}

type CustomPageRender struct {
	c      interface{}
	before []func()
}

// NewCustomPageRender returns a render implementation for Page.
func NewCustomPageRender(c interface{}, before ...func()) ModRenderer {
	return &CustomPageRender{c: c, before: before}
}

// Render renders the page into the given io.Writer.
func (r *CustomPageRender) Render(w io.Writer) error {
	const (
		TEMPLNAME = "chart"
		PATTERN   = `(__f__")|("__f__)|(__f__)`
	)

	for _, fn := range r.before {
		fn()
	}

	contents := []string{CustomBaseTpl, CustomPageTpl}
	tpl := ModMustTemplate(TEMPLNAME, contents)

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, TEMPLNAME, r.c); err != nil {
		return err
	}

	pat := regexp.MustCompile(PATTERN)
	content := pat.ReplaceAll(buf.Bytes(), []byte(""))

	_, err := w.Write(content)
	return err
}

// ModMustTemplate creates a new template with the given name and parsed contents.
func ModMustTemplate(name string, contents []string) *template.Template {
	const (
		JSNAME = "safeJS"
	)

	tpl := template.Must(template.New(name).Funcs(template.FuncMap{
		JSNAME: func(s interface{}) template.JS {
			return template.JS(fmt.Sprint(s))
		},
	}).Parse(contents[0]))

	for _, cont := range contents[1:] {
		tpl = template.Must(tpl.Parse(cont))
	}
	return tpl
}

// CustomBaseTpl etc. adapted from https://github.com/go-echarts/go-echarts/templates/
// the page already loads echarts.min.js: no header template
var CustomBaseTpl = `
{{- define "base" }}
<div class="container">
    <div class="item" id="{{ .ChartID }}" style="width:{{ .Initialization.Width }};height:{{ .Initialization.Height }};"></div>
</div>
<script type="text/javascript">
    "use strict";
    let goecharts_{{ .ChartID | safeJS }} = echarts.init(document.getElementById('{{ .ChartID | safeJS }}'), "{{ .Theme }}");
    let option_{{ .ChartID | safeJS }} = {{ .JSONNotEscaped | safeJS }};
    goecharts_{{ .ChartID | safeJS }}.setOption(option_{{ .ChartID | safeJS }});

    {{- range .JSFunctions.Fns }}
    {{ . | safeJS }}
    {{- end }}
</script>
{{ end }}
`

var CustomPageTpl = `
{{- define "chart" }}
	{{ if eq .Layout "none" }}
		{{- range .Charts }} {{ template "base" . }} {{- end }}
	{{ end }}

	{{ if eq .Layout "center" }}
		{{- range .Charts }} {{ template "base" . }} {{- end }}
	{{ end }}

	{{ if eq .Layout "flex" }}
		<div class="box"> {{- range .Charts }} {{ template "base" . }} {{- end }} </div>
	{{ end }}
{{ end }}
`
