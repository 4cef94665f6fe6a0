//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/gen"
	"github.com/e-gun/CSVTopicServer/internal/i18n"
	"github.com/e-gun/CSVTopicServer/internal/topics"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"golang.org/x/text/message"
	"html"
	"strings"
)

// topictable - the summary table: one row per topic, biggest first
func topictable(p *message.Printer, info []topics.TopicInfo) string {
	const (
		NTH = 2

		FULLTABLE = `
	<table class="topics"><tbody>
	%s
	</tbody></table>
	`

		TABLETOP = `
    <tr class="vectorrow">
        <td class="vectorrank" colspan = "6">%s</td>
    </tr>
	<tr class="vectorrow">
		<td class="vectorrank">%s</td>
		<td class="vectorrank">%s</td>
		<td class="vectorrank">%s</td>
		<td class="vectorrank">%s</td>
		<td class="vectorrank">%s</td>
		<td class="vectorrank">%s</td>
	</tr>
    %s`

		TABLEROW = `
	<tr class="%s">%s
	</tr>`

		TABLEELEM = `
		<td class="vectorrank">%d</td>
		<td class="vectorscore">%d</td>
		<td class="vectorsent">%s</td>
		<td class="vectorsent">%s</td>
		<td class="vectorsent topicdocs">%s</td>
		<td class="vectorscore">%.2f%%</td>`

		DOC = `<div>%s</div>`
	)

	var tablerows []string
	for i, ti := range info {
		ww := make([]string, len(ti.Representation))
		for j, w := range ti.Representation {
			ww[j] = html.EscapeString(w)
		}

		dd := make([]string, len(ti.RepresentativeDocs))
		for j, d := range ti.RepresentativeDocs {
			dd[j] = fmt.Sprintf(DOC, html.EscapeString(gen.TrimRunes(d, vv.REPDOCRUNES)))
		}

		r := fmt.Sprintf(TABLEELEM, ti.Topic, ti.Count, html.EscapeString(ti.Name), strings.Join(ww, p.Sprintf(i18n.LblListSep)), strings.Join(dd, ""), ti.Share*100)

		rn := "vectorrow"
		if i%NTH == 0 {
			rn = "nthrow"
		}
		tablerows = append(tablerows, fmt.Sprintf(TABLEROW, rn, r))
	}

	tableout := fmt.Sprintf(TABLETOP,
		p.Sprintf(i18n.LblTopTopics),
		p.Sprintf(i18n.LblTopic),
		p.Sprintf(i18n.LblCount),
		p.Sprintf(i18n.LblName),
		p.Sprintf(i18n.LblRepr),
		p.Sprintf(i18n.LblReprDocs),
		p.Sprintf(i18n.LblShare),
		strings.Join(tablerows, "\n"))
	return fmt.Sprintf(FULLTABLE, tableout)
}
