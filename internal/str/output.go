//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// UploadOutputJSON - what the page receives after a file upload
type UploadOutputJSON struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Size    string     `json:"size"`
	Columns []string   `json:"columns"`
	Rows    int        `json:"rows"`
	Preview [][]string `json:"preview"`
	Key     string     `json:"key,omitempty"`
	Message string     `json:"message,omitempty"`
}

// AnalysisOutputJSON - what the page receives after a topic analysis
type AnalysisOutputJSON struct {
	Status   string   `json:"status"` // "ok", "warning", "error"
	Key      string   `json:"key"`
	Message  string   `json:"message"`
	Summary  string   `json:"summary,omitempty"`
	Table    string   `json:"table,omitempty"`
	Chart    string   `json:"chart,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// StatsOutputJSON - what "/stats" reports
type StatsOutputJSON struct {
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Uploads   int               `json:"uploads"`
	Jobs      int               `json:"jobs"`
	Routes    map[string]int    `json:"routes"`
	Responses map[string]uint64 `json:"responses"`
}
