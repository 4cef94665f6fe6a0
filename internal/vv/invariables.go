//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

var (
	LaunchTime = time.Now()

	// AcceptedExtensions - what the upload control will take
	AcceptedExtensions = []string{".csv", ".tsv", ".txt"}
	ModelKinds         = []string{"lda", "lsa"}
	ModelLanguages     = []string{"multilingual", "arabic", "english"}
	UILanguages        = []string{"ar", "en"}
)
