//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"github.com/e-gun/CSVTopicServer/internal/lnch"
)

var (
	Msg           = lnch.NewMessageMakerWithDefaults()
	AllUploads    = MakeUploadVault()
	WebsocketPool = WSFillNewPool()
	WSJobs        = BuildWSJobHubIf()
)
