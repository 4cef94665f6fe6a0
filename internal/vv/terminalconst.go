//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	TERMINALTEXT = `Copyright (C) %s / %s
      %s

      This program comes with ABSOLUTELY NO WARRANTY; without even the  
      implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

      This is free software, and you are welcome to redistribute it and/or 
      modify it under the terms of the GNU General Public License version 3.`

	PROJYEAR = "2024"
	PROJAUTH = "E. Gunderson"
	PROJURL  = "https://github.com/e-gun/CSVTopicServer"

	SAMPLECONFIG = `# cts-conf.yaml
hostip: 127.0.0.1
hostport: 8000
loglevel: 1
echolog: 0
uilang: ar
model: lda
modellanguage: multilingual
numtopics: 10
minvalidtexts: 10
calcprobs: false
`
)
