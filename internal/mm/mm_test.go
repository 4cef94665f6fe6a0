//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func bwmaker(level int) (*MessageMaker, *bytes.Buffer) {
	var b bytes.Buffer
	m := NewMessageMaker()
	m.BW = true
	m.SNm = "CTS"
	m.LLvl = level
	m.Out = &b
	return m, &b
}

func TestEmitRespectsLevel(t *testing.T) {
	m, b := bwmaker(MSGNOTE)

	m.MAND("always")
	m.WARN("warned")
	m.NOTE("noted")
	m.FYI("not shown")
	m.TMI("not shown either")

	assert.Equal(t, "[CTS] always\n[CTS] warned\n[CTS] noted\n", b.String())
}

func TestColorTagsVanishInBlackAndWhite(t *testing.T) {
	m, _ := bwmaker(MSGCRIT)
	assert.Equal(t, "[git: 1234] v0.3", m.ColStyle("[C4git: 1234C0] S1v0.3S0"))
}

func TestColorTagsBecomeEscapes(t *testing.T) {
	m, _ := bwmaker(MSGCRIT)
	m.BW = false
	if !m.colorful() {
		t.Skip("no color on this terminal")
	}
	assert.Contains(t, m.Color("C1x C0"), "\x1b[")
}

func TestECOnlyReportsErrors(t *testing.T) {
	m, b := bwmaker(MSGCRIT)
	m.LNm = "CSV Topic Server"
	m.Ver = "0.3.1"

	m.EC(nil)
	assert.Empty(t, b.String())

	m.EC(assert.AnError)
	assert.Contains(t, b.String(), "[CSV Topic Server v.0.3.1]")
	assert.Contains(t, b.String(), assert.AnError.Error())
}

func TestTimer(t *testing.T) {
	m, b := bwmaker(TIMETRACKERMSGTHRESH)
	start := time.Now().Add(-2 * time.Second)
	m.Timer("A1", "model fitted", start, start.Add(time.Second))
	assert.Regexp(t, `^\[CTS\] \[A1: 2\.\d{3}s\]\[Δ: 1\.\d{3}s\] model fitted\n$`, b.String())
}

func TestLogPathsFeedsHub(t *testing.T) {
	go PathInfoHub()

	// comfortably more than the channel buffers: nothing may go missing
	n := 4*cap(PIUpdate) + 3

	m, _ := bwmaker(MSGCRIT)
	for i := 0; i < n; i++ {
		m.LogPaths("RtUpload()")
	}
	m.LogPaths("RtAnalyze()")

	assert.Eventually(t, func() bool {
		pc := PathCounts()
		return pc["RtUpload()"] == n && pc["RtAnalyze()"] == 1
	}, time.Second, 10*time.Millisecond)
}
