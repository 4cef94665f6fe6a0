//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"github.com/e-gun/CSVTopicServer/internal/str"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func quietly(t *testing.T) {
	// Sanitize() complains at CRIT
	var b bytes.Buffer
	old := Msg.Out
	Msg.Out = &b
	t.Cleanup(func() { Msg.Out = old })
}

func writeyaml(t *testing.T, body string) string {
	p := filepath.Join(t.TempDir(), vv.CONFIGBASIC)
	require.NoError(t, os.WriteFile(p, []byte(body), vv.WRITEPERMS))
	return p
}

func TestBuildDefaultConfig(t *testing.T) {
	c := BuildDefaultConfig()
	assert.Equal(t, vv.SERVEDFROMPORT, c.HostPort)
	assert.Equal(t, vv.DEFAULTMODEL, c.Model)
	assert.Equal(t, vv.NUMBEROFTOPICS, c.NumTopics)
	assert.Equal(t, vv.MINVALIDTEXTS, c.MinValidTexts)
	assert.Equal(t, vv.DEFAULTLANG, c.UILang)
	assert.Equal(t, runtime.NumCPU(), c.WorkerCount)
}

func TestLoadConfigFile(t *testing.T) {
	p := writeyaml(t, "hostport: 9100\nmodel: lsa\nuploadttl: 5m\n")

	c, loaded, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"), p)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
	assert.Equal(t, 9100, c.HostPort)
	assert.Equal(t, "lsa", c.Model)
	assert.Equal(t, 5*time.Minute, c.UploadTTL)
	// untouched keys keep their defaults
	assert.Equal(t, vv.NUMBEROFTOPICS, c.NumTopics)
}

func TestLoadConfigFileNothingThere(t *testing.T) {
	c, loaded, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.Equal(t, BuildDefaultConfig(), c)
}

func TestLoadConfigFileGarbage(t *testing.T) {
	p := writeyaml(t, "hostport: [this is not a port\n")
	_, _, err := LoadConfigFile(p)
	assert.Error(t, err)
}

func TestWriteConfigFile(t *testing.T) {
	c := BuildDefaultConfig()
	c.NumTopics = 7
	c.UILang = "en"
	p := filepath.Join(t.TempDir(), vv.CONFIGBASIC)
	require.NoError(t, WriteConfigFile(c, p))

	back, _, err := LoadConfigFile(p)
	require.NoError(t, err)
	assert.Equal(t, 7, back.NumTopics)
	assert.Equal(t, "en", back.UILang)
}

func TestSanitize(t *testing.T) {
	quietly(t)

	c := BuildDefaultConfig()
	c.WorkerCount = runtime.NumCPU() + 10
	c.Model = " LSA "
	c.ModelLanguage = "klingon"
	c.NumTopics = 0
	c.MinValidTexts = 1
	c.UploadTTL = 0
	c.EchoLog = 9
	c.ChartWidth = ""
	Sanitize(c)

	assert.Equal(t, runtime.NumCPU(), c.WorkerCount)
	assert.Equal(t, "lsa", c.Model)
	assert.Equal(t, vv.DEFAULTMODELLANGUAGE, c.ModelLanguage)
	assert.Equal(t, vv.NUMBEROFTOPICS, c.NumTopics)
	assert.Equal(t, vv.MINVALIDTEXTS, c.MinValidTexts)
	assert.Equal(t, vv.UPLOADTTL, c.UploadTTL)
	assert.Equal(t, vv.DEFAULTECHOLOGLEVEL, c.EchoLog)
	assert.Equal(t, vv.DEFAULTCHRTWIDTH, c.ChartWidth)

	c.WorkerCount = -3
	Sanitize(c)
	assert.Equal(t, 1, c.WorkerCount)
}

func TestFlagsOverrideFile(t *testing.T) {
	quietly(t)
	p := writeyaml(t, "hostport: 9100\nnumtopics: 4\nuilang: en\n")

	var got *str.CurrentConfiguration
	cmd := NewRootCmd(func(c *str.CurrentConfiguration) error {
		got = c
		return nil
	})
	cmd.SetArgs([]string{"--config", p, "-p", "9200", "--model", "lsa"})
	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)

	assert.Equal(t, 9200, got.HostPort)
	assert.Equal(t, "lsa", got.Model)
	// from the file
	assert.Equal(t, 4, got.NumTopics)
	assert.Equal(t, "en", got.UILang)
	// from neither
	assert.Equal(t, vv.SERVEDFROMHOST, got.HostIP)
}

func TestNamedConfigFileMustExist(t *testing.T) {
	cmd := NewRootCmd(func(c *str.CurrentConfiguration) error { return nil })
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.ErrorIs(t, cmd.Execute(), fs.ErrNotExist)
}

func TestConfigAtLaunch(t *testing.T) {
	quietly(t)
	old := Config
	t.Cleanup(func() { Config = old })

	p := writeyaml(t, "numtopics: 3\n")
	serve, err := ConfigAtLaunch([]string{"-c", p, "-k", "6", "-l", "en"})
	require.NoError(t, err)
	assert.True(t, serve)
	assert.Equal(t, 6, Config.NumTopics)
	assert.Equal(t, "en", Config.UILang)

	serve, err = ConfigAtLaunch([]string{"--no-such-flag"})
	assert.Error(t, err)
	assert.False(t, serve)

	serve, err = ConfigAtLaunch([]string{"unexpected", "args"})
	assert.Error(t, err)
	assert.False(t, serve)
}

func TestSampleConfig(t *testing.T) {
	var out bytes.Buffer
	launched := false
	cmd := NewRootCmd(func(c *str.CurrentConfiguration) error { launched = true; return nil })
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--sampleconfig"})
	require.NoError(t, cmd.Execute())
	assert.False(t, launched)
	assert.Equal(t, vv.SAMPLECONFIG, out.String())

	// the sample must load as it stands
	c, _, err := LoadConfigFile(writeyaml(t, out.String()))
	require.NoError(t, err)
	assert.Equal(t, vv.DEFAULTMODEL, c.Model)
}

func TestWriteConfigFlag(t *testing.T) {
	quietly(t)
	old := Config
	t.Cleanup(func() { Config = old })

	dst := filepath.Join(t.TempDir(), "out.yaml")
	serve, err := ConfigAtLaunch([]string{"-c", writeyaml(t, "numtopics: 3\n"), "-k", "7", "--writeconfig", dst})
	require.NoError(t, err)
	assert.False(t, serve)

	c, loaded, err := LoadConfigFile(dst)
	require.NoError(t, err)
	assert.Equal(t, dst, loaded)
	assert.Equal(t, 7, c.NumTopics)
}

func TestUpdateMessageMakerWithConfig(t *testing.T) {
	old := Config
	t.Cleanup(func() { Config = old })

	Config = BuildDefaultConfig()
	Config.LogLevel = 4
	Config.BlackAndWhite = true

	m := NewMessageMakerWithDefaults()
	UpdateMessageMakerWithConfig(m)
	assert.Equal(t, 4, m.LLvl)
	assert.True(t, m.BW)
	assert.Equal(t, vv.SHORTNAME, m.SNm)
}

func TestStartProfilingOff(t *testing.T) {
	stop := StartProfiling(BuildDefaultConfig())
	require.NotNil(t, stop)
	stop()
}

func TestConfigDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	d := ConfigDir()
	assert.Equal(t, filepath.Join(home, ".config")+string(filepath.Separator), d)
	fi, err := os.Stat(d)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	// a second call finds it already there
	assert.Equal(t, d, ConfigDir())
}

func TestConfigDirWithoutHome(t *testing.T) {
	quietly(t)
	t.Setenv("HOME", "")
	if _, err := os.UserHomeDir(); err == nil {
		t.Skip("a home directory is still reported on this platform")
	}
	assert.Equal(t, vv.CONFIGLOCATION, ConfigDir())
}
