//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"encoding/json"
	"github.com/e-gun/CSVTopicServer/internal/ingest"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestUploadVault(t *testing.T) {
	uv := MakeUploadVault()
	ds := &ingest.Dataset{Name: "a.csv"}

	id := uv.InsertUpload(ds)
	assert.Len(t, id, 36)
	assert.True(t, uv.IsInVault(id))
	assert.Equal(t, 1, uv.Count())

	got, ok := uv.GetUpload(id)
	require.True(t, ok)
	assert.Same(t, ds, got)

	_, ok = uv.GetUpload("nope")
	assert.False(t, ok)

	other := uv.InsertUpload(&ingest.Dataset{Name: "b.csv"})
	assert.NotEqual(t, id, other)

	uv.Delete(other)
	assert.False(t, uv.IsInVault(other))
}

func TestUploadVaultSweep(t *testing.T) {
	uv := MakeUploadVault()
	stale := uv.InsertUpload(&ingest.Dataset{Name: "old.csv"})
	fresh := uv.InsertUpload(&ingest.Dataset{Name: "new.csv"})

	// backdate one of them
	uv.mutex.Lock()
	su := uv.UploadMap[stale]
	su.Touched = time.Now().Add(-time.Hour)
	uv.UploadMap[stale] = su
	uv.mutex.Unlock()

	assert.Equal(t, 1, uv.Sweep(30*time.Minute, time.Now()))
	assert.False(t, uv.IsInVault(stale))
	assert.True(t, uv.IsInVault(fresh))

	// everything goes once the clock moves far enough
	assert.Equal(t, 1, uv.Sweep(30*time.Minute, time.Now().Add(time.Hour)))
	assert.Equal(t, 0, uv.Count())
}

func TestJobHub(t *testing.T) {
	hub := BuildWSJobHubIf()
	go WSJobInfoHub(hub)

	assert.False(t, hub.Fetch("job1").Exists)

	var canceled atomic.Bool
	hub.InsertInfo <- WSJobInfo{ID: "job1", Steps: 4, Launched: time.Now(), CancelFnc: func() { canceled.Store(true) }}
	ji := hub.Fetch("job1")
	assert.True(t, ji.Exists)
	assert.Equal(t, 4, ji.Steps)
	assert.Equal(t, 1, hub.Count())

	hub.UpdateStage <- WSJIStep{Key: "job1", Stage: "clean", Msg: "cleaning", Step: 2}
	assert.Eventually(t, func() bool { return hub.Fetch("job1").Stage == "clean" }, time.Second, 10*time.Millisecond)
	ji = hub.Fetch("job1")
	assert.Equal(t, "cleaning", ji.Msg)
	assert.Equal(t, 2, ji.Step)
	assert.Equal(t, 4, ji.Steps)

	hub.Cancel <- "job1"
	assert.Eventually(t, func() bool { return hub.Count() == 1 && canceled.Load() }, time.Second, 10*time.Millisecond)

	hub.Del <- "job1"
	assert.False(t, hub.Fetch("job1").Exists)

	// a late update must not bring it back
	hub.UpdateStage <- WSJIStep{Key: "job1", Stage: "model", Step: 3}
	assert.Never(t, func() bool { return hub.Fetch("job1").Exists }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Count())
}

func TestJobHubClaim(t *testing.T) {
	hub := BuildWSJobHubIf()
	go WSJobInfoHub(hub)

	assert.True(t, hub.ClaimJob(WSJobInfo{ID: "job2", Steps: 7, Launched: time.Now()}))
	assert.True(t, hub.Fetch("job2").Exists)
	assert.Equal(t, 7, hub.Fetch("job2").Steps)

	// taken while it runs
	assert.False(t, hub.ClaimJob(WSJobInfo{ID: "job2", Launched: time.Now()}))

	// and still taken right after it finishes
	hub.Del <- "job2"
	assert.False(t, hub.ClaimJob(WSJobInfo{ID: "job2", Launched: time.Now()}))
	assert.False(t, hub.Fetch("job2").Exists)

	assert.True(t, hub.ClaimJob(WSJobInfo{ID: "job3", Launched: time.Now()}))
	assert.Equal(t, 1, hub.Count())
}

func TestFormatPoll(t *testing.T) {
	ji := WSJobInfo{Msg: "Cleaning <texts>", Step: 1, Steps: 4, Launched: time.Now()}
	h := formatpoll(ji)
	assert.Contains(t, h, "Cleaning &lt;texts&gt;")
	assert.Contains(t, h, `<span class="progress">25%</span>`)

	ji.Steps = 0
	assert.NotContains(t, formatpoll(ji), "progress")
}

func TestWebsocketProgress(t *testing.T) {
	hub := BuildWSJobHubIf()
	pool := WSFillNewPool()
	go WSJobInfoHub(hub)
	go pool.WSPoolStartListening()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		cl := &WSClient{Conn: ws, Pool: pool, Hub: hub}
		if cl.ReceiveID() {
			pool.Add <- cl
			cl.WSMessageLoop()
			pool.Remove <- cl
		}
	}))
	defer srv.Close()

	hub.InsertInfo <- WSJobInfo{ID: "job2", Stage: "model", Msg: "fitting", Step: 1, Steps: 2, Launched: time.Now()}

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`"job2"`)))

	var first WSJSOut
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, m, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(m, &first))
	assert.Equal(t, "job2", first.ID)
	assert.Equal(t, "open", first.Close)
	assert.Contains(t, first.V, "fitting")

	hub.Del <- "job2"

	closed := false
	for i := 0; i < 100 && !closed; i++ {
		_, m, err = conn.ReadMessage()
		require.NoError(t, err)
		var jso WSJSOut
		require.NoError(t, json.Unmarshal(m, &jso))
		closed = jso.Close == "close"
	}
	assert.True(t, closed)
}

func TestTrackResponses(t *testing.T) {
	go ResponseStatsKeeper()

	e := echo.New()
	e.Use(TrackResponses)
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/bad", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "nope") })

	before := FetchResponseStats()

	for _, p := range []string{"/ok", "/ok", "/bad", "/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Eventually(t, func() bool {
		now := FetchResponseStats()
		return now.TwoHundred-before.TwoHundred == 2 &&
			now.FourHundred-before.FourHundred == 1 &&
			now.FourOhFour-before.FourOhFour == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "/bad", FetchResponseStats().LastClientFailure)
}

func TestUploadJanitor(t *testing.T) {
	// UploadJanitor() never returns; make sure one tick of it sweeps
	uv := MakeUploadVault()
	id := uv.InsertUpload(&ingest.Dataset{})
	go uv.UploadJanitor(time.Nanosecond, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return !uv.IsInVault(id) }, time.Second, 10*time.Millisecond)
}
