//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/ingest"
	"github.com/google/uuid"
	"sync"
	"time"
)

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// StoredUpload - a parsed file plus the bookkeeping the janitor needs
type StoredUpload struct {
	DS      *ingest.Dataset
	Stored  time.Time
	Touched time.Time
}

// UploadVault - there should be only one of these; it holds every upload waiting for an analyze request
type UploadVault struct {
	UploadMap map[string]StoredUpload
	mutex     sync.RWMutex
}

// MakeUploadVault - called only once; yields the AllUploads vault
func MakeUploadVault() *UploadVault {
	return &UploadVault{
		UploadMap: make(map[string]StoredUpload),
		mutex:     sync.RWMutex{},
	}
}

// InsertUpload - store a Dataset and hand back the id it will be known by
func (uv *UploadVault) InsertUpload(ds *ingest.Dataset) string {
	uv.mutex.Lock()
	defer uv.mutex.Unlock()
	id := uuid.New().String()
	now := time.Now()
	uv.UploadMap[id] = StoredUpload{DS: ds, Stored: now, Touched: now}
	return id
}

// GetUpload - fetch a Dataset; fetching restarts its clock
func (uv *UploadVault) GetUpload(id string) (*ingest.Dataset, bool) {
	uv.mutex.Lock()
	defer uv.mutex.Unlock()
	su, ok := uv.UploadMap[id]
	if !ok {
		return nil, false
	}
	su.Touched = time.Now()
	uv.UploadMap[id] = su
	return su.DS, true
}

func (uv *UploadVault) Delete(id string) {
	uv.mutex.Lock()
	defer uv.mutex.Unlock()
	delete(uv.UploadMap, id)
}

func (uv *UploadVault) IsInVault(id string) bool {
	uv.mutex.RLock()
	defer uv.mutex.RUnlock()
	_, b := uv.UploadMap[id]
	return b
}

func (uv *UploadVault) Count() int {
	uv.mutex.RLock()
	defer uv.mutex.RUnlock()
	return len(uv.UploadMap)
}

// Sweep - drop every upload that has not been touched within ttl of now; return how many went
func (uv *UploadVault) Sweep(ttl time.Duration, now time.Time) int {
	uv.mutex.Lock()
	defer uv.mutex.Unlock()
	swept := 0
	for id, su := range uv.UploadMap {
		if now.Sub(su.Touched) > ttl {
			delete(uv.UploadMap, id)
			swept++
		}
	}
	return swept
}

// UploadJanitor - expire stale uploads every so often; this loop will never exit
func (uv *UploadVault) UploadJanitor(ttl time.Duration, every time.Duration) {
	const (
		MSG = "UploadJanitor() expired %d upload(s); %d remain"
	)

	for {
		time.Sleep(every)
		if n := uv.Sweep(ttl, time.Now()); n > 0 {
			Msg.PEEK(fmt.Sprintf(MSG, n, uv.Count()))
		}
	}
}
