// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/v1/skills/{name}", "200"))
	RecordAPIRequest("GET", "/v1/skills/{name}", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/v1/skills/{name}", "200"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("gauge after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("gauge after dec = %v, want %v", got, before)
	}
}

func TestRecordPublishOutcomes(t *testing.T) {
	before := testutil.ToFloat64(PublishTotal.WithLabelValues("conflict"))
	RecordPublish("conflict", 0, 100*time.Millisecond)
	if got := testutil.ToFloat64(PublishTotal.WithLabelValues("conflict")); got != before+1 {
		t.Errorf("conflict counter = %v, want %v", got, before+1)
	}

	// "created" additionally observes the bundle size histogram; just
	// verify it does not panic with a realistic size.
	RecordPublish("created", 2<<20, 250*time.Millisecond)
}

func TestRecordDownload(t *testing.T) {
	before := testutil.ToFloat64(DownloadsTotal)
	RecordDownload()
	if got := testutil.ToFloat64(DownloadsTotal); got != before+1 {
		t.Errorf("downloads = %v, want %v", got, before+1)
	}
}

func TestRecordDBQuery(t *testing.T) {
	errBefore := testutil.ToFloat64(DBQueryErrors.WithLabelValues("search_skills"))
	RecordDBQuery("search_skills", 5*time.Millisecond, nil)
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("search_skills")); got != errBefore {
		t.Errorf("error counter moved on success: %v", got)
	}
	RecordDBQuery("search_skills", 5*time.Millisecond, errors.New("connection refused"))
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("search_skills")); got != errBefore+1 {
		t.Errorf("error counter = %v, want %v", got, errBefore+1)
	}
}

func TestRecordStorageOperation(t *testing.T) {
	okBefore := testutil.ToFloat64(StorageOperations.WithLabelValues("put", "ok"))
	errBefore := testutil.ToFloat64(StorageOperations.WithLabelValues("put", "error"))

	RecordStorageOperation("put", nil)
	RecordStorageOperation("put", errors.New("timeout"))

	if got := testutil.ToFloat64(StorageOperations.WithLabelValues("put", "ok")); got != okBefore+1 {
		t.Errorf("ok counter = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(StorageOperations.WithLabelValues("put", "error")); got != errBefore+1 {
		t.Errorf("error counter = %v, want %v", got, errBefore+1)
	}
}
