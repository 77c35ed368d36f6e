package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte(`{"items":[],"total":0}`)
	if err := s.Put(ctx, "snapshots/tenants-20260314.json", data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "snapshots/tenants-20260314.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round trip mismatch: %q", got)
	}

	keys, err := s.List(ctx, "snapshots")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("List returned %d keys, want 1", len(keys))
	}
}

func TestLocalStoreListMissingPrefix(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	keys, err := s.List(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("List on missing prefix errored: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

func TestS3TargetParsing(t *testing.T) {
	tests := []struct {
		target string
		isS3   bool
		bucket string
		prefix string
	}{
		{"s3://snapshots/prod", true, "snapshots", "prod"},
		{"s3://snapshots", true, "snapshots", ""},
		{"s3://snapshots/deep/nested/prefix", true, "snapshots", "deep/nested/prefix"},
		{"./planedeck-out", false, "", ""},
		{"/var/tmp/out", false, "", ""},
	}

	for _, tt := range tests {
		if got := IsS3Target(tt.target); got != tt.isS3 {
			t.Errorf("IsS3Target(%q) = %v", tt.target, got)
		}
		if !tt.isS3 {
			continue
		}
		bucket, prefix := SplitS3Target(tt.target)
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("SplitS3Target(%q) = (%q, %q), want (%q, %q)", tt.target, bucket, prefix, tt.bucket, tt.prefix)
		}
	}
}
