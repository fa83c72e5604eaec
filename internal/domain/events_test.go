package domain

import (
	"testing"
	"time"
)

var baseExpiration = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCanonicalEventClasses(t *testing.T) {
	cases := []struct {
		eventType string
		class     string
	}{
		{EventEscrowTransferCreated, "domain"},
		{EventEscrowDisputed, "domain"},
		{EventEscrowFullyReleased, "domain"},
		{EventEscrowPartialRelease, "analytics_only"},
	}
	for _, tc := range cases {
		if !IsCanonicalEmittedEvent(tc.eventType) {
			t.Fatalf("%s must be a canonical event", tc.eventType)
		}
		if got := CanonicalEventClass(tc.eventType); got != tc.class {
			t.Fatalf("%s class: got %s, want %s", tc.eventType, got, tc.class)
		}
		if got := CanonicalPartitionKeyPath(tc.eventType); got != "data.object_id" {
			t.Fatalf("%s partition key path: got %s", tc.eventType, got)
		}
	}

	if IsCanonicalEmittedEvent("escrow.unknown") {
		t.Fatal("unknown event type must not be canonical")
	}
}

func TestHashAlgorithmString(t *testing.T) {
	cases := map[HashAlgorithm]string{
		HashUnknown:         "unknown",
		HashRIPEMD160:       "ripemd160",
		HashSHA256:          "sha256",
		HashSHA1:            "sha1",
		HashAlgorithm(0x7f): "unknown",
	}
	for alg, want := range cases {
		if got := alg.String(); got != want {
			t.Fatalf("HashAlgorithm(%d).String(): got %s, want %s", alg, got, want)
		}
	}
}
