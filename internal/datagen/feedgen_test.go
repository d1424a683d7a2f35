package datagen

import (
	"bytes"
	"testing"

	"github.com/joepete1953/retailreport/internal/etl"
)

func TestFeedGeneratorRoundTrip(t *testing.T) {
	gen := NewFeedGenerator(FeedSpec{Rows: 200, Seed: 42, DirtyRatio: 0.2})

	var buf bytes.Buffer
	if err := gen.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := etl.ReadFeed(&buf)
	if err != nil {
		t.Fatalf("Generated feed did not parse: %v", err)
	}
	if len(rows) != 200 {
		t.Fatalf("Expected 200 rows, got %d", len(rows))
	}

	snap, err := etl.BuildSnapshot(rows)
	if err != nil {
		t.Fatalf("Generated feed did not extract: %v", err)
	}

	if len(snap.Regions) == 0 || len(snap.Countries) == 0 {
		t.Error("Expected regions and countries in generated feed")
	}
	if len(snap.Products) == 0 || len(snap.Orders) == 0 {
		t.Error("Expected products and orders in generated feed")
	}
	// Bounded pools mean heavy deduplication
	if len(snap.Regions) > len(regionNames) {
		t.Errorf("Expected at most %d regions, got %d", len(regionNames), len(snap.Regions))
	}

	// Every staged country must reconcile to a staged region
	regions := make(map[string]bool)
	for _, r := range snap.Regions {
		regions[r.Region] = true
	}
	for _, c := range snap.Countries {
		if !regions[c.Region] {
			t.Errorf("Country %q references unknown region %q", c.Country, c.Region)
		}
	}
}

func TestFeedGeneratorDeterministic(t *testing.T) {
	var a, b bytes.Buffer

	if err := NewFeedGenerator(FeedSpec{Rows: 50, Seed: 7, DirtyRatio: 0.3}).Write(&a); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := NewFeedGenerator(FeedSpec{Rows: 50, Seed: 7, DirtyRatio: 0.3}).Write(&b); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("Same seed produced different feeds")
	}
}

func TestFeedGeneratorAllDirtyStillLoads(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFeedGenerator(FeedSpec{Rows: 100, Seed: 3, DirtyRatio: 1}).Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := etl.ReadFeed(&buf)
	if err != nil {
		t.Fatalf("Dirty feed did not parse: %v", err)
	}
	if _, err := etl.BuildSnapshot(rows); err != nil {
		t.Fatalf("Dirty feed did not extract: %v", err)
	}
}
