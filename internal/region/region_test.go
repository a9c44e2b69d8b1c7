// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package region

import "testing"

func TestEncodeDecodeRLERoundTrip(t *testing.T) {
	blocks := []int{0, 0, 0, 1, 2, 2, 0}
	runs := EncodeRLE(blocks)
	decoded, err := DecodeRLE(runs, len(blocks))
	if err != nil {
		t.Fatalf("DecodeRLE: %v", err)
	}
	for i := range blocks {
		if decoded[i] != blocks[i] {
			t.Fatalf("index %d: got %d, want %d", i, decoded[i], blocks[i])
		}
	}
}

func TestEncodeRLEUsesBareIndexForSingletons(t *testing.T) {
	runs := EncodeRLE([]int{5})
	if len(runs) != 1 || runs[0].Count != 0 {
		t.Fatalf("expected a bare singleton run, got %+v", runs)
	}
}

func TestEncodeRLECollapsesRuns(t *testing.T) {
	runs := EncodeRLE([]int{7, 7, 7, 7})
	if len(runs) != 1 || runs[0].Count != 4 {
		t.Fatalf("expected one run of 4, got %+v", runs)
	}
}

func TestDecodeRLERejectsLengthMismatch(t *testing.T) {
	_, err := DecodeRLE([]RunElement{{Index: 0, Count: 3}}, 5)
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestSnapshotIndexOrderYOutermost(t *testing.T) {
	s := &Snapshot{SizeX: 2, SizeY: 2, SizeZ: 2}
	if s.Index(0, 0, 0) != 0 {
		t.Fatalf("origin index = %d, want 0", s.Index(0, 0, 0))
	}
	if s.Index(0, 1, 0) != 4 {
		t.Fatalf("y=1 index = %d, want 4 (y outermost)", s.Index(0, 1, 0))
	}
	if s.Index(0, 0, 1) != 2 {
		t.Fatalf("z=1 index = %d, want 2", s.Index(0, 0, 1))
	}
	if s.Index(1, 0, 0) != 1 {
		t.Fatalf("x=1 index = %d, want 1", s.Index(1, 0, 0))
	}
}

func TestHistogramCountsPaletteOccurrences(t *testing.T) {
	s := &Snapshot{Palette: []string{"minecraft:air", "minecraft:stone"}, Blocks: []int{0, 1, 1, 0, 1}}
	hist := s.Histogram()
	if hist["minecraft:stone"] != 3 || hist["minecraft:air"] != 2 {
		t.Fatalf("unexpected histogram: %+v", hist)
	}
}

func TestCardinalFromYaw(t *testing.T) {
	cases := map[float64]string{
		0:   "south",
		90:  "west",
		180: "north",
		270: "east",
		359: "south",
	}
	for yaw, want := range cases {
		if got := CardinalFromYaw(yaw); got != want {
			t.Fatalf("yaw %v: got %s, want %s", yaw, got, want)
		}
	}
}
