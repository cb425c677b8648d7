package main

import (
	"testing"
)

func TestStopFlushesQueuedEvents(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)

	a.Track(EvtSessionStart, 1, "sess", "")
	a.Track(EvtBasketScored, 1, "sess", "")
	a.Track(EvtSessionEnd, 1, "sess", "")
	a.Stop()

	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatalf("event counts: %v", err)
	}
	for _, evt := range []string{EvtSessionStart, EvtBasketScored, EvtSessionEnd} {
		if counts[evt] != 1 {
			t.Errorf("%s: got %d events, want 1", evt, counts[evt])
		}
	}
}

func TestTrackAfterStopIsNoOp(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)
	a.Stop()

	// Clients detaching during shutdown still track; this must not panic
	// and must not record anything.
	a.Track(EvtSessionEnd, 1, "sess", "")

	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatalf("event counts: %v", err)
	}
	if counts[EvtSessionEnd] != 0 {
		t.Errorf("event recorded after stop: %d", counts[EvtSessionEnd])
	}
}

func TestTrackAfterStopWithoutDB(t *testing.T) {
	a := NewAnalytics(nil)
	a.Stop()
	a.Track(EvtSessionEnd, 0, "", "")
}

func TestStopTwiceSafe(t *testing.T) {
	a := NewAnalytics(nil)
	a.Stop()
	a.Stop()
}

func TestTrackDropsWhenFull(t *testing.T) {
	a := &Analytics{
		events: make(chan AnalyticsEvent, 1),
		stop:   make(chan struct{}),
	}
	a.Track(EvtBasketScored, 1, "sess", "")
	a.Track(EvtBasketScored, 1, "sess", "") // buffer full, silently dropped
	if len(a.events) != 1 {
		t.Errorf("expected 1 buffered event, got %d", len(a.events))
	}
}
