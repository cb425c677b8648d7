package main

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Stop()

	sess := sm.CreateSession("Test Run", LevelCatalog[0])
	if sess == nil {
		t.Fatal("session creation failed")
	}
	if sm.GetSession(sess.ID) != sess {
		t.Error("lookup by ID failed")
	}

	list := sm.ListSessions()
	if len(list) != 1 || list[0].Name != "Test Run" {
		t.Errorf("unexpected session list: %+v", list)
	}
	if list[0].Level != LevelCatalog[0].Name {
		t.Errorf("expected level name %q, got %q", LevelCatalog[0].Name, list[0].Level)
	}
}

func TestSessionCollectedWhenEmpty(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Stop()

	sess := sm.CreateSession("Test Run", LevelCatalog[0])
	mock := &mockBroadcaster{}
	sess.Game.AddClient("c1", mock)

	sm.RemoveClient(sess.ID, "c1")
	if sm.GetSession(sess.ID) != nil {
		t.Error("empty session should be collected immediately")
	}
}

func TestSessionLimit(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Stop()

	for i := 0; i < maxSessions; i++ {
		if sm.CreateSession("s", LevelCatalog[0]) == nil {
			t.Fatalf("creation %d failed below the limit", i)
		}
	}
	if sm.CreateSession("overflow", LevelCatalog[0]) != nil {
		t.Error("creation above the limit should fail")
	}
}

func TestMarkActiveRefreshesIdleTimer(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Stop()

	sess := sm.CreateSession("Test Run", LevelCatalog[0])
	before := sess.idleSince()
	time.Sleep(5 * time.Millisecond)
	sm.MarkActive(sess.ID)
	if !sess.idleSince().After(before) {
		t.Error("MarkActive should refresh the idle timestamp")
	}
}
