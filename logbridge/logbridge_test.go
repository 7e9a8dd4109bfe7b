package logbridge

import "testing"

func TestNewSessionIDIsUnique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	if a == b {
		t.Fatalf("expected distinct session ids, got %s twice", a)
	}
	if a == "" {
		t.Fatalf("expected a non-empty session id")
	}
}

func TestLoggerMethodsDoNotPanic(t *testing.T) {
	l := New("simkernel", NewSessionID())
	l.Info("started")
	l.Warn("slow tick", "step", 42)
	l.Error("dispatch failed")
	l.Trace("entering phase", "phase", "read-write")
	l.Waveform("clk", "1", 7)
}

func TestTableDoesNotPanic(t *testing.T) {
	Table("registers", []string{"name", "value"}, [][]string{
		{"$0", "0"},
		{"$1", "1"},
	})
}
