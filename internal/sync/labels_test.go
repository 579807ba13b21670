package sync

import (
	"context"
	"errors"
	"testing"
)

func TestLabelNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{StatusLabel("to-do"), "status:to-do"},
		{StatusLabel("in-progress"), "status:in-progress"},
		{PriorityLabel("urgent"), "priority:urgent"},
		{PriorityLabel(""), "priority:low"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRemoveLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want OutcomeKind
	}{
		{name: "removed", want: OutcomeOK},
		{name: "absent", err: notFound(), want: OutcomeLabelAbsent},
		{name: "server error", err: serverError(), want: OutcomeCleanupFailed},
		{name: "transport error", err: errors.New("connection reset"), want: OutcomeCleanupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{removeErr: tt.err}
			o := RemoveLabel(context.Background(), client, "acme", "widgets", 3, "status:to-do")
			if o.Kind != tt.want {
				t.Fatalf("got %s, want %s", o.Kind, tt.want)
			}
			if o.Surfaced() {
				t.Fatal("label removal must never be surfaced")
			}
		})
	}
}

func TestAddLabelsReturnsFailure(t *testing.T) {
	client := &fakeClient{addErr: serverError()}
	err := AddLabels(context.Background(), client, "acme", "widgets", 3, []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error")
	}
	assertCalls(t, client, "labels 3 a,b")
}

func TestReportErr(t *testing.T) {
	rep := newReport(EventStatusChanged, "task-1")
	rep.Outcomes = []Outcome{
		{Step: "remove label status:to-do", Kind: OutcomeCleanupFailed, Err: errors.New("cleanup")},
		{Step: "add label status:done", Kind: OutcomeOK},
	}
	if err := rep.Err(); err != nil {
		t.Fatalf("cleanup failures must not surface: %v", err)
	}

	addErr := errors.New("add")
	rep.Outcomes = append(rep.Outcomes, Outcome{Step: "set issue closed", Kind: OutcomeRemoteFailed, Err: addErr})
	if err := rep.Err(); !errors.Is(err, addErr) {
		t.Fatalf("expected wrapped remote error, got %v", err)
	}

	want := []string{"remove label status:to-do", "add label status:done", "set issue closed"}
	steps := rep.Steps()
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("step %d: got %q, want %q", i, steps[i], want[i])
		}
	}
}
