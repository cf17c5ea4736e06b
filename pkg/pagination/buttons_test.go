// Copyright 2024-2026 Aiku AI

package pagination

import "testing"

func TestDefaultButtonsOrder(t *testing.T) {
	t.Parallel()
	buttons := DefaultButtons()
	want := []struct {
		name    string
		trigger string
	}{
		{"first", TriggerFirst},
		{"back", TriggerBack},
		{"forward", TriggerForward},
		{"last", TriggerLast},
		{"stop", TriggerStop},
	}
	if len(buttons) != len(want) {
		t.Fatalf("DefaultButtons: got %d buttons, want %d", len(buttons), len(want))
	}
	for i, w := range want {
		if buttons[i].Name != w.name {
			t.Errorf("button %d name: got %q, want %q", i, buttons[i].Name, w.name)
		}
		if buttons[i].Trigger != w.trigger {
			t.Errorf("button %d trigger: got %q, want %q", i, buttons[i].Trigger, w.trigger)
		}
		if buttons[i].Press == nil {
			t.Errorf("button %d has no press effect", i)
		}
	}
}

func TestOwnerPredicate(t *testing.T) {
	t.Parallel()
	nav := &Navigator{invoker: "owner", botOwner: "admin"}

	cases := []struct {
		userID string
		want   bool
	}{
		{"owner", true},
		{"admin", true},
		{"stranger", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := OwnerPredicate(tc.userID, nav); got != tc.want {
			t.Errorf("OwnerPredicate(%q): got %v, want %v", tc.userID, got, tc.want)
		}
	}
}

func TestOwnerPredicateNoBotOwner(t *testing.T) {
	t.Parallel()
	nav := &Navigator{invoker: "owner"}
	if OwnerPredicate("", nav) {
		t.Error("empty user must not match an unset bot owner")
	}
	if !OwnerPredicate("owner", nav) {
		t.Error("invoker must always pass")
	}
}
