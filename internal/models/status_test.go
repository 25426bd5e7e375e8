package models

import "testing"

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"new", "preparing", "ready", "served", "delivered", "cancelled", "rejected"} {
		if _, ok := ParseStatus(raw); !ok {
			t.Errorf("ParseStatus(%q) not recognized", raw)
		}
	}
	for _, raw := range []string{"", "NEW", "pending_approval", "done"} {
		if _, ok := ParseStatus(raw); ok {
			t.Errorf("ParseStatus(%q) unexpectedly recognized", raw)
		}
	}
}

func TestTerminalStatesAdmitNothing(t *testing.T) {
	terminals := []Status{StatusServed, StatusDelivered, StatusCancelled, StatusRejected}
	all := []Status{StatusNew, StatusPreparing, StatusReady, StatusServed, StatusDelivered, StatusCancelled, StatusRejected}

	for _, term := range terminals {
		if !IsTerminal(term) {
			t.Errorf("IsTerminal(%s) = false; want true", term)
		}
		if len(AllowedNext(term)) != 0 {
			t.Errorf("AllowedNext(%s) = %v; want empty", term, AllowedNext(term))
		}
		for _, next := range all {
			if next == term {
				continue
			}
			if CanTransition(term, next) {
				t.Errorf("CanTransition(%s, %s) = true; terminal states must not move", term, next)
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusPreparing, true},
		{StatusNew, StatusCancelled, true},
		{StatusNew, StatusRejected, true},
		{StatusNew, StatusServed, false},
		{StatusPreparing, StatusReady, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusPreparing, StatusRejected, false},
		{StatusReady, StatusServed, true},
		{StatusReady, StatusDelivered, true},
		{StatusReady, StatusNew, false},
		// re-issuing the current state is always an accepted no-op
		{StatusReady, StatusReady, true},
		{StatusServed, StatusServed, true},
	}
	for _, tt := range cases {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v; want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDisplayCodeFormats(t *testing.T) {
	if got := TableCode(7); got != "MASA-7" {
		t.Errorf("TableCode(7) = %s; want MASA-7", got)
	}
	if got := TakeawayCode(3); got != "PKT-003" {
		t.Errorf("TakeawayCode(3) = %s; want PKT-003", got)
	}
	if got := TakeawayCode(1042); got != "PKT-1042" {
		t.Errorf("TakeawayCode(1042) = %s; want PKT-1042", got)
	}
	if got := DeliveryCode(15); got != "ONLNPKT-015" {
		t.Errorf("DeliveryCode(15) = %s; want ONLNPKT-015", got)
	}
}
