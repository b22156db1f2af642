package jobs

import "testing"

func TestValidTransition(t *testing.T) {
	allowed := []struct{ from, next Status }{
		{StatusQuoted, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusCompleted, StatusInvoiced},
		{StatusInvoiced, StatusPaid},
	}
	for _, tc := range allowed {
		if !ValidTransition(tc.from, tc.next) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.next)
		}
	}

	denied := []struct{ from, next Status }{
		{StatusQuoted, StatusCompleted},
		{StatusQuoted, StatusPaid},
		{StatusInProgress, StatusQuoted},
		{StatusPaid, StatusInvoiced},
		{StatusPaid, StatusPaid},
		{StatusCompleted, StatusInProgress},
	}
	for _, tc := range denied {
		if ValidTransition(tc.from, tc.next) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.next)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusQuoted, StatusInProgress, StatusCompleted, StatusInvoiced, StatusPaid} {
		if !ValidStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidStatus("cancelled") {
		t.Error("expected unknown status to be invalid")
	}
}
