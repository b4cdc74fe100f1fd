package model

import "testing"

func TestBadges(t *testing.T) {
	u := &User{}
	if u.HasBadge(BadgeBronze) {
		t.Fatalf("empty badge list reported a badge")
	}

	u.AddBadge(BadgeBronze)
	u.AddBadge(BadgeSilver)
	u.AddBadge(BadgeBronze)
	if u.Badges != BadgeBronze+","+BadgeSilver {
		t.Fatalf("unexpected badge list: %q", u.Badges)
	}
	if !u.HasBadge(BadgeBronze) || !u.HasBadge(BadgeSilver) {
		t.Fatalf("expected both badges present, got %q", u.Badges)
	}
	if u.HasBadge(BadgeGold) {
		t.Fatalf("unexpected gold badge")
	}
	// Substring of an existing badge must not match.
	if u.HasBadge("BRONZ") {
		t.Fatalf("substring matched as a badge")
	}
}

func TestPriceFor(t *testing.T) {
	item := &MenuItem{Prices: []MenuPrice{
		{Label: "half", Value: 60},
		{Label: "full", Value: 110},
	}}

	p, ok := item.PriceFor("full")
	if !ok || p.Value != 110 {
		t.Fatalf("expected full price 110, got %+v ok=%v", p, ok)
	}
	if _, ok := item.PriceFor("gigantic"); ok {
		t.Fatalf("unexpected match for unknown size")
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled} {
		if !ValidOrderStatus(s) {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	for _, s := range []string{"", "pending", "DONE"} {
		if ValidOrderStatus(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
