package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name      string
		in        Params
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", in: Params{}, wantPage: 1, wantLimit: DefaultLimit},
		{name: "negative page", in: Params{Page: -3, Limit: 10}, wantPage: 1, wantLimit: 10},
		{name: "limit capped", in: Params{Page: 2, Limit: 500}, wantPage: 2, wantLimit: MaxLimit},
		{name: "passthrough", in: Params{Page: 4, Limit: 50}, wantPage: 4, wantLimit: 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", got.Page, got.Limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 20}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for zero params, got %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 25)
	if meta.Total != 25 || meta.Page != 2 || meta.Limit != 10 || meta.Pages != 3 {
		t.Fatalf("unexpected meta %+v", meta)
	}

	empty := NewMeta(Params{}, 0)
	if empty.Pages != 1 {
		t.Fatalf("expected at least one page, got %d", empty.Pages)
	}

	exact := NewMeta(Params{Page: 1, Limit: 5}, 10)
	if exact.Pages != 2 {
		t.Fatalf("expected 2 pages for exact division, got %d", exact.Pages)
	}
}
