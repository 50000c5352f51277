package shared

import "testing"

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{-3, -1, 1, 20},
		{2, 50, 2, 50},
		{1, 500, 1, 100},
	}
	for _, tc := range cases {
		page, size := NormalizePagination(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("normalize(%d, %d) want (%d, %d) got (%d, %d)",
				tc.page, tc.size, tc.wantPage, tc.wantSize, page, size)
		}
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 20); got != 0 {
		t.Fatalf("empty total want 0 pages got %d", got)
	}
	if got := TotalPages(25, 10); got != 3 {
		t.Fatalf("25/10 want 3 pages got %d", got)
	}
	if got := TotalPages(20, 10); got != 2 {
		t.Fatalf("20/10 want 2 pages got %d", got)
	}
}
