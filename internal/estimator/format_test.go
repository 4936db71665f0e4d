package estimator

import "testing"

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "$0"},
		{79, "$79"},
		{1498, "$1,498"},
		{1234567, "$1,234,567"},
		{-298, "-$298"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.amount); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	if got := Render(View{}); got != "" {
		t.Errorf("invisible view must render nothing, got %q", got)
	}

	e := New(testCatalog())
	token, _ := e.Update(Selection{Services: []string{"ceramic-coating", "paint-correction"}, Package: "sport"})
	token, _ = e.Tick(token, 0)

	mid := Render(e.View())
	want := "Estimated total: $0 ▲\nPackage: Sport Protection\nYou save $298 vs. $1,498 à la carte"
	if mid != want {
		t.Errorf("unexpected first frame:\n%s\nwant:\n%s", mid, want)
	}

	e.Tick(token, DefaultDuration)
	want = "Estimated total: $1,200\nPackage: Sport Protection\nYou save $298 vs. $1,498 à la carte"
	if got := Render(e.View()); got != want {
		t.Errorf("unexpected final frame:\n%s\nwant:\n%s", got, want)
	}
}
