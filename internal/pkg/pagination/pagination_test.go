package pagination

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		page, size string
		want       Query
	}{
		{page: "", size: "", want: Query{Page: 1, Size: DefaultSize}},
		{page: "3", size: "20", want: Query{Page: 3, Size: 20}},
		{page: "-1", size: "0", want: Query{Page: 1, Size: DefaultSize}},
		{page: "2", size: "1000", want: Query{Page: 2, Size: MaxSize}},
		{page: "x", size: "y", want: Query{Page: 1, Size: DefaultSize}},
	}
	for _, tt := range tests {
		if got := Parse(tt.page, tt.size); got != tt.want {
			t.Errorf("Parse(%q, %q) = %+v, want %+v", tt.page, tt.size, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := (Query{Page: 3, Size: 15}).Offset(); got != 30 {
		t.Fatalf("Offset() = %d, want 30", got)
	}
	if got := (Query{}).Offset(); got != 0 {
		t.Fatalf("zero query Offset() = %d, want 0", got)
	}
}
