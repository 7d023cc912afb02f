package paging

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// row stands in for a title-sorted list row (trainings, documents).
type row struct {
	TitleCI string
	ID      primitive.ObjectID
}

func TestLimitPlusOne(t *testing.T) {
	if got := LimitPlusOne(); got != int64(PageSize+1) {
		t.Errorf("LimitPlusOne() = %d, want %d", got, PageSize+1)
	}
}

func TestTrimPage(t *testing.T) {
	tests := []struct {
		name       string
		rows       []int
		before     string
		after      string
		wantLen    int
		wantResult Result
	}{
		{
			name:       "first page with no look-ahead row",
			rows:       []int{1, 2, 3},
			wantLen:    3,
			wantResult: Result{HasPrev: false, HasNext: false},
		},
		{
			name:       "first page over-full",
			rows:       make([]int, PageSize+1),
			wantLen:    PageSize,
			wantResult: Result{HasPrev: false, HasNext: true},
		},
		{
			name:       "forward page over-full",
			rows:       make([]int, PageSize+1),
			after:      "cursor123",
			wantLen:    PageSize,
			wantResult: Result{HasPrev: true, HasNext: true},
		},
		{
			name:       "forward page short (last page)",
			rows:       []int{1, 2, 3},
			after:      "cursor123",
			wantLen:    3,
			wantResult: Result{HasPrev: true, HasNext: false},
		},
		{
			name:       "backward page over-full",
			rows:       make([]int, PageSize+1),
			before:     "cursor123",
			wantLen:    PageSize,
			wantResult: Result{HasPrev: true, HasNext: true},
		},
		{
			name:       "backward page short (back at the first page)",
			rows:       []int{1, 2, 3},
			before:     "cursor123",
			wantLen:    3,
			wantResult: Result{HasPrev: false, HasNext: true},
		},
		{
			name:       "empty list",
			rows:       []int{},
			wantLen:    0,
			wantResult: Result{HasPrev: false, HasNext: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]int, len(tt.rows))
			copy(rows, tt.rows)

			got := TrimPage(&rows, tt.before, tt.after)

			if len(rows) != tt.wantLen {
				t.Errorf("TrimPage() rows len = %d, want %d", len(rows), tt.wantLen)
			}
			if got != tt.wantResult {
				t.Errorf("TrimPage() = %+v, want %+v", got, tt.wantResult)
			}
		})
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name  string
		start int
		shown int
		want  Range
	}{
		{"no results", 1, 0, Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1}},
		{"first page full", 1, PageSize, Range{Start: 1, End: PageSize, PrevStart: 1, NextStart: PageSize + 1}},
		{"first page partial", 1, 10, Range{Start: 1, End: 10, PrevStart: 1, NextStart: 11}},
		{"second page", PageSize + 1, PageSize, Range{Start: PageSize + 1, End: PageSize * 2, PrevStart: 1, NextStart: PageSize*2 + 1}},
		{"middle page", 101, 50, Range{Start: 101, End: 150, PrevStart: 51, NextStart: 151}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRange(tt.start, tt.shown)
			if got != tt.want {
				t.Errorf("ComputeRange(%d, %d) = %+v, want %+v", tt.start, tt.shown, got, tt.want)
			}
		})
	}
}

func TestConfigureKeyset(t *testing.T) {
	tests := []struct {
		name      string
		before    string
		after     string
		wantDir   Direction
		wantOrder int
	}{
		{"no cursors (first page)", "", "", Forward, 1},
		{"after cursor pages forward", "", "somecursor", Forward, 1},
		{"before cursor pages backward", "somecursor", "", Backward, -1},
		{"before wins when both are present", "beforecursor", "aftercursor", Backward, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigureKeyset(tt.before, tt.after)
			if got.Direction != tt.wantDir {
				t.Errorf("ConfigureKeyset() Direction = %v, want %v", got.Direction, tt.wantDir)
			}
			if got.SortOrder != tt.wantOrder {
				t.Errorf("ConfigureKeyset() SortOrder = %v, want %v", got.SortOrder, tt.wantOrder)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  []int
	}{
		{"empty", []int{}, []int{}},
		{"single", []int{1}, []int{1}},
		{"even length", []int{1, 2, 3, 4}, []int{4, 3, 2, 1}},
		{"odd length", []int{1, 2, 3}, []int{3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]int, len(tt.input))
			copy(rows, tt.input)
			Reverse(rows)
			for i, v := range rows {
				if v != tt.want[i] {
					t.Errorf("Reverse() got %v, want %v", rows, tt.want)
					break
				}
			}
		})
	}
}

func TestBuildCursors(t *testing.T) {
	keyFn := func(r row) string { return r.TitleCI }
	idFn := func(r row) primitive.ObjectID { return r.ID }

	t.Run("empty list", func(t *testing.T) {
		prev, next := BuildCursors([]row{}, keyFn, idFn)
		if prev != "" || next != "" {
			t.Errorf("BuildCursors(empty) = (%q, %q), want empty cursors", prev, next)
		}
	})

	t.Run("single row shares both cursors", func(t *testing.T) {
		rows := []row{{TitleCI: "fire safety", ID: primitive.NewObjectID()}}
		prev, next := BuildCursors(rows, keyFn, idFn)
		if prev == "" || next == "" {
			t.Fatal("BuildCursors(single) returned an empty cursor")
		}
		if prev != next {
			t.Errorf("BuildCursors(single) prev %q != next %q", prev, next)
		}
	})

	t.Run("multiple rows", func(t *testing.T) {
		rows := []row{
			{TitleCI: "food handling", ID: primitive.NewObjectID()},
			{TitleCI: "pool maintenance", ID: primitive.NewObjectID()},
		}
		prev, next := BuildCursors(rows, keyFn, idFn)
		if prev == "" || next == "" {
			t.Fatal("BuildCursors(multiple) returned an empty cursor")
		}
		if prev == next {
			t.Error("BuildCursors(multiple) prev and next should differ")
		}
	})
}
