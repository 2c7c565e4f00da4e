package layout

import (
	"reflect"
	"strings"
	"testing"
)

func TestComputeEmptyBuffer(t *testing.T) {
	res := Compute(nil, 40, 40)
	if len(res.Units) != 0 {
		t.Fatalf("units = %d, want 0", len(res.Units))
	}
	if len(res.Slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(res.Slots))
	}
	if res.Slots[0] != (Slot{}) {
		t.Fatalf("slot 0 = %+v, want (0,0)", res.Slots[0])
	}
	if res.TotalPages != 1 {
		t.Fatalf("pages = %d, want 1", res.TotalPages)
	}
}

func TestComputeNewlineScenario(t *testing.T) {
	res := Compute([]rune("A\nB"), 3, 3)
	if len(res.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(res.Units))
	}
	if res.Units[0].GCol != 0 || res.Units[0].Row != 0 {
		t.Fatalf("unit A at (%d,%d), want (0,0)", res.Units[0].GCol, res.Units[0].Row)
	}
	if res.Units[1].GCol != 1 || res.Units[1].Row != 0 {
		t.Fatalf("unit B at (%d,%d), want (1,0)", res.Units[1].GCol, res.Units[1].Row)
	}
	wantSlots := []Slot{{0, 0}, {1, 0}, {1, 0}, {1, 1}}
	if !reflect.DeepEqual(res.Slots, wantSlots) {
		t.Fatalf("slots = %+v, want %+v", res.Slots, wantSlots)
	}
}

func TestComputeColumnWrap(t *testing.T) {
	res := Compute([]rune("abcd"), 3, 3)
	want := []Slot{{0, 0}, {0, 1}, {0, 2}, {1, 0}}
	for i, u := range res.Units {
		if u.GCol != want[i].GCol || u.Row != want[i].Row {
			t.Fatalf("unit %d at (%d,%d), want (%d,%d)", i, u.GCol, u.Row, want[i].GCol, want[i].Row)
		}
	}
	if res.Slots[4] != (Slot{1, 1}) {
		t.Fatalf("end slot = %+v, want (1,1)", res.Slots[4])
	}
}

func TestLineEndProhibitionForcesWrap(t *testing.T) {
	// Opening bracket landing on the last row wraps to the next column.
	res := Compute([]rune("abc「d"), 4, 10)
	bracket := res.Units[3]
	if bracket.Text != "「" {
		t.Fatalf("unit 3 text = %q, want 「", bracket.Text)
	}
	if bracket.GCol != 1 || bracket.Row != 0 {
		t.Fatalf("bracket at (%d,%d), want (1,0)", bracket.GCol, bracket.Row)
	}
	next := res.Units[4]
	if next.GCol != 1 || next.Row != 1 {
		t.Fatalf("d at (%d,%d), want (1,1)", next.GCol, next.Row)
	}
}

func TestLineHeadProhibitionPullsBack(t *testing.T) {
	// Closing punctuation never opens a column: the previous unit moves
	// down to row 0 of the new column and the punctuation takes row 1.
	res := Compute([]rune("abcd。"), 4, 10)
	d := res.Units[3]
	if d.Text != "d" || d.GCol != 1 || d.Row != 0 {
		t.Fatalf("d = %q at (%d,%d), want d at (1,0)", d.Text, d.GCol, d.Row)
	}
	punct := res.Units[4]
	if punct.Text != "。" || punct.GCol != 1 || punct.Row != 1 {
		t.Fatalf("punct = %q at (%d,%d), want 。 at (1,1)", punct.Text, punct.GCol, punct.Row)
	}
}

func TestLineHeadProhibitionNeedsAdjacentPrev(t *testing.T) {
	// A newline right before the closing punctuation leaves no unit at
	// the end of the previous column, so no pull-back happens.
	res := Compute([]rune("a\n。"), 4, 10)
	punct := res.Units[len(res.Units)-1]
	if punct.GCol != 1 || punct.Row != 0 {
		t.Fatalf("punct at (%d,%d), want (1,0)", punct.GCol, punct.Row)
	}
}

func TestTCYInteriorSlot(t *testing.T) {
	res := Compute([]rune("あ12い"), 40, 40)
	if len(res.Slots) != 5 {
		t.Fatalf("slots = %d, want 5", len(res.Slots))
	}
	if res.Slots[1] != res.Slots[2] {
		t.Fatalf("interior slot %+v != start slot %+v", res.Slots[2], res.Slots[1])
	}
	if res.Slots[3] == res.Slots[2] {
		t.Fatalf("end slot should advance past the TCY cell")
	}
}

func TestComputePagination(t *testing.T) {
	// Nine newlines produce gcol 9, landing the cursor on page 2 of a
	// cols=8 grid.
	res := Compute([]rune(strings.Repeat("\n", 9)), 8, 8)
	if res.TotalPages != 2 {
		t.Fatalf("pages = %d, want 2", res.TotalPages)
	}
}

func TestComputeInvariants(t *testing.T) {
	texts := []string{
		"",
		"縦書きの原稿、12枚。\n「改行」と345の数字！",
		strings.Repeat("字", 100),
		"\n\n\n",
	}
	grids := [][2]int{{8, 8}, {40, 40}, {3, 3}}
	for _, text := range texts {
		for _, g := range grids {
			rs := []rune(text)
			res := Compute(rs, g[0], g[1])
			if len(res.Slots) != len(rs)+1 {
				t.Fatalf("%q %v: slots = %d, want %d", text, g, len(res.Slots), len(rs)+1)
			}
			for i, u := range res.Units {
				if u.Row < 0 || u.Row >= g[0] {
					t.Fatalf("%q %v: unit %d row = %d out of range", text, g, i, u.Row)
				}
				if u.GCol < 0 {
					t.Fatalf("%q %v: unit %d gcol = %d", text, g, i, u.GCol)
				}
			}
			if res.TotalPages < 1 {
				t.Fatalf("%q %v: pages = %d", text, g, res.TotalPages)
			}
		}
	}
}

func TestComputeIsPure(t *testing.T) {
	text := []rune("純粋12関数\nです。")
	a := Compute(text, 10, 10)
	b := Compute(text, 10, 10)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated layout differs:\n%+v\n%+v", a, b)
	}
}

func TestNearestSlotWeighsColumnsOverRows(t *testing.T) {
	// Column 0 holds offsets 0..2, column 1 holds 3..5.
	res := Compute([]rune("abcdef"), 3, 10)
	// Target (0,2): exact hit at offset 2.
	if got := res.NearestSlot(0, 2); got != 2 {
		t.Fatalf("nearest(0,2) = %d, want 2", got)
	}
	// Target (1,2): slot (1,2) belongs to offset 5.
	if got := res.NearestSlot(1, 2); got != 5 {
		t.Fatalf("nearest(1,2) = %d, want 5", got)
	}
	// A full column away always loses to same-column candidates.
	if got := res.NearestSlot(0, 0); got != 0 {
		t.Fatalf("nearest(0,0) = %d, want 0", got)
	}
}

func TestNearestSlotTieLowestOffset(t *testing.T) {
	// "A\nB" at 3x3: offsets 1 and 2 share slot (1,0).
	res := Compute([]rune("A\nB"), 3, 3)
	if got := res.NearestSlot(1, 0); got != 1 {
		t.Fatalf("nearest(1,0) = %d, want 1 (lowest offset wins tie)", got)
	}
}

func TestPageColumnCell(t *testing.T) {
	res := Compute([]rune("abcd"), 3, 3)
	page, column, cell := res.PageColumnCell(3)
	if page != 1 || column != 2 || cell != 1 {
		t.Fatalf("pcc = (%d,%d,%d), want (1,2,1)", page, column, cell)
	}
	// Offsets beyond the table clamp to the final slot.
	page2, column2, cell2 := res.PageColumnCell(99)
	p, c, l := res.PageColumnCell(4)
	if page2 != p || column2 != c || cell2 != l {
		t.Fatalf("clamped pcc = (%d,%d,%d), want (%d,%d,%d)", page2, column2, cell2, p, c, l)
	}
}

func TestClampGrid(t *testing.T) {
	rows, cols := ClampGrid(1, 200)
	if rows != MinGrid || cols != MaxGrid {
		t.Fatalf("clamp = (%d,%d), want (%d,%d)", rows, cols, MinGrid, MaxGrid)
	}
	rows, cols = ClampGrid(40, 40)
	if rows != 40 || cols != 40 {
		t.Fatalf("clamp = (%d,%d), want (40,40)", rows, cols)
	}
}
