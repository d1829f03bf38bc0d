package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"#", "Player", "Score"}
	rows := [][]string{
		{"1", "ABC", "1200"},
		{"10", "Z", "35"},
	}
	rightAlign := map[int]bool{0: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != " #  Player  Score" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != " 1  ABC      1200" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "10  Z          35" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableUsesCellWidth(t *testing.T) {
	lines := formatTable([]string{"Word", "N"}, [][]string{{"東京", "1"}, {"oslo", "2"}}, nil)
	if lines[1] != "東京  1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "oslo  2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
