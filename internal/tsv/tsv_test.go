package tsv

import (
	"bytes"
	"strings"
	"testing"
)

const sample = "file_path\ttarget\tprediction\n" +
	"audio/a.pcm\tthe cat sat\ta cat sat\n" +
	"audio/b.pcm\tgood morning\tgood morning sir\n"

func TestReadAndPairs(t *testing.T) {
	table, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	pairs, err := table.Pairs("prediction")
	if err != nil {
		t.Fatalf("pairs: %v", err)
	}
	if pairs[0].ID != "audio/a.pcm" || pairs[0].Target != "the cat sat" || pairs[0].Hypothesis != "a cat sat" {
		t.Fatalf("unexpected first pair: %+v", pairs[0])
	}
}

func TestCustomHypothesisColumn(t *testing.T) {
	data := "file_path\ttarget\twhisper_v3\naudio/a.pcm\thello\thallo\n"
	table, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	pairs, err := table.Pairs("whisper_v3")
	if err != nil {
		t.Fatalf("pairs: %v", err)
	}
	if pairs[0].Hypothesis != "hallo" {
		t.Fatalf("unexpected hypothesis: %+v", pairs[0])
	}
}

func TestMissingColumn(t *testing.T) {
	table, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := table.Pairs("no_such_column"); err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestShortRow(t *testing.T) {
	data := "file_path\ttarget\tprediction\naudio/a.pcm\tonly-two\n"
	table, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := table.Pairs("prediction"); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"file_path", "target", "prediction"}
	rows := [][]string{{"a.pcm", "one two", "one too"}}
	if err := Write(&buf, header, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := Read(&buf)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if table.Rows[0][2] != "one too" {
		t.Fatalf("unexpected row after round trip: %v", table.Rows[0])
	}
}
