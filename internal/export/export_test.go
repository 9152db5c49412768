package export

import (
	"bytes"
	"strings"
	"testing"

	"doitlist/internal/persist"
	"doitlist/internal/task"
)

var sample = task.List{{Text: "buy milk", Completed: true}, {Text: "walk, dog"}}

func TestWrite_JSONMatchesStorageFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample, "json"); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := persist.Decode(buf.String())
	if err != nil {
		t.Fatalf("exported json is not a valid snapshot: %v", err)
	}
	if len(got) != 2 || got[0] != sample[0] || got[1] != sample[1] {
		t.Errorf("expected %+v, got %+v", sample, got)
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample, "CSV"); err != nil {
		t.Fatalf("write: %v", err)
	}

	expected := "index,text,completed\n1,buy milk,true\n2,\"walk, dog\",false\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestWrite_PDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample, "pdf"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Errorf("expected PDF header, got %q", buf.String()[:min(16, buf.Len())])
	}
}

func TestWrite_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, "json"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sample, "xml")
	if err == nil || err.Error() != "unknown format: xml" {
		t.Errorf("expected unknown format error, got %v", err)
	}
}
