package persist_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"doitlist/internal/persist"
	"doitlist/internal/storage/memory"
	"doitlist/internal/task"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	lists := []task.List{
		{},
		{{Text: "x"}},
		{{Text: "buy milk", Completed: true}, {Text: "walk dog"}, {Text: "ünïcødé ✓"}},
	}

	for _, list := range lists {
		kv := memory.New()
		if err := persist.Save(context.Background(), kv, list); err != nil {
			t.Fatalf("save %+v: %v", list, err)
		}
		got, ok, err := persist.Load(context.Background(), kv)
		if err != nil {
			t.Fatalf("load %+v: %v", list, err)
		}
		if !ok {
			t.Fatalf("load %+v: expected stored snapshot", list)
		}
		if !reflect.DeepEqual(got, list) {
			t.Errorf("round trip: expected %+v, got %+v", list, got)
		}
	}
}

func TestSave_StorageFormat(t *testing.T) {
	kv := memory.New()
	list := task.List{{Text: "x", Completed: false}, {Text: "y", Completed: true}}

	if err := persist.Save(context.Background(), kv, list); err != nil {
		t.Fatalf("save: %v", err)
	}

	value, ok, _ := kv.Get(context.Background(), "my-tasks")
	expected := `[{"text":"x","completed":false},{"text":"y","completed":true}]`
	if !ok || value != expected {
		t.Errorf("expected %q, got %q", expected, value)
	}
}

func TestSave_NilListEncodesEmptyArray(t *testing.T) {
	kv := memory.New()
	if err := persist.Save(context.Background(), kv, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	value, _, _ := kv.Get(context.Background(), persist.StorageKey)
	if value != "[]" {
		t.Errorf("expected [], got %q", value)
	}
}

func TestLoad_Hydration(t *testing.T) {
	kv := memory.New()
	kv.Put("my-tasks", `[{"text":"x","completed":false}]`)

	got, ok, err := persist.Load(context.Background(), kv)
	if err != nil || !ok {
		t.Fatalf("unexpected result: ok=%v err=%v", ok, err)
	}
	want := task.List{{Text: "x", Completed: false}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLoad_Absent(t *testing.T) {
	for _, seed := range []*string{nil, ptr("")} {
		kv := memory.New()
		if seed != nil {
			kv.Put(persist.StorageKey, *seed)
		}
		got, ok, err := persist.Load(context.Background(), kv)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if ok || got != nil {
			t.Errorf("expected absent snapshot, got %+v ok=%v", got, ok)
		}
	}
}

func TestLoad_CorruptStorage(t *testing.T) {
	values := []string{
		"not json",
		"{",
		"null",
		`{"text":"x","completed":false}`,
		`[{"text":"x"}]`,
		`[{"completed":true}]`,
		`[{"text":"   ","completed":false}]`,
		`[{"text":1,"completed":false}]`,
		`[{"text":"x","completed":"yes"}]`,
		`[{"text":"x","completed":false,"id":3}]`,
		`[null]`,
		`[] []`,
	}

	for _, value := range values {
		kv := memory.New()
		kv.Put(persist.StorageKey, value)

		_, ok, err := persist.Load(context.Background(), kv)
		if !ok {
			t.Errorf("%q: expected snapshot to be reported present", value)
		}
		if !errors.Is(err, persist.ErrCorruptStorage) {
			t.Errorf("%q: expected ErrCorruptStorage, got %v", value, err)
		}
	}
}

func TestPersistenceUnavailable(t *testing.T) {
	kv := memory.New()
	kv.GetErr = errors.New("disk on fire")
	kv.SetErr = errors.New("quota exceeded")

	if _, _, err := persist.Load(context.Background(), kv); !errors.Is(err, persist.ErrPersistenceUnavailable) {
		t.Errorf("load: expected ErrPersistenceUnavailable, got %v", err)
	}
	if err := persist.Save(context.Background(), kv, task.List{{Text: "x"}}); !errors.Is(err, persist.ErrPersistenceUnavailable) {
		t.Errorf("save: expected ErrPersistenceUnavailable, got %v", err)
	}
}

func ptr(s string) *string { return &s }
