package commands_test

import (
	"testing"

	"doitlist/internal/commands"
)

func TestDefaultRegistry_Aliases(t *testing.T) {
	aliases := map[string]string{
		"ls":     "list",
		"create": "add",
		"done":   "toggle",
		"remove": "rm",
	}
	for alias, name := range aliases {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("alias %q not registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("alias %q: expected %q, got %q", alias, name, cmd.Name())
		}
	}
}

func TestDefaultRegistry_AllSortedAndUnique(t *testing.T) {
	var names []string
	for _, cmd := range commands.DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}

	want := []string{"add", "export", "help", "list", "login", "logout", "publish", "rm", "serve", "sync", "toggle", "version"}
	if len(names) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ToggleCmd{}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if err := r.Register(&commands.ToggleCmd{}); err == nil {
		t.Error("expected error registering the same name twice")
	}
	if err := r.Register(&commands.AddCmd{}); err != nil {
		t.Errorf("unrelated command: %v", err)
	}
}
