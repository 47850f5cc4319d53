package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	calls []string
	args  []string
}

func (f *fakeExec) record(cmd string, args ...string) error {
	f.calls = append(f.calls, cmd)
	f.args = append(f.args, args...)
	return nil
}

func (f *fakeExec) List(ctx context.Context) error     { return f.record("list") }
func (f *fakeExec) Archived(ctx context.Context) error { return f.record("archived") }
func (f *fakeExec) Show(ctx context.Context, id string) error {
	return f.record("show", id)
}
func (f *fakeExec) Read(ctx context.Context, id string) error {
	return f.record("read", id)
}
func (f *fakeExec) Archive(ctx context.Context, id string) error {
	return f.record("archive", id)
}
func (f *fakeExec) Unarchive(ctx context.Context, id string) error {
	return f.record("unarchive", id)
}
func (f *fakeExec) Delete(ctx context.Context, id string) error {
	return f.record("delete", id)
}
func (f *fakeExec) Undo(ctx context.Context, id string) error {
	return f.record("undo", id)
}
func (f *fakeExec) Generate(ctx context.Context) error    { return f.record("generate") }
func (f *fakeExec) Counts(ctx context.Context) error      { return f.record("counts") }
func (f *fakeExec) Collections(ctx context.Context) error { return f.record("collections") }
func (f *fakeExec) NewCollection(ctx context.Context) error {
	return f.record("newcol")
}
func (f *fakeExec) AddToCollection(ctx context.Context, collectionID, duaID string) error {
	return f.record("addto", collectionID, duaID)
}
func (f *fakeExec) RemoveFromCollection(ctx context.Context, collectionID, duaID string) error {
	return f.record("rmfrom", collectionID, duaID)
}
func (f *fakeExec) DeleteCollection(ctx context.Context, id string) error {
	return f.record("delcol", id)
}
func (f *fakeExec) Sync(ctx context.Context) error { return f.record("sync") }

func TestRunREPL_DispatchesCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"list",
		"read d1",
		"archive d1",
		"addto c1 d2",
		"sync",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"list", "read", "archive", "addto", "sync"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}

	wantArgs := []string{"d1", "d1", "c1", "d2"}
	for i, want := range wantArgs {
		if exec.args[i] != want {
			t.Fatalf("args mismatch: got %v, want %v", exec.args, wantArgs)
		}
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("read\naddto c1\nquit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
