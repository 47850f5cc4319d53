package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Archived(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Read(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Undo(ctx context.Context, id string) error
	Generate(ctx context.Context) error
	Counts(ctx context.Context) error
	Collections(ctx context.Context) error
	NewCollection(ctx context.Context) error
	AddToCollection(ctx context.Context, collectionID, duaID string) error
	RemoveFromCollection(ctx context.Context, collectionID, duaID string) error
	DeleteCollection(ctx context.Context, id string) error
	Sync(ctx context.Context) error
}

const helpText = `Available commands:
  (l)ist                  list your duas
  archived                list archived duas
  show <id>               show one dua
  read <id>               mark a dua as read
  counts                  show read counts
  archive <id>            archive a dua
  unarchive <id>          restore an archived dua
  delete <id>             delete a dua (undo possible until next sync)
  undo <id>               undo a delete
  generate                generate a new dua from a description
  (c)ollections           list collections
  newcol                  create a collection
  addto <col> <dua>       add a dua to a collection
  rmfrom <col> <dua>      remove a dua from a collection
  delcol <id>             delete a collection
  sync                    replay queued offline actions now
  exit | quit             leave the program`

// runREPL starts a simple read-eval-print loop for the duabook CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dua %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		needArg := func(usage string) (string, bool) {
			if len(args) == 0 {
				printlnFn("Usage: " + usage)
				return "", false
			}
			return args[0], true
		}
		needTwo := func(usage string) (string, string, bool) {
			if len(args) < 2 {
				printlnFn("Usage: " + usage)
				return "", "", false
			}
			return args[0], args[1], true
		}

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "l", "list":
			_ = a.List(ctx)

		case "archived":
			_ = a.Archived(ctx)

		case "show":
			if id, ok := needArg("show <id>"); ok {
				_ = a.Show(ctx, id)
			}

		case "read":
			if id, ok := needArg("read <id>"); ok {
				_ = a.Read(ctx, id)
			}

		case "counts":
			_ = a.Counts(ctx)

		case "archive":
			if id, ok := needArg("archive <id>"); ok {
				_ = a.Archive(ctx, id)
			}

		case "unarchive":
			if id, ok := needArg("unarchive <id>"); ok {
				_ = a.Unarchive(ctx, id)
			}

		case "delete":
			if id, ok := needArg("delete <id>"); ok {
				_ = a.Delete(ctx, id)
			}

		case "undo":
			if id, ok := needArg("undo <id>"); ok {
				_ = a.Undo(ctx, id)
			}

		case "generate":
			_ = a.Generate(ctx)

		case "c", "collections":
			_ = a.Collections(ctx)

		case "newcol":
			_ = a.NewCollection(ctx)

		case "addto":
			if col, dua, ok := needTwo("addto <collection-id> <dua-id>"); ok {
				_ = a.AddToCollection(ctx, col, dua)
			}

		case "rmfrom":
			if col, dua, ok := needTwo("rmfrom <collection-id> <dua-id>"); ok {
				_ = a.RemoveFromCollection(ctx, col, dua)
			}

		case "delcol":
			if id, ok := needArg("delcol <id>"); ok {
				_ = a.DeleteCollection(ctx, id)
			}

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
