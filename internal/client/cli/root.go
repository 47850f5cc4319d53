package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/duabook/duabook/internal/client/models"
)

func (a *App) getStatus() string {
	if a.monitor.IsOnline() {
		return "(online)"
	}
	return "(offline)"
}

// Root runs the interactive loop until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to duabook CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.engine.RefreshDuas(ctx)
	a.engine.RefreshCollections(ctx)

	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) List(ctx context.Context) error {
	duas := a.engine.RefreshDuas(ctx)
	if len(duas) == 0 {
		printlnFn("No duas yet.")
		return nil
	}
	counts := a.engine.ReadCounts()
	for _, d := range duas {
		printlnFn(formatDuaLine(d, counts[d.ID]))
	}
	return nil
}

func (a *App) Archived(ctx context.Context) error {
	duas := a.engine.RefreshArchived(ctx)
	if len(duas) == 0 {
		printlnFn("No archived duas.")
		return nil
	}
	for _, d := range duas {
		printlnFn(formatDuaLine(d, 0))
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	dua, err := a.engine.GetDua(ctx, id)
	if err != nil {
		printlnFn("Dua not found:", id)
		return err
	}
	printlnFn(formatDua(dua))
	return nil
}

func (a *App) Read(ctx context.Context, id string) error {
	a.engine.MarkRead(ctx, id)
	printlnFn(fmt.Sprintf("Read count for %s: %d", id, a.engine.ReadCounts()[id]))
	return nil
}

func (a *App) Counts(ctx context.Context) error {
	counts := a.engine.RefreshReadCounts(ctx)
	if len(counts) == 0 {
		printlnFn("No reads recorded yet.")
		return nil
	}
	for id, n := range counts {
		printlnFn(fmt.Sprintf("  %s: %d", id, n))
	}
	return nil
}

func (a *App) Archive(ctx context.Context, id string) error {
	a.engine.Archive(ctx, id)
	printlnFn("Archived", id)
	return nil
}

func (a *App) Unarchive(ctx context.Context, id string) error {
	a.engine.Unarchive(ctx, id)
	printlnFn("Restored", id)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	a.engine.DeleteDua(ctx, id)
	printlnFn("Deleted", id, "(use 'undo' to restore)")
	return nil
}

func (a *App) Undo(ctx context.Context, id string) error {
	a.engine.UndoDeleteDua(ctx, id)
	printlnFn("Restored", id)
	return nil
}

func (a *App) Generate(ctx context.Context) error {
	desc, err := GetSimpleText(a.reader, "Describe the dua you need", os.Stdout)
	if err != nil {
		return err
	}
	if desc == "" {
		printlnFn("Nothing to generate.")
		return nil
	}

	dua, err := a.engine.GenerateDua(ctx, desc)
	if err != nil {
		printlnFn("Could not generate a dua right now, try again when online.")
		return err
	}
	printlnFn(formatDua(dua))
	return nil
}

func (a *App) Collections(ctx context.Context) error {
	cols := a.engine.RefreshCollections(ctx)
	if len(cols) == 0 {
		printlnFn("No collections yet.")
		return nil
	}
	for _, c := range cols {
		printlnFn(formatCollectionLine(c))
	}
	return nil
}

func (a *App) NewCollection(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Collection name", os.Stdout)
	if err != nil {
		return err
	}

	col := &models.Collection{Name: name}

	when, err := GetSimpleText(a.reader, "Daily reminder time, HH:MM (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	if when != "" {
		ts, err := time.Parse("15:04", when)
		if err != nil {
			printlnFn("Invalid time, skipping reminder.")
		} else {
			col.ScheduledTime = &ts
			col.NotificationEnabled = true
		}
	}

	created, err := a.engine.CreateCollection(ctx, col)
	if err != nil {
		printlnFn("Could not create collection:", err.Error())
		return err
	}
	printlnFn("Created collection", created.ID)
	return nil
}

func (a *App) AddToCollection(ctx context.Context, collectionID, duaID string) error {
	if err := a.engine.AddDuaToCollection(ctx, collectionID, duaID); err != nil {
		printlnFn("Could not add dua:", err.Error())
		return err
	}
	printlnFn("Added", duaID, "to", collectionID)
	return nil
}

func (a *App) RemoveFromCollection(ctx context.Context, collectionID, duaID string) error {
	if err := a.engine.RemoveDuaFromCollection(ctx, collectionID, duaID); err != nil {
		printlnFn("Could not remove dua:", err.Error())
		return err
	}
	printlnFn("Removed", duaID, "from", collectionID)
	return nil
}

func (a *App) DeleteCollection(ctx context.Context, id string) error {
	if err := a.engine.DeleteCollection(ctx, id); err != nil {
		printlnFn("Could not delete collection:", err.Error())
		return err
	}
	printlnFn("Deleted collection", id)
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	a.engine.Sync(ctx)
	printlnFn("Sync finished.")
	return nil
}

func formatDuaLine(d models.Dua, reads int) string {
	line := fmt.Sprintf("  [%s] %s", d.ID, d.Title)
	if reads > 0 {
		line += fmt.Sprintf(" (read %d times)", reads)
	}
	return line
}

func formatDua(d *models.Dua) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", d.Title, d.ID)
	if d.Arabic != "" {
		fmt.Fprintf(&b, "  %s\n", d.Arabic)
	}
	if d.Transliteration != "" {
		fmt.Fprintf(&b, "  %s\n", d.Transliteration)
	}
	if d.Translation != "" {
		fmt.Fprintf(&b, "  %s\n", d.Translation)
	}
	if d.Description != "" {
		fmt.Fprintf(&b, "  %s\n", d.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCollectionLine(c models.Collection) string {
	line := fmt.Sprintf("  [%s] %s (%d duas)", c.ID, c.Name, len(c.DuaIDs))
	if c.HasReminder() {
		line += fmt.Sprintf(", reminder at %s", c.ScheduledTime.Format("15:04"))
	}
	if models.IsTempID(c.ID) {
		line += " [pending sync]"
	}
	return line
}
