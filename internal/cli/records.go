package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/triplet/internal/presentation/tui"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
	"github.com/gosuri/uiprogress"
)

// Status counts stored records over the dataset.
type Status struct {
	Total     int
	Annotated int
	Skipped   int
}

// Remaining is the number of items without a stored record.
func (s Status) Remaining() int {
	return s.Total - s.Annotated - s.Skipped
}

// Stored is the number of items with a stored record, skipped or not.
func (s Status) Stored() int {
	return s.Annotated + s.Skipped
}

// CollectStatus checks every dataset item against the store. Records for ids
// outside the dataset are ignored.
func CollectStatus(ctx context.Context, store ports.AnnotationStore, items []domain.Item) (Status, error) {
	st := Status{Total: len(items)}
	for _, item := range items {
		rec, err := store.Load(ctx, item.ID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return st, fmt.Errorf("load %s: %w", item.ID, err)
		}
		if rec.Skipped {
			st.Skipped++
		} else {
			st.Annotated++
		}
	}
	return st, nil
}

// PrintStatus writes a progress bar and the counts.
func PrintStatus(w io.Writer, st Status) {
	if st.Total > 0 {
		bar := uiprogress.NewBar(st.Total)
		bar.Width = 40
		bar.AppendCompleted()
		_ = bar.Set(st.Stored())
		fmt.Fprintln(w, bar.String())
	}
	fmt.Fprintf(w, "items:     %d\n", st.Total)
	fmt.Fprintf(w, "annotated: %d\n", st.Annotated)
	fmt.Fprintf(w, "skipped:   %d\n", st.Skipped)
	fmt.Fprintf(w, "remaining: %d\n", st.Remaining())
}

// Inspect renders the stored record of id as markdown.
func Inspect(ctx context.Context, store ports.AnnotationStore, id string, w io.Writer, plain bool) error {
	rec, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading record %q: %w", id, err)
	}
	render, err := tui.NewRenderer(plain, 100)
	if err != nil {
		return err
	}
	out, err := render(tui.RecordMarkdown(rec))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Reset deletes the stored records of ids so they are annotated again.
func Reset(ctx context.Context, store ports.AnnotationStore, ids []string, w io.Writer) error {
	var errs []error
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("error removing %q: %w", id, err))
			continue
		}
		fmt.Fprintf(w, "Removed record '%s'\n", id)
	}
	return errors.Join(errs...)
}
