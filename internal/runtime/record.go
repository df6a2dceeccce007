package runtime

import (
	"fmt"

	"github.com/aretw0/triplet/pkg/domain"
)

// BuildRecord snapshots the controller into a new record. It has no side effects.
func (f *FocusController) BuildRecord(skipped bool) *domain.AnnotationRecord {
	rec := domain.NewRecord(f.item, f.numTriples)
	rec.Tokens = make([][]string, len(f.item.Turns))
	for i, turn := range f.item.Turns {
		rec.Tokens[i] = append([]string(nil), turn...)
	}
	for i, row := range f.rows {
		for j, slot := range row {
			rec.Triples[i][j] = slot.Clone()
		}
	}
	rec.Skipped = skipped
	return rec
}

// Rehydrate rebinds the controller to the record's item and replays every
// stored span: one SetFocus per non-empty slot, then one Assign per token in
// stored order. Focus ends on the last replayed slot, or none for an empty record.
func (f *FocusController) Rehydrate(rec *domain.AnnotationRecord) error {
	if err := rec.Validate(f.numTriples); err != nil {
		return err
	}

	f.Bind(rec.Item())
	for i, row := range rec.Triples {
		for j, slot := range row {
			if len(slot) == 0 {
				continue
			}
			if err := f.SetFocus(i, j); err != nil {
				return err
			}
			for _, ref := range slot {
				if err := f.Assign(ref.Turn, ref.Token); err != nil {
					return fmt.Errorf("failed to replay row %d %s: %w", i, domain.SlotKind(j), err)
				}
			}
		}
	}
	return nil
}
