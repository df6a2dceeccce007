/*
Package triplet is a desk for annotating dialogue turns with
(subject, predicate, object, polarity, certainty) triples.

A Desk walks an ordered dataset one item at a time. Every item is tokenized
into turns, and the annotator fills a fixed grid of triple rows by focusing a
slot and clicking tokens into it. Moving to the next item stores the grid as
one record per item id; a restarted desk resumes at the first item without a
record and reloads stored records whenever it lands on an annotated item.

# Usage

	store := file.New("annotations")
	desk, err := triplet.New(ctx, items, store, tokenizer.New())
	if err != nil {
		log.Fatal(err)
	}

	_ = desk.OnSlotClick(0, int(domain.SlotSubject))
	_ = desk.OnTokenClick(0, 2)
	desk.OnDirectionKey(domain.DirectionRight)
	_ = desk.OnTokenClick(0, 3)

	if _, err := desk.OnNext(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println(desk.View().Summary)

Presentation layers (terminal UI, NDJSON loop, HTTP API and MCP tools) only
call the On* event methods and render from View.
*/
package triplet
