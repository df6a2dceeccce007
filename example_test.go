package triplet_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/adapters/memory"
	"github.com/aretw0/triplet/pkg/adapters/tokenizer"
	"github.com/aretw0/triplet/pkg/domain"
)

// ExampleNew annotates a single item with one triple and stores it.
func ExampleNew() {
	ctx := context.Background()
	items := []domain.Item{{ID: "d1", Text: "Dogs chase cats"}}

	desk, err := triplet.New(ctx, items, memory.NewStore(), tokenizer.New(), triplet.WithNumTriples(1))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(desk.Summary())

	// Subject, then move right for the predicate and the object.
	_ = desk.OnSlotClick(0, int(domain.SlotSubject))
	_ = desk.OnTokenClick(0, 0)
	desk.OnDirectionKey(domain.DirectionRight)
	_ = desk.OnTokenClick(0, 1)
	desk.OnDirectionKey(domain.DirectionRight)
	_ = desk.OnTokenClick(0, 2)

	for _, slot := range desk.View().Rows[0].Slots[:3] {
		fmt.Printf("%s=%s\n", slot.Kind, slot.Text)
	}

	moved, err := desk.OnNext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	done, _ := desk.Done(ctx)
	fmt.Println("moved:", moved, "done:", done)

	// Output:
	// Annotating d1 (1/1)
	// subject=dogs
	// predicate=chase
	// object=cats
	// moved: false done: true
}
