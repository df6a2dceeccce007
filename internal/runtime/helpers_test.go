package runtime

import (
	"context"
	"errors"
	"strings"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/stretchr/testify/mock"
)

// fieldsTokenizer splits on whitespace and "|" turn separators.
type fieldsTokenizer struct {
	calls int
}

func (t *fieldsTokenizer) Tokenize(_ context.Context, item domain.Item) (domain.TokenizedItem, error) {
	t.calls++
	out := domain.TokenizedItem{ItemID: item.ID}
	for _, turn := range strings.Split(item.Text, "|") {
		out.Turns = append(out.Turns, append(strings.Fields(turn), domain.EndOfTurn))
	}
	return out, nil
}

var errSegmenter = errors.New("segmenter timeout")

// failingTokenizer fails the given number of times per item id.
type failingTokenizer struct {
	fieldsTokenizer
	failOn map[string]int
}

func (t *failingTokenizer) Tokenize(ctx context.Context, item domain.Item) (domain.TokenizedItem, error) {
	if t.failOn[item.ID] > 0 {
		t.failOn[item.ID]--
		return domain.TokenizedItem{}, errSegmenter
	}
	return t.fieldsTokenizer.Tokenize(ctx, item)
}

func itemsOf(ids ...string) []domain.Item {
	items := make([]domain.Item, len(ids))
	for i, id := range ids {
		items[i] = domain.Item{ID: id, Text: "text of " + id + " | second turn"}
	}
	return items
}

// MockStore records store calls for ordering assertions.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, id string, rec *domain.AnnotationRecord) error {
	args := m.Called(ctx, id, rec)
	return args.Error(0)
}

func (m *MockStore) Load(ctx context.Context, id string) (*domain.AnnotationRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*domain.AnnotationRecord)
	return rec, args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}
