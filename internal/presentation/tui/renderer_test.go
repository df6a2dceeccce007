package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *domain.AnnotationRecord {
	rec := domain.NewRecord(domain.TokenizedItem{
		ItemID: "d7",
		Turns:  [][]string{{"ann", "hates", "rain", domain.EndOfTurn}, {"sure", domain.EndOfTurn}},
	}, 3)
	rec.Triples[1][domain.SlotSubject] = domain.Slot{{Turn: 0, Token: 0}}
	rec.Triples[1][domain.SlotPredicate] = domain.Slot{{Turn: 0, Token: 1}}
	rec.Triples[1][domain.SlotObject] = domain.Slot{{Turn: 0, Token: 2}}
	return rec
}

func TestRecordMarkdown(t *testing.T) {
	md := RecordMarkdown(sampleRecord())
	assert.Contains(t, md, "# d7")
	assert.Contains(t, md, "1. ann hates rain\n2. sure")
	assert.Contains(t, md, "| # | subject | predicate | object | polarity | certainty |")
	assert.Contains(t, md, "| 2 | ann | hates | rain | - | - |")
	assert.NotContains(t, md, "| 1 |")
}

func TestRecordMarkdown_Empty(t *testing.T) {
	rec := domain.NewRecord(domain.TokenizedItem{ItemID: "e", Turns: [][]string{{domain.EndOfTurn}}}, 1)
	rec.Skipped = true
	md := RecordMarkdown(rec)
	assert.Contains(t, md, "_skipped_")
	assert.Contains(t, md, "No triples.")
}

func TestNewRenderer(t *testing.T) {
	plain, err := NewRenderer(true, 0)
	require.NoError(t, err)
	out, err := plain("# x")
	require.NoError(t, err)
	assert.Equal(t, "# x", out)

	styled, err := NewRenderer(false, 60)
	require.NoError(t, err)
	out, err = styled(RecordMarkdown(sampleRecord()))
	require.NoError(t, err)
	assert.Contains(t, out, "hates")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "triple annotation desk v1.2.3")
}
