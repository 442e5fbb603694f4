package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "see docs here", RemoveLinks("see [docs](https://example.com/docs) here"))
	assert.Equal(t, "visit  now", RemoveLinks("visit https://example.com now"))
}

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("# Title\n\nThis is **great** and [nice](https://example.com).")
	assert.Equal(t, "Title This is great and nice.", got)
}

func TestReference_Polarity(t *testing.T) {
	ref := NewReference()

	pos := ref.Polarity("This app is great, I love it!")
	assert.Equal(t, "positive", pos.Label)
	assert.Greater(t, pos.Compound, 0.2)

	neg := ref.Polarity("Terrible service, I hate it.")
	assert.Equal(t, "negative", neg.Label)
	assert.Less(t, neg.Compound, -0.2)

	neutral := ref.Polarity("The box is on the table.")
	assert.Equal(t, "neutral", neutral.Label)
}
