package sentiment

import (
	"testing"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestLexicon(t *testing.T) {
	assert := assert.New(t)
	provider := NewLexicon()

	t.Run("positive", func(t *testing.T) {
		result := provider.Classify("What a wonderful, happy day at the beach!")
		assert.Equal(model.SentimentPositive, result.Label)
		assert.Greater(result.Score, 0.0)
	})

	t.Run("negative", func(t *testing.T) {
		result := provider.Classify("A terrible and gloomy afternoon, everything hurt.")
		assert.Equal(model.SentimentNegative, result.Label)
		assert.Less(result.Score, 0.0)
	})

	t.Run("neutral", func(t *testing.T) {
		result := provider.Classify("The photo was taken on a Tuesday near the station.")
		assert.Equal(model.SentimentNeutral, result.Label)
		assert.Equal(0.0, result.Score)
	})

	t.Run("negation flips polarity", func(t *testing.T) {
		result := provider.Classify("not happy")
		assert.Equal(model.SentimentNegative, result.Label)
	})

	t.Run("empty text is neutral", func(t *testing.T) {
		result := provider.Classify("")
		assert.Equal(model.SentimentNeutral, result.Label)
	})

	t.Run("case insensitive", func(t *testing.T) {
		result := provider.Classify("GREAT")
		assert.Equal(model.SentimentPositive, result.Label)
	})
}
