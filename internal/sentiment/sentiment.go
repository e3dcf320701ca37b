package sentiment

import (
	"strings"

	"github.com/KathiraveluLab/BHV/internal/model"
)

type Result struct {
	Label model.Sentiment
	Score float64
}

// Provider classifies free text. Implementations must be safe for
// concurrent use; classification happens inline on the upload path.
type Provider interface {
	Classify(text string) Result
}

// lexicon scores text by counting polar words, with a simple negation
// flip for the word immediately following "not"/"no"/"never".
type lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

func NewLexicon() *lexicon {
	return &lexicon{
		positive: wordSet(positiveWords),
		negative: wordSet(negativeWords),
	}
}

func (l *lexicon) Classify(text string) Result {
	words := tokenize(text)

	score := 0
	negated := false
	for _, word := range words {
		switch word {
		case "not", "no", "never", "isnt", "wasnt", "dont", "didnt", "cant":
			negated = true
			continue
		}

		polarity := 0
		if _, ok := l.positive[word]; ok {
			polarity = 1
		} else if _, ok := l.negative[word]; ok {
			polarity = -1
		}
		if negated {
			polarity = -polarity
			negated = false
		}
		score += polarity
	}

	normalized := 0.0
	if len(words) > 0 {
		normalized = float64(score) / float64(len(words))
	}

	switch {
	case score > 0:
		return Result{Label: model.SentimentPositive, Score: normalized}
	case score < 0:
		return Result{Label: model.SentimentNegative, Score: normalized}
	default:
		return Result{Label: model.SentimentNeutral, Score: 0}
	}
}

func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)
	return strings.Fields(cleaned)
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

var positiveWords = []string{
	"good", "great", "happy", "joy", "love", "loved", "wonderful", "beautiful",
	"excellent", "amazing", "fantastic", "nice", "best", "better", "awesome",
	"delight", "delightful", "pleasant", "calm", "peaceful", "bright", "fun",
	"excited", "exciting", "grateful", "hope", "hopeful", "proud", "warm",
	"smile", "smiling", "laugh", "laughing", "enjoy", "enjoyed", "positive",
}

var negativeWords = []string{
	"bad", "sad", "angry", "anger", "hate", "hated", "terrible", "horrible",
	"awful", "worst", "worse", "ugly", "pain", "painful", "cry", "crying",
	"fear", "afraid", "scared", "lonely", "alone", "dark", "gloomy", "upset",
	"depressed", "depressing", "tired", "sick", "hurt", "broken", "negative",
	"anxious", "anxiety", "worried", "worry", "miserable", "unhappy",
}
