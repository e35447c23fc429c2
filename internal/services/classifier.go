package services

import (
	"strings"
	"unicode"
)

// emotionLexicon maps each canonical mood label to the plain words that
// signal it. The classifier is deliberately simple: clean the text to
// canonical form, count whole-word lexicon hits, highest score wins.
var emotionLexicon = map[string][]string{
	"Joy": {
		"happy", "happiness", "joy", "joyful", "glad", "great", "wonderful",
		"amazing", "fun", "excited", "cheerful", "delighted", "grateful",
		"proud", "content", "smile", "smiling", "laughed", "laughing",
	},
	"Sadness": {
		"sad", "sadness", "unhappy", "depressed", "down", "cry", "crying",
		"cried", "tears", "lonely", "miserable", "grief", "heartbroken",
		"hopeless", "gloomy", "empty", "miss", "missing",
	},
	"Fear": {
		"afraid", "scared", "fear", "terrified", "anxious", "anxiety",
		"worried", "worry", "nervous", "panic", "dread", "frightened",
		"uneasy", "overwhelmed",
	},
	"Anger": {
		"angry", "anger", "mad", "furious", "rage", "annoyed", "irritated",
		"frustrated", "frustrating", "hate", "hated", "resent", "bitter",
		"outraged",
	},
	"Surprise": {
		"surprised", "surprise", "shocked", "shock", "unexpected", "sudden",
		"astonished", "amazed", "stunned", "unbelievable", "wow",
	},
	"Love": {
		"love", "loved", "loving", "adore", "affection", "romantic", "crush",
		"caring", "cherish", "warmth", "tender", "darling", "beloved",
	},
}

// MoodClassifier assigns a mood label to journal text. It is consumed as an
// opaque content->label call: Classify returns one of the canonical labels,
// or "" when the text gives no signal. It never errors and never blocks a
// save.
type MoodClassifier struct{}

func NewMoodClassifier() *MoodClassifier {
	return &MoodClassifier{}
}

// Classify returns the best-scoring mood label for the content, or "" when
// no lexicon word matches.
func (c *MoodClassifier) Classify(content string) string {
	cleaned := cleanText(content)
	if cleaned == "" {
		return ""
	}
	words := strings.Fields(cleaned)

	bestLabel := ""
	bestScore := 0
	// Iterate canonical order so equal scores resolve deterministically.
	for _, label := range []string{"Joy", "Sadness", "Fear", "Anger", "Surprise", "Love"} {
		score := 0
		for _, keyword := range emotionLexicon[label] {
			collapsed := collapseRepeats(keyword)
			for _, w := range words {
				if w == collapsed {
					score++
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestLabel = label
		}
	}

	return bestLabel
}

// cleanText normalizes journal text to canonical form: lowercase, obfuscation
// characters mapped back to letters, non-letters replaced with spaces,
// repeated letters collapsed, whitespace normalized.
func cleanText(text string) string {
	cleaned := strings.ToLower(text)

	replacements := map[string]string{
		"@": "a",
		"4": "a",
		"3": "e",
		"!": "i",
		"1": "i",
		"0": "o",
		"$": "s",
		"5": "s",
		"7": "t",
		"+": "t",
	}
	for old, repl := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, repl)
	}

	var builder strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	cleaned = collapseRepeats(builder.String())

	return strings.Join(strings.Fields(cleaned), " ")
}

// collapseRepeats reduces runs of the same letter to a single character.
// Both input words and lexicon keywords are collapsed before comparison, so
// "haaappy" and "happy" both become "hapy" and match.
func collapseRepeats(text string) string {
	var result strings.Builder
	lastChar := rune(0)
	lastWasLetter := false

	for _, char := range text {
		isLetter := unicode.IsLetter(char)
		if isLetter && lastWasLetter && char == lastChar {
			continue
		}
		result.WriteRune(char)
		lastChar = char
		lastWasLetter = isLetter
	}
	return result.String()
}
