package app

import (
	"html"
	"math/rand"

	"trivia-quiz-service/internal/domain"
)

// decodeText reverses HTML entity escaping on source text (&quot; &#039;
// &amp; &lt; &gt; and friends). Text without entities passes through
// unchanged.
func decodeText(s string) string {
	return html.UnescapeString(s)
}

// shuffleChoices places the correct answer and the three incorrect ones in a
// uniformly random order and reports the label (A-D) the correct answer
// landed on. Fisher-Yates from the last index down to 1, so all 24
// permutations are equally likely.
func shuffleChoices(rnd *rand.Rand, correct string, incorrect []string) ([4]string, string) {
	var choices [4]string
	copy(choices[:], incorrect)
	choices[3] = correct
	correctAt := 3

	for i := len(choices) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		choices[i], choices[j] = choices[j], choices[i]
		switch correctAt {
		case i:
			correctAt = j
		case j:
			correctAt = i
		}
	}
	return choices, domain.ChoiceLabels[correctAt]
}

// buildQuestion decodes one raw source tuple and shuffles its choices.
func buildQuestion(rnd *rand.Rand, raw domain.RawQuestion) domain.Question {
	correct := decodeText(raw.CorrectAnswer)
	incorrect := make([]string, len(raw.IncorrectAnswers))
	for i, text := range raw.IncorrectAnswers {
		incorrect[i] = decodeText(text)
	}
	choices, label := shuffleChoices(rnd, correct, incorrect)
	return domain.Question{
		Text:         decodeText(raw.Question),
		Choices:      choices,
		CorrectLabel: label,
	}
}
