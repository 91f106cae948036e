package hub

import "math/rand/v2"

// FocusQuotes is the pool RandomQuote draws from.
var FocusQuotes = []string{
	"The way to get started is to quit talking and begin doing. - Walt Disney",
	"Focus on being productive instead of busy. - Tim Ferriss",
	"Concentrate all your thoughts upon the work at hand. - Alexander Graham Bell",
	"The successful warrior is the average man with laser-like focus. - Bruce Lee",
	"Wherever you are, be there totally. - Eckhart Tolle",
	"It is during our darkest moments that we must focus to see the light. - Aristotle",
	"The art of being wise is knowing what to overlook. - William James",
	"You can't depend on your eyes when your imagination is out of focus. - Mark Twain",
}

// RandomQuote picks a quote uniformly. A nil rng uses the global source.
func RandomQuote(rng *rand.Rand) string {
	if rng == nil {
		return FocusQuotes[rand.IntN(len(FocusQuotes))]
	}
	return FocusQuotes[rng.IntN(len(FocusQuotes))]
}

// NextQuote draws a fresh quote for the user and announces it.
func (h *Hub) NextQuote() (string, Result) {
	return RandomQuote(nil), Result{Notice: "New motivational quote loaded! 💭"}
}
