package chat

import "strings"

// Canned replies keep messaging consistent for the greetings and identity
// questions users type most often. Anything else goes to the model.
var customResponses = map[string]string{
	"hello":                "Hello! How can I assist you today with your document analysis?",
	"hi":                   "Hello! How can I assist you today with your document analysis?",
	"who are you":          "I'm Samvad.ai, your friendly assistant for document analysis!",
	"what is your purpose": "I help you gain insights into your documents and their meanings.",
	"what can you do":      "I help you gain insights into your documents and their meanings.",
	"thank you":            "You're welcome! If you have more questions, just ask.",
	"thanks":               "You're welcome! If you have more questions, just ask.",
	"who created you":      "I was developed by Samvad.ai to assist with document analysis.",
	"who made you":         "I was developed by Samvad.ai to assist with document analysis.",
}

// CustomResponse returns the canned reply for a recognized short input.
// Matching is exact after lowercasing and trimming, so longer questions
// always reach the model.
func CustomResponse(input string) (string, bool) {
	reply, ok := customResponses[strings.ToLower(strings.TrimSpace(input))]
	return reply, ok
}
