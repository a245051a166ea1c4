package crawler

import "strings"

// splitSentences splits text after sentence-ending punctuation followed by
// whitespace. The terminator stays attached to its sentence, so joining the
// pieces with single spaces reconstructs the original sequence.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Consume a run of terminators, then require whitespace
		end := i
		for end+1 < len(runes) && (runes[end+1] == '.' || runes[end+1] == '!' || runes[end+1] == '?') {
			end++
		}
		if end+1 < len(runes) && isSpace(runes[end+1]) {
			sentence := strings.TrimSpace(string(runes[start : end+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = end + 2
			for start < len(runes) && isSpace(runes[start]) {
				start++
			}
			i = start - 1
		} else {
			i = end
		}
	}

	if start < len(runes) {
		if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
			sentences = append(sentences, tail)
		}
	}

	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// chunkText packs sentences greedily into chunks of at most maxLength
// characters. A sentence is never split across chunks, so a single sentence
// longer than maxLength becomes its own oversized chunk.
func chunkText(text string, maxLength int) []string {
	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		switch {
		case current.Len() == 0:
			current.WriteString(sentence)
		case current.Len()+1+len(sentence) <= maxLength:
			current.WriteByte(' ')
			current.WriteString(sentence)
		default:
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(sentence)
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
