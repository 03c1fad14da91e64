package embedder

import (
	"strings"
	"unicode"

	"github.com/crimson-sun/pennyworth/internal/engine/normalize"
)

// Spoken commands are short; 64 positions fit every realistic utterance with
// room for [CLS]/[SEP].
const maxSeqLen = 64

// tokenized holds the result of tokenizing one or more utterances, ready for
// ONNX inference. All slices are flat: [batchSize * seqLen].
type tokenized struct {
	inputIDs      []int64
	attentionMask []int64
	tokenTypeIDs  []int64
	batchSize     int64
	seqLen        int64
}

// tokenizer performs BERT-style WordPiece tokenization.
type tokenizer struct {
	vocab *vocab
}

// newTokenizer creates a tokenizer from a vocab.txt file.
func newTokenizer(vocabPath string) (*tokenizer, error) {
	v, err := loadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	return &tokenizer{vocab: v}, nil
}

// tokenize converts a single utterance into token IDs with [CLS] and [SEP],
// truncated to maxSeqLen. The returned slices have length maxSeqLen (padded).
func (t *tokenizer) tokenize(text string) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	tokens := t.wordpiece(basicTokenize(text))

	// Truncate to fit [CLS] + tokens + [SEP] within maxSeqLen.
	maxTokens := maxSeqLen - 2
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}

	ids := make([]int64, maxSeqLen)
	mask := make([]int64, maxSeqLen)
	typeIDs := make([]int64, maxSeqLen) // single segment, all zeros

	ids[0] = t.vocab.clsID
	mask[0] = 1
	for i, tok := range tokens {
		ids[i+1] = t.vocab.lookup(tok)
		mask[i+1] = 1
	}
	ids[len(tokens)+1] = t.vocab.sepID
	mask[len(tokens)+1] = 1
	// Remaining positions stay 0 (padID=0, mask=0).

	return ids, mask, typeIDs
}

// tokenizeBatch tokenizes multiple utterances and packs them into flat slices
// padded to the longest sequence in the batch (capped at maxSeqLen).
func (t *tokenizer) tokenizeBatch(texts []string) tokenized {
	n := len(texts)
	if n == 0 {
		return tokenized{}
	}

	type seq struct {
		ids  []int64
		mask []int64
	}
	seqs := make([]seq, n)
	maxLen := int64(0)

	for i, text := range texts {
		ids, mask, _ := t.tokenize(text)
		realLen := int64(0)
		for _, m := range mask {
			if m == 1 {
				realLen++
			}
		}
		seqs[i] = seq{ids: ids, mask: mask}
		if realLen > maxLen {
			maxLen = realLen
		}
	}

	batchSize := int64(n)
	seqLen := maxLen
	total := batchSize * seqLen

	inputIDs := make([]int64, total)
	attentionMask := make([]int64, total)
	tokenTypeIDs := make([]int64, total)

	for i, s := range seqs {
		offset := int64(i) * seqLen
		copy(inputIDs[offset:offset+seqLen], s.ids[:seqLen])
		copy(attentionMask[offset:offset+seqLen], s.mask[:seqLen])
	}

	return tokenized{
		inputIDs:      inputIDs,
		attentionMask: attentionMask,
		tokenTypeIDs:  tokenTypeIDs,
		batchSize:     batchSize,
		seqLen:        seqLen,
	}
}

// basicTokenize applies BERT's BasicTokenizer: normalize (lowercase, strip
// accents and control characters), isolate CJK characters, then split on
// whitespace and punctuation.
func basicTokenize(text string) []string {
	text = spaceOutCJK(normalize.Text(text))

	var tokens []string
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, splitOnPunctuation(word)...)
	}
	return tokens
}

// wordpiece decomposes basic tokens into WordPiece subwords.
func (t *tokenizer) wordpiece(tokens []string) []string {
	var result []string
	for _, token := range tokens {
		if len(token) == 0 {
			continue
		}
		result = append(result, t.wordpieceToken(token)...)
	}
	return result
}

// wordpieceToken applies greedy longest-match-first subword splitting to a
// single basic token. Unknown material maps to [UNK].
func (t *tokenizer) wordpieceToken(token string) []string {
	runes := []rune(token)
	if len(runes) > 200 {
		return []string{"[UNK]"}
	}

	var subTokens []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := false
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if t.vocab.contains(sub) {
				subTokens = append(subTokens, sub)
				found = true
				break
			}
			end--
		}
		if !found {
			return []string{"[UNK]"}
		}
		start = end
	}
	return subTokens
}

// splitOnPunctuation splits a word at each punctuation character, keeping
// the punctuation as separate tokens.
func splitOnPunctuation(word string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range word {
		if isPunctuation(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// spaceOutCJK adds spaces around CJK Unified Ideographs so each becomes an
// individual token.
func spaceOutCJK(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, r := range text {
		if isCJK(r) {
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isPunctuation matches BERT's Python implementation: the four ASCII symbol
// ranges plus Unicode punctuation categories.
func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
