package embedder

import "fmt"

// Embedder produces dense vector embeddings from utterance text. Semantically
// similar utterances are assumed to yield vectors with high cosine similarity;
// nothing downstream inspects the provider beyond its output dimensionality.
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
	Close() error
}

// ONNXEmbedder runs a local BERT-style sentence encoder: WordPiece
// tokenization → ONNX inference → attention-mask mean pooling.
type ONNXEmbedder struct {
	session *onnxSession
	tok     *tokenizer
}

// New creates an ONNXEmbedder by loading the ONNX model and vocabulary.
func New(modelPath, vocabPath string) (*ONNXEmbedder, error) {
	sess, err := newONNXSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	tok, err := newTokenizer(vocabPath)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("embedder: %w", err)
	}

	return &ONNXEmbedder{session: sess, tok: tok}, nil
}

// Dim returns the embedding dimensionality.
func (e *ONNXEmbedder) Dim() int {
	return int(e.session.embedDim)
}

// Embed produces a single embedding vector for the given utterance.
func (e *ONNXEmbedder) Embed(text string) ([]float32, error) {
	vecs, err := e.EmbedBatch([]string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch produces embedding vectors for multiple utterances in one
// inference call. Sequences are padded to the longest utterance in the batch.
func (e *ONNXEmbedder) EmbedBatch(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := e.tok.tokenizeBatch(texts)

	hidden, err := e.session.infer(
		batch.inputIDs, batch.attentionMask, batch.tokenTypeIDs,
		batch.batchSize, batch.seqLen,
	)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	pooled := meanPool(hidden, batch.attentionMask, batch.batchSize, batch.seqLen, e.session.embedDim)

	dim := e.session.embedDim
	results := make([][]float32, batch.batchSize)
	for i := int64(0); i < batch.batchSize; i++ {
		vec := make([]float32, dim)
		copy(vec, pooled[i*dim:(i+1)*dim])
		results[i] = vec
	}
	return results, nil
}

// Close releases ONNX Runtime resources.
func (e *ONNXEmbedder) Close() error {
	if e.session != nil {
		return e.session.close()
	}
	return nil
}
