package chatjpt

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"

	"github.com/petal-labs/chatjpt/core"
)

type inputKind uint8

const (
	inputText inputKind = iota + 1
	inputTokens
	inputTokenBatches
)

// EmbeddingInput is the input of an embeddings request: a list of strings,
// one token array or a list of token arrays. The shape is fixed when the
// value is created.
type EmbeddingInput struct {
	kind    inputKind
	texts   []string
	batches [][]int
}

// TextInput returns input made of one or more strings.
func TextInput(texts ...string) EmbeddingInput {
	return EmbeddingInput{kind: inputText, texts: append([]string{}, texts...)}
}

// TokenInput returns input made of a single token array.
func TokenInput(tokens ...int) EmbeddingInput {
	return EmbeddingInput{kind: inputTokens, batches: [][]int{append([]int{}, tokens...)}}
}

// TokenBatchInput returns input made of several token arrays.
func TokenBatchInput(batches ...[]int) EmbeddingInput {
	copied := make([][]int, len(batches))
	for i, b := range batches {
		copied[i] = append([]int{}, b...)
	}
	return EmbeddingInput{kind: inputTokenBatches, batches: copied}
}

// Texts returns the string inputs, or nil for token input.
func (in EmbeddingInput) Texts() []string {
	if in.kind != inputText {
		return nil
	}
	return append([]string{}, in.texts...)
}

// Tokens returns the token arrays, or nil for string input.
func (in EmbeddingInput) Tokens() [][]int {
	if in.kind == inputText {
		return nil
	}
	out := make([][]int, len(in.batches))
	for i, b := range in.batches {
		out[i] = append([]int{}, b...)
	}
	return out
}

// MarshalJSON encodes strings as ["a","b"] and tokens as [[1,2],[3]].
func (in EmbeddingInput) MarshalJSON() ([]byte, error) {
	switch in.kind {
	case inputText:
		return json.Marshal(in.texts)
	case inputTokens, inputTokenBatches:
		return json.Marshal(in.batches)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a string, a list of strings, a token array or a
// list of token arrays.
func (in *EmbeddingInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*in = TextInput(s)
		return nil
	}
	var texts []string
	if err := json.Unmarshal(data, &texts); err == nil {
		*in = TextInput(texts...)
		return nil
	}
	var tokens []int
	if err := json.Unmarshal(data, &tokens); err == nil {
		*in = TokenInput(tokens...)
		return nil
	}
	var batches [][]int
	if err := json.Unmarshal(data, &batches); err != nil {
		return errors.New("embedding input must be strings or token arrays")
	}
	if len(batches) == 1 {
		*in = TokenInput(batches[0]...)
	} else {
		*in = TokenBatchInput(batches...)
	}
	return nil
}

// EmbeddingsRequest is the body of POST /embeddings.
type EmbeddingsRequest struct {
	Input          EmbeddingInput `json:"input" validate:"required"`
	Model          string         `json:"model" validate:"required"`
	EncodingFormat string         `json:"encoding_format,omitempty" validate:"omitempty,oneof=float base64"`
	Dimensions     *int           `json:"dimensions,omitempty"`
	User           string         `json:"user,omitempty"`
}

// NewEmbeddingsRequest validates r and returns a copy.
func NewEmbeddingsRequest(r EmbeddingsRequest) (*EmbeddingsRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Embeddings is the response of POST /embeddings.
type Embeddings struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  Usage       `json:"usage"`
}

// Embedding is the vector for one input.
type Embedding struct {
	Object    string `json:"object"`
	Index     int    `json:"index"`
	Embedding Vector `json:"embedding"`
}

// Vector is an embedding vector. It decodes both the float array form and
// the base64 form returned for encoding_format=base64.
type Vector []float64

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vector) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return err
		}
		if len(raw)%4 != 0 {
			return errors.New("base64 embedding is not a sequence of float32 values")
		}
		out := make(Vector, len(raw)/4)
		r := bytes.NewReader(raw)
		for i := range out {
			var bits uint32
			if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
				return err
			}
			out[i] = float64(math.Float32frombits(bits))
		}
		*v = out
		return nil
	}
	var floats []float64
	if err := json.Unmarshal(data, &floats); err != nil {
		return err
	}
	*v = floats
	return nil
}
