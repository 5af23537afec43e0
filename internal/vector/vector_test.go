package vector

import (
	"math"
	"reflect"
	"testing"
)

func TestEncodeDecodeEmbedding(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{
			name:  "single value",
			input: []float32{1.0},
		},
		{
			name:  "mixed values",
			input: []float32{-1.0, 0.0, 1.0, 3.14, -2.718},
		},
		{
			name:  "descriptor sized",
			input: make([]float32, 128),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			blob, err := EncodeEmbedding(test.input)
			if err != nil {
				t.Fatalf("EncodeEmbedding(%v) error: %v", test.input, err)
			}

			// No length prefix: the blob is exactly 4 bytes per element
			if len(blob) != 4*len(test.input) {
				t.Errorf("Expected blob length %d, got %d", 4*len(test.input), len(blob))
			}

			decoded, err := DecodeEmbedding(blob)
			if err != nil {
				t.Fatalf("DecodeEmbedding error: %v", err)
			}

			if !reflect.DeepEqual(test.input, decoded) {
				t.Errorf("Expected %v, got %v", test.input, decoded)
			}
		})
	}
}

func TestEncodeEmbeddingEmpty(t *testing.T) {
	if _, err := EncodeEmbedding(nil); err == nil {
		t.Error("Expected error for empty embedding")
	}
}

func TestDecodeEmbeddingInvalid(t *testing.T) {
	if _, err := DecodeEmbedding(nil); err == nil {
		t.Error("Expected error for empty blob")
	}
	if _, err := DecodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Error("Expected error for blob length not a multiple of 4")
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
		wantErr  bool
	}{
		{
			name:     "identical vectors",
			a:        []float32{0.1, 0.2, 0.3},
			b:        []float32{0.1, 0.2, 0.3},
			expected: 0.0,
		},
		{
			name:     "pythagorean",
			a:        []float32{0.0, 0.0},
			b:        []float32{3.0, 4.0},
			expected: 5.0,
		},
		{
			name:     "unit apart",
			a:        []float32{1.0, 0.0},
			b:        []float32{0.0, 1.0},
			expected: math.Sqrt2,
		},
		{
			name:    "different length vectors",
			a:       []float32{1.0, 2.0, 3.0},
			b:       []float32{1.0, 2.0},
			wantErr: true,
		},
		{
			name:    "empty vectors",
			a:       []float32{},
			b:       []float32{},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			distance, err := Distance(test.a, test.b)

			if (err != nil) != test.wantErr {
				t.Errorf("Distance() error = %v, wantErr %v", err, test.wantErr)
				return
			}
			if test.wantErr {
				return
			}

			if math.Abs(distance-test.expected) > 1e-6 {
				t.Errorf("Distance() = %v, want %v", distance, test.expected)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		threshold float64
		expected  float64
	}{
		{"perfect match", 0.0, 0.6, 1.0},
		{"half threshold", 0.3, 0.6, 0.5},
		{"at threshold", 0.6, 0.6, 0.0},
		{"beyond threshold", 1.2, 0.6, 0.0},
		{"non-positive threshold", 0.1, 0.0, 0.0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			confidence := Confidence(test.distance, test.threshold)
			if math.Abs(confidence-test.expected) > 1e-9 {
				t.Errorf("Confidence(%v, %v) = %v, want %v",
					test.distance, test.threshold, confidence, test.expected)
			}
		})
	}
}
