package recognizer

import (
	"crypto/md5"
	"encoding/binary"
	"math"
)

// MockExtractor is a simple implementation of the Extractor interface.
// It produces deterministic descriptors derived from the image bytes, so
// the same image always yields the same descriptor and different images
// yield different ones. FaceCount controls how many faces it reports per
// image.
type MockExtractor struct {
	// FaceCount is the number of faces reported for every image.
	FaceCount int

	dimensions int
}

// NewMockExtractor creates a new MockExtractor reporting one face per image.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		FaceCount:  1,
		dimensions: DescriptorDimensions,
	}
}

// Initialize sets up the extractor. No models are needed for the mock.
func (e *MockExtractor) Initialize() error {
	return nil
}

// Extract returns FaceCount deterministic descriptors for the image bytes.
func (e *MockExtractor) Extract(jpegData []byte) ([][]float32, error) {
	descriptors := make([][]float32, 0, e.FaceCount)
	for i := 0; i < e.FaceCount; i++ {
		descriptors = append(descriptors, e.descriptor(jpegData, i))
	}
	return descriptors, nil
}

// Close releases nothing for the mock.
func (e *MockExtractor) Close() error {
	return nil
}

// descriptor derives a normalized descriptor from an MD5 hash of the image
// bytes, salted with the face index so multi-face images produce distinct
// descriptors.
func (e *MockExtractor) descriptor(data []byte, faceIndex int) []float32 {
	seedData := append([]byte{byte(faceIndex)}, data...)
	hash := md5.Sum(seedData)

	descriptor := make([]float32, e.dimensions)
	for i := 0; i < e.dimensions; i++ {
		hashIdx := (i * 4) % len(hash)
		seed := binary.LittleEndian.Uint32(append(hash[hashIdx:], hash[:4]...))
		descriptor[i] = float32(seed%1000)/500.0 - 1.0
	}

	normalize(descriptor)
	return descriptor
}

// normalize scales the descriptor to unit length.
func normalize(descriptor []float32) {
	var sumSquares float32
	for _, val := range descriptor {
		sumSquares += val * val
	}
	if sumSquares == 0 {
		return
	}

	magnitude := float32(math.Sqrt(float64(sumSquares)))
	for i := range descriptor {
		descriptor[i] /= magnitude
	}
}
