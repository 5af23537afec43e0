// Package recognizer wraps the external face recognition library behind a
// small extractor interface. All face detection, landmark alignment, and
// embedding extraction happens inside the library; this package only shapes
// its output.
package recognizer

const (
	// DescriptorDimensions is the embedding size produced by the dlib
	// ResNet face recognition model.
	DescriptorDimensions = 128
)

// Extractor defines the interface for extracting facial embeddings from
// JPEG image data. Extract returns one descriptor per detected face, in
// detection order; an image with no faces yields an empty slice and no
// error.
type Extractor interface {
	// Initialize loads the recognition models.
	Initialize() error

	// Extract detects faces in jpegData and returns their descriptors.
	Extract(jpegData []byte) ([][]float32, error)

	// Close releases the model resources.
	Close() error
}
