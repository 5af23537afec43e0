package recognizer

import (
	"fmt"

	goface "github.com/Kagami/go-face"
)

// DlibExtractor implements Extractor on top of the go-face binding of the
// dlib face recognition toolkit. It needs the dlib model files
// (shape_predictor_5_face_landmarks.dat, dlib_face_recognition_resnet_model_v1.dat,
// mmod_human_face_detector.dat) present in the configured models directory.
type DlibExtractor struct {
	modelsDir string
	rec       *goface.Recognizer
}

// NewDlibExtractor creates a new DlibExtractor reading models from modelsDir.
func NewDlibExtractor(modelsDir string) *DlibExtractor {
	return &DlibExtractor{modelsDir: modelsDir}
}

// Initialize loads the dlib models from the models directory.
func (e *DlibExtractor) Initialize() error {
	rec, err := goface.NewRecognizer(e.modelsDir)
	if err != nil {
		return fmt.Errorf("failed to load face recognition models from %s: %w", e.modelsDir, err)
	}
	e.rec = rec
	return nil
}

// Extract detects faces in the JPEG data and returns their 128-dimensional
// descriptors.
func (e *DlibExtractor) Extract(jpegData []byte) ([][]float32, error) {
	if e.rec == nil {
		return nil, fmt.Errorf("extractor not initialized")
	}

	faces, err := e.rec.Recognize(jpegData)
	if err != nil {
		return nil, fmt.Errorf("face recognition failed: %w", err)
	}

	descriptors := make([][]float32, 0, len(faces))
	for _, f := range faces {
		d := make([]float32, DescriptorDimensions)
		copy(d, f.Descriptor[:])
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// Close releases the dlib recognizer.
func (e *DlibExtractor) Close() error {
	if e.rec != nil {
		e.rec.Close()
		e.rec = nil
	}
	return nil
}
