package domain

import "context"

// Loader defines the interface for opening a slide-deck container and
// yielding its slides in presentation order. Loaders are read-only; the
// source document is never modified.
type Loader interface {
	Load(ctx context.Context, path string) ([]SlideRecord, error)
}

// Recognizer defines the interface for the OCR collaborator. Image bytes
// in, recognized text out. An empty string with a nil error means the
// image carried no recognizable text; an error means the image was
// unreadable. Either way the caller degrades to an empty contribution.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Analyzer defines the interface for the remote reasoning-model
// collaborator. It receives the full ordered slide text sequence and
// returns typed issues, or an error classified retryable-vs-fatal.
type Analyzer interface {
	Analyze(ctx context.Context, slides []ExtractedSlideText) ([]Issue, error)
}

// CacheStore maps document fingerprints to previously generated reports.
// Lookup returns ErrCacheMiss when no entry exists; implementations fail
// open by treating corrupted entries as misses.
type CacheStore interface {
	Lookup(ctx context.Context, fp Fingerprint) (*Report, error)
	Store(ctx context.Context, fp Fingerprint, report *Report) error
}
