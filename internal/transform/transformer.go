// Package transform maps HealthVault items to FHIR resources and back. Each
// clinical concept has an XToFhir / XToHealthVault pair; ToFhir and
// ToHealthVault dispatch on the concrete type.
package transform

import (
	"github.com/rs/zerolog"

	"github.com/ehr/hvfhir/internal/mapping/contain"
	"github.com/ehr/hvfhir/internal/mapping/units"
	"github.com/ehr/hvfhir/internal/mapping/vocab"
	"github.com/ehr/hvfhir/internal/platform/blobstore"
)

// Transformer holds the read-only tables and collaborators the mappers need.
// It is safe for concurrent use.
type Transformer struct {
	vocab *vocab.Table
	units *units.Table
	blobs blobstore.BlobStore
	log   zerolog.Logger
	newID contain.IDFunc
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithVocabulary replaces the embedded vocabulary table.
func WithVocabulary(t *vocab.Table) Option {
	return func(tr *Transformer) { tr.vocab = t }
}

// WithUnits replaces the embedded unit conversion table.
func WithUnits(t *units.Table) Option {
	return func(tr *Transformer) { tr.units = t }
}

// WithBlobStore sets the store File content is read from and written to.
// Without one, file content always travels inline.
func WithBlobStore(s blobstore.BlobStore) Option {
	return func(tr *Transformer) { tr.blobs = s }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(tr *Transformer) { tr.log = l }
}

// WithIDGenerator sets the generator for contained resource ids.
func WithIDGenerator(f contain.IDFunc) Option {
	return func(tr *Transformer) { tr.newID = f }
}

// New returns a Transformer using the embedded tables unless overridden.
func New(opts ...Option) *Transformer {
	tr := &Transformer{log: zerolog.Nop(), newID: contain.UUID}
	for _, opt := range opts {
		opt(tr)
	}
	if tr.vocab == nil {
		tr.vocab = vocab.Default()
	}
	if tr.units == nil {
		tr.units = units.Default()
	}
	return tr
}
