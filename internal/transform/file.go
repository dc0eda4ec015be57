package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ehr/hvfhir/internal/platform/blobstore"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

const blobScheme = "blob:"

// FileToFhir maps a file to a DocumentReference with a single attachment.
// Content held in the blob store is read back into the attachment data and
// the attachment url records the blob id.
func (t *Transformer) FileToFhir(ctx context.Context, f *thing.File) (*fhir.DocumentReference, error) {
	if f.Name == "" {
		return nil, unrepresentable("file name is required")
	}

	doc := fhir.NewDocumentReference()
	t.itemToFhir(f, &doc.DomainResource)
	doc.Status = fhir.DocumentCurrent

	att := fhir.Attachment{Title: f.Name, Size: f.Size, ContentType: f.ContentType.Text}
	content := fhir.DocumentReferenceContent{}
	if cv, ok := f.ContentType.Primary(); ok {
		if att.ContentType == "" {
			att.ContentType = cv.Value
		}
		c := t.vocab.ToCoding(cv, f.ContentType.Text)
		content.Format = &c
	}

	switch {
	case f.BlobID != "":
		att.URL = blobScheme + f.BlobID
		if t.blobs == nil {
			t.log.Debug().Str("blob_id", f.BlobID).Msg("no blob store configured, content not inlined")
			break
		}
		data, md, err := blobstore.ReadAll(ctx, t.blobs, f.BlobID)
		if err != nil {
			return nil, blobError(f.BlobID, err)
		}
		att.Data = data
		att.Size = md.Size
		if att.ContentType == "" {
			att.ContentType = md.ContentType
		}
	case len(f.Content) > 0:
		att.Data = f.Content
		if att.Size == 0 {
			att.Size = int64(len(f.Content))
		}
	}

	content.Attachment = att
	doc.Content = []fhir.DocumentReferenceContent{content}
	return doc, nil
}

// FileToHealthVault is the inverse of FileToFhir. An attachment url naming a
// blob is kept as a reference; inline data is written to the blob store when
// one is configured and kept inline otherwise.
func (t *Transformer) FileToHealthVault(ctx context.Context, doc *fhir.DocumentReference) (*thing.File, error) {
	if len(doc.Content) == 0 {
		return nil, unrepresentable("document reference has no content")
	}
	content := doc.Content[0]
	att := content.Attachment
	if att.Title == "" {
		return nil, unrepresentable("attachment has no title")
	}

	f := &thing.File{
		Name:        att.Title,
		Size:        att.Size,
		ContentType: thing.CodableValue{Text: att.ContentType},
	}
	if content.Format != nil {
		f.ContentType.Codes = []thing.CodedValue{t.vocab.FromCoding(*content.Format)}
	}
	t.itemFromFhir(&doc.DomainResource, &f.Item)

	switch {
	case strings.HasPrefix(att.URL, blobScheme):
		f.BlobID = strings.TrimPrefix(att.URL, blobScheme)
		if f.Size == 0 && t.blobs != nil {
			md, err := t.blobs.GetMetadata(ctx, f.BlobID)
			if err != nil {
				return nil, blobError(f.BlobID, err)
			}
			f.Size = md.Size
		}
	case att.URL != "":
		return nil, notImplemented("attachment content at external url %q", att.URL)
	case len(att.Data) > 0 && t.blobs != nil:
		md, err := blobstore.Put(ctx, t.blobs, f.Name, att.ContentType, bytes.NewReader(att.Data))
		if err != nil {
			return nil, fmt.Errorf("store file content: %w", err)
		}
		f.BlobID = md.ID
		f.Size = md.Size
	case len(att.Data) > 0:
		f.Content = att.Data
		f.Size = int64(len(att.Data))
	}
	return f, nil
}

func blobError(id string, err error) error {
	if errors.Is(err, blobstore.ErrBlobNotFound) {
		return unrepresentable("file content %s: %v", id, err)
	}
	return fmt.Errorf("file content %s: %w", id, err)
}
