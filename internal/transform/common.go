package transform

import (
	"html"
	"strings"

	"github.com/ehr/hvfhir/internal/mapping/extension"
	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
	"github.com/ehr/hvfhir/pkg/fhirmodels"
)

const (
	xhtmlOpen  = `<div xmlns="http://www.w3.org/1999/xhtml">`
	xhtmlClose = `</div>`
)

func meta(d *fhir.DomainResource) *fhir.Meta {
	if d.Meta == nil {
		d.Meta = &fhir.Meta{}
	}
	return d.Meta
}

// itemToFhir copies the metadata every item carries onto d.
func (t *Transformer) itemToFhir(th thing.Thing, d *fhir.DomainResource) {
	item := th.Base()
	if item.Key != nil {
		d.ID = item.Key.ID
		if item.Key.VersionStamp != "" {
			meta(d).VersionID = item.Key.VersionStamp
		}
	}
	if item.EffectiveDate != nil {
		ts := item.EffectiveDate.UTC()
		meta(d).LastUpdated = &ts
	}

	c := item.Common
	if c.Source != "" {
		meta(d).Source = c.Source
	}
	for _, tag := range c.Tags {
		meta(d).Tag = append(meta(d).Tag, fhir.Coding{Code: tag})
	}
	if c.Note != "" {
		d.Text = &fhir.Narrative{
			Status: fhir.NarrativeAdditional,
			Div:    xhtmlOpen + html.EscapeString(c.Note) + xhtmlClose,
		}
		d.AddExtension(extension.String(extension.Note, c.Note))
	}
	if c.ClientID != "" {
		d.AddExtension(extension.String(extension.ClientID, c.ClientID))
	}
	for _, r := range c.RelatedItems {
		d.AddExtension(relatedItemToFhir(r))
	}

	if item.State == thing.StateDeleted {
		d.AddExtension(extension.Code(extension.ThingState, string(item.State)))
	}
	if item.Flags != 0 {
		d.AddExtension(extension.Int(extension.ThingFlags, int(item.Flags)))
	}
	d.AddExtension(extension.Coding(extension.ThingType, fhir.Coding{
		System:  fhirmodels.SystemHealthVaultThingType,
		Code:    th.TypeID(),
		Display: th.TypeName(),
	}))
}

// itemFromFhir restores the shared item metadata from d.
func (t *Transformer) itemFromFhir(d *fhir.DomainResource, item *thing.Item) {
	var version string
	if d.Meta != nil {
		version = d.Meta.VersionID
	}
	if d.ID != "" || version != "" {
		item.Key = &thing.Key{ID: d.ID, VersionStamp: version}
	}
	if d.Meta != nil {
		if d.Meta.LastUpdated != nil {
			ts := *d.Meta.LastUpdated
			item.EffectiveDate = &ts
		}
		item.Common.Source = d.Meta.Source
		for _, tag := range d.Meta.Tag {
			item.Common.Tags = append(item.Common.Tags, tag.Code)
		}
	}

	item.Common.Note = extension.GetString(d.Extension, extension.Note)
	if item.Common.Note == "" && d.Text != nil {
		item.Common.Note = narrativeText(d.Text.Div)
	}
	item.Common.ClientID = extension.GetString(d.Extension, extension.ClientID)
	for _, e := range fhir.FindExtensions(d.Extension, extension.RelatedItem) {
		item.Common.RelatedItems = append(item.Common.RelatedItems, relatedItemFromFhir(e))
	}

	if s := extension.GetCode(d.Extension, extension.ThingState); s != "" {
		item.State = thing.State(s)
	}
	if f := extension.GetInt(d.Extension, extension.ThingFlags); f != nil {
		item.Flags = thing.Flags(*f)
	}
}

// narrativeText unwraps a div produced by itemToFhir. Any other markup is
// returned as is.
func narrativeText(div string) string {
	if strings.HasPrefix(div, xhtmlOpen) && strings.HasSuffix(div, xhtmlClose) {
		inner := strings.TrimSuffix(strings.TrimPrefix(div, xhtmlOpen), xhtmlClose)
		return html.UnescapeString(inner)
	}
	return div
}

// thingTypeOf returns the item type id recorded on d, or "".
func thingTypeOf(d *fhir.DomainResource) string {
	if c := extension.GetCoding(d.Extension, extension.ThingType); c != nil {
		return c.Code
	}
	return ""
}

func relatedItemToFhir(r thing.RelatedItem) fhir.Extension {
	var parts []fhir.Extension
	if r.ItemID != "" {
		parts = append(parts, extension.String(extension.RelatedItemID, r.ItemID))
	}
	if r.VersionStamp != "" {
		parts = append(parts, extension.String(extension.RelatedVersionStamp, r.VersionStamp))
	}
	if r.ClientID != "" {
		parts = append(parts, extension.String(extension.RelatedClientID, r.ClientID))
	}
	if r.RelationshipType != "" {
		parts = append(parts, extension.String(extension.RelatedRelationshipType, r.RelationshipType))
	}
	return extension.Complex(extension.RelatedItem, parts...)
}

func relatedItemFromFhir(e fhir.Extension) thing.RelatedItem {
	return thing.RelatedItem{
		ItemID:           extension.GetString(e.Extension, extension.RelatedItemID),
		VersionStamp:     extension.GetString(e.Extension, extension.RelatedVersionStamp),
		ClientID:         extension.GetString(e.Extension, extension.RelatedClientID),
		RelationshipType: extension.GetString(e.Extension, extension.RelatedRelationshipType),
	}
}

// Small helpers shared by the mappers.

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func firstConcept(ccs []fhir.CodeableConcept) *fhir.CodeableConcept {
	if len(ccs) == 0 {
		return nil
	}
	return &ccs[0]
}

// concepts wraps an optional concept in a slice.
func concepts(cc *fhir.CodeableConcept) []fhir.CodeableConcept {
	if cc == nil {
		return nil
	}
	return []fhir.CodeableConcept{*cc}
}
