package fhir

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Contained holds inline sub-resources. It decodes each element through New
// so the concrete model matches the element's resourceType.
type Contained []Resource

func (c *Contained) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Contained, 0, len(raw))
	for i, r := range raw {
		res, err := Decode(r)
		if err != nil {
			return fmt.Errorf("contained[%d]: %w", i, err)
		}
		out = append(out, res)
	}
	*c = out
	return nil
}

type resourceHeader struct {
	ResourceType string `json:"resourceType"`
}

// Decode unmarshals a FHIR JSON resource into its Go model.
func Decode(data []byte) (Resource, error) {
	var hdr resourceHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("decode resource header: %w", err)
	}
	if hdr.ResourceType == "" {
		return nil, fmt.Errorf("decode resource: resourceType is required")
	}
	res, err := New(hdr.ResourceType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", hdr.ResourceType, err)
	}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", hdr.ResourceType, err)
	}
	return res, nil
}

// Encode marshals a resource as FHIR JSON.
func Encode(res Resource) ([]byte, error) {
	return json.Marshal(res)
}

// EncodeIndent marshals a resource as indented FHIR JSON.
func EncodeIndent(res Resource) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}
