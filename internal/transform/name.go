package transform

import (
	"strings"

	"github.com/ehr/hvfhir/internal/platform/fhir"
	"github.com/ehr/hvfhir/internal/thing"
)

// NameToFhir maps a person's name. Title and suffix travel as text only.
func NameToFhir(n thing.Name) fhir.HumanName {
	out := fhir.HumanName{Text: n.Full, Family: n.Last}
	if n.First != "" {
		out.Given = append(out.Given, n.First)
	}
	if n.Middle != "" {
		out.Given = append(out.Given, n.Middle)
	}
	if s := n.Title.String(); s != "" {
		out.Prefix = []string{s}
	}
	if s := n.Suffix.String(); s != "" {
		out.Suffix = []string{s}
	}
	return out
}

// NameToHealthVault is the inverse of NameToFhir. Given names after the first
// are joined into Middle.
func NameToHealthVault(h fhir.HumanName) thing.Name {
	n := thing.Name{Full: h.Text, Last: h.Family}
	if len(h.Given) > 0 {
		n.First = h.Given[0]
		n.Middle = strings.Join(h.Given[1:], " ")
	}
	if len(h.Prefix) > 0 {
		n.Title = &thing.CodableValue{Text: strings.Join(h.Prefix, " ")}
	}
	if len(h.Suffix) > 0 {
		n.Suffix = &thing.CodableValue{Text: strings.Join(h.Suffix, " ")}
	}
	if n.Full == "" {
		n.Full = strings.Join(nonEmpty(h.Prefix, h.Given, []string{h.Family}, h.Suffix), " ")
	}
	return n
}

func nonEmpty(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		for _, s := range p {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
