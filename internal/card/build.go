package card

import (
	"fmt"

	"github.com/obsidianstack/sccrelay/internal/finding"
)

// Build renders msg as a MessageCard using profile p.
// Title, subtitle and action are common to every profile; the facts follow
// p in order. The first unresolvable field aborts the build.
func Build(opts Options, p Profile, msg *finding.Message) (*MessageCard, error) {
	state, err := msg.Finding.Text("state")
	if err != nil {
		return nil, err
	}
	category, err := msg.Finding.Text("category")
	if err != nil {
		return nil, err
	}
	severity, err := msg.Finding.Text("severity")
	if err != nil {
		return nil, err
	}
	project, err := msg.Resource.Text("gcpMetadata", "projectDisplayName")
	if err != nil {
		return nil, err
	}
	uri, err := msg.Finding.Text("externalUri")
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(p.Facts))
	for _, fact := range p.Facts {
		v, err := fact.Value(msg)
		if err != nil {
			return nil, fmt.Errorf("card: fact %q: %w", fact.Name, err)
		}
		facts = append(facts, Fact{Name: fact.Name, Value: v})
	}

	return &MessageCard{
		Type:       cardType,
		Context:    cardContext,
		ThemeColor: severityColor(severity),
		Summary:    opts.Summary,
		Sections: []Section{{
			ActivityTitle:    fmt.Sprintf("%s Alert! - %s %s", opts.Provider, state, category),
			ActivitySubtitle: fmt.Sprintf("%s - %s", severity, project),
			ActivityImage:    opts.ImageURL,
			Facts:            facts,
		}},
		PotentialAction: []Action{{
			Type:    openURI,
			Name:    viewFinding,
			Targets: []Target{{OS: "default", URI: uri}},
		}},
	}, nil
}
