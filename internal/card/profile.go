package card

import (
	"fmt"
	"sort"

	"github.com/obsidianstack/sccrelay/internal/finding"
)

// FactFunc resolves one fact value from a decoded message.
type FactFunc func(msg *finding.Message) (string, error)

// FactSpec names a fact and how to resolve it.
type FactSpec struct {
	Name  string
	Value FactFunc
}

// Profile is an ordered fact selection.
type Profile struct {
	Name  string
	Facts []FactSpec
}

// Profile names accepted in configuration.
const (
	ProfileFull    = "full"
	ProfileSummary = "summary"
)

func findingField(path ...string) FactFunc {
	return func(msg *finding.Message) (string, error) {
		return msg.Finding.Text(path...)
	}
}

func resourceNameType(msg *finding.Message) (string, error) {
	name, err := msg.Resource.Text("name")
	if err != nil {
		return "", err
	}
	typ, err := msg.Resource.Text("type")
	if err != nil {
		return "", err
	}
	return name + " - " + typ, nil
}

func contactsBlock(msg *finding.Message) (string, error) {
	c, err := msg.Finding.Contacts()
	if err != nil {
		return "", err
	}
	return FormatContacts(c), nil
}

var (
	factFindingClass   = FactSpec{"Finding Class", findingField("findingClass")}
	factEventTime      = FactSpec{"Event Time", findingField("eventTime")}
	factSeverity       = FactSpec{"Severity", findingField("severity")}
	factState          = FactSpec{"State", findingField("state")}
	factCategory       = FactSpec{"Category", findingField("category")}
	factResourceName   = FactSpec{"Resource Name", resourceNameType}
	factExplanation    = FactSpec{"Explanation", findingField("sourceProperties", "Explanation")}
	factRecommendation = FactSpec{"Recommendation", findingField("sourceProperties", "Recommendation")}
	factRemediation    = FactSpec{"gcloud Remediation", findingField("sourceProperties", "gcloud_remediation")}
	factContacts       = FactSpec{"Contacts", contactsBlock}
)

// Full is the complete card: finding details, the affected resource and the
// formatted contacts.
var Full = Profile{
	Name: ProfileFull,
	Facts: []FactSpec{
		factFindingClass,
		factEventTime,
		factSeverity,
		factState,
		factCategory,
		factResourceName,
		factExplanation,
		factRecommendation,
		factRemediation,
		factContacts,
	},
}

// Summary is the reduced card for a secondary channel.
var Summary = Profile{
	Name: ProfileSummary,
	Facts: []FactSpec{
		factFindingClass,
		factEventTime,
		factExplanation,
		factRecommendation,
		factRemediation,
	},
}

var profiles = map[string]Profile{
	ProfileFull:    Full,
	ProfileSummary: Summary,
}

// Lookup returns the named profile. An empty name selects Full.
func Lookup(name string) (Profile, error) {
	if name == "" {
		return Full, nil
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("card: unknown profile %q (want one of %v)", name, ProfileNames())
	}
	return p, nil
}

// ProfileNames lists the known profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
