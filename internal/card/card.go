package card

// MessageCard is the legacy Office 365 connector card accepted by Teams
// incoming webhooks.
type MessageCard struct {
	Type            string    `json:"@type"`
	Context         string    `json:"@context"`
	ThemeColor      string    `json:"themeColor,omitempty"`
	Summary         string    `json:"summary"`
	Sections        []Section `json:"sections"`
	PotentialAction []Action  `json:"potentialAction"`
}

// Section is one activity block of a card.
type Section struct {
	ActivityTitle    string `json:"activityTitle"`
	ActivitySubtitle string `json:"activitySubtitle"`
	ActivityImage    string `json:"activityImage,omitempty"`
	Facts            []Fact `json:"facts"`
}

// Fact is a name/value row.
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Action is a card button. Only OpenUri actions are produced.
type Action struct {
	Type    string   `json:"@type"`
	Name    string   `json:"name"`
	Targets []Target `json:"targets"`
}

// Target is the per-OS destination of an OpenUri action.
type Target struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

const (
	cardType    = "MessageCard"
	cardContext = "http://schema.org/extensions"
	openURI     = "OpenUri"
	viewFinding = "View Finding"
)

// Default card options.
const (
	DefaultProvider = "Google Cloud SCC"
	DefaultSummary  = "Security Command Center Notification"
	DefaultImageURL = "https://img.icons8.com/color/high-priority"
)

// Options holds the presentation settings shared by all profiles.
type Options struct {
	// Provider prefixes the card title.
	Provider string

	// Summary is the card summary shown in notifications.
	Summary string

	// ImageURL is the section's activity image. Empty omits it.
	ImageURL string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Provider: DefaultProvider,
		Summary:  DefaultSummary,
		ImageURL: DefaultImageURL,
	}
}

// severityColor maps an SCC severity to a card accent color.
func severityColor(s string) string {
	switch s {
	case "CRITICAL":
		return "FF4F6A"
	case "HIGH":
		return "FF8A3D"
	case "MEDIUM":
		return "FFAB40"
	case "LOW":
		return "00D4FF"
	default:
		return "8A8F98"
	}
}
