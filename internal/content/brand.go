package content

import "fmt"

// Brand is the publishing identity baked into prompts and structured data.
type Brand struct {
	Name       string
	SiteURL    string
	BookingURL string
	Contact    string
}

// DefaultBrand returns the AgentWeb identity for the given site URL.
func DefaultBrand(name, siteURL string) Brand {
	return Brand{
		Name:       name,
		SiteURL:    siteURL,
		BookingURL: "https://calendly.com/harsha-agentweb/30min",
		Contact:    "Harsha",
	}
}

// CTA is the closing paragraph every article must end with.
func (b Brand) CTA() string {
	return fmt.Sprintf("Ready to put your marketing on autopilot? [Book a call with %s](%s) to walk through your current marketing workflow and see how %s can help you scale.",
		b.Contact, b.BookingURL, b.Name)
}

// LogoURL is the organization logo referenced by JSON-LD.
func (b Brand) LogoURL() string {
	return b.SiteURL + "/logo.png"
}

// PostURL is the canonical blog URL for slug.
func (b Brand) PostURL(slug string) string {
	return b.SiteURL + "/blog/" + slug
}
