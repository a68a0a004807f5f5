package customer

import "strings"

// ContactAction is one button on the public profile
type ContactAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// ContactActions lists the actions available for a profile. Actions with no
// backing data are left out.
func ContactActions(c *Customer, vcardURL string) []ContactAction {
	actions := make([]ContactAction, 0, 5)
	if c.Phone != "" {
		tel := c.Phone
		if e164, err := NormalizePhone(c.Phone, DefaultRegion); err == nil {
			tel = e164
		}
		actions = append(actions, ContactAction{Type: "call", Label: "Call", Href: "tel:" + tel})
	}
	wa := c.WhatsApp
	if wa == "" {
		wa = c.Phone
	}
	if link := WhatsAppLink(wa); wa != "" && link != "" {
		actions = append(actions, ContactAction{Type: "whatsapp", Label: "WhatsApp", Href: link})
	}
	if c.Email != "" {
		actions = append(actions, ContactAction{Type: "email", Label: "Email", Href: "mailto:" + c.Email})
	}
	if c.Website != "" {
		href := c.Website
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			href = "https://" + href
		}
		actions = append(actions, ContactAction{Type: "website", Label: "Website", Href: href})
	}
	if vcardURL != "" {
		actions = append(actions, ContactAction{Type: "save_contact", Label: "Save Contact", Href: vcardURL})
	}
	return actions
}
