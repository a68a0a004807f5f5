package customer

import (
	"strings"
)

const vcardLineEnd = "\r\n"

// VCardContact is the data written to a vCard
type VCardContact struct {
	FullName    string
	Phone       string
	Email       string
	Company     string
	Designation string
	Website     string
	Address     string
	Note        string
	ProfileURL  string
}

// ContactFromCustomer builds the vCard payload for a customer profile
func ContactFromCustomer(c *Customer, profileURL string) VCardContact {
	return VCardContact{
		FullName:    c.FullName,
		Phone:       c.Phone,
		Email:       c.Email,
		Company:     c.Company,
		Designation: c.Designation,
		Website:     c.Website,
		Address:     c.Address,
		Note:        c.Bio,
		ProfileURL:  profileURL,
	}
}

// BuildVCard renders a vCard 3.0. Optional properties are emitted only when
// set, so the output never contains blank lines.
func BuildVCard(c VCardContact) string {
	lines := []string{"BEGIN:VCARD", "VERSION:3.0"}

	name := strings.TrimSpace(c.FullName)
	given, family := splitName(name)
	lines = append(lines,
		"N:"+escapeVCard(family)+";"+escapeVCard(given)+";;;",
		"FN:"+escapeVCard(name),
	)

	if v := strings.TrimSpace(c.Company); v != "" {
		lines = append(lines, "ORG:"+escapeVCard(v))
	}
	if v := strings.TrimSpace(c.Designation); v != "" {
		lines = append(lines, "TITLE:"+escapeVCard(v))
	}
	if v := strings.TrimSpace(c.Phone); v != "" {
		if e164, err := NormalizePhone(v, DefaultRegion); err == nil {
			v = e164
		}
		lines = append(lines, "TEL;TYPE=CELL:"+escapeVCard(v))
	}
	if v := strings.TrimSpace(c.Email); v != "" {
		lines = append(lines, "EMAIL;TYPE=INTERNET:"+escapeVCard(v))
	}
	if v := strings.TrimSpace(c.Website); v != "" {
		lines = append(lines, "URL:"+escapeVCard(v))
	}
	if v := strings.TrimSpace(c.ProfileURL); v != "" {
		lines = append(lines, "URL;TYPE=PROFILE:"+escapeVCard(v))
	}
	if v := strings.TrimSpace(c.Address); v != "" {
		lines = append(lines, "ADR;TYPE=WORK:;;"+escapeVCard(v)+";;;;")
	}
	if v := strings.TrimSpace(c.Note); v != "" {
		lines = append(lines, "NOTE:"+escapeVCard(v))
	}

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, vcardLineEnd) + vcardLineEnd
}

// VCardFileName returns a download file name for the contact
func VCardFileName(fullName string) string {
	return MakeSlug(fullName) + ".vcf"
}

func splitName(full string) (given, family string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", `\,`,
	";", `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", "",
)

func escapeVCard(s string) string {
	return vcardEscaper.Replace(s)
}
