package customer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestBuildVCard(t *testing.T) {
	t.Run("minimal contact has one FN, TEL and EMAIL and no blank lines", func(t *testing.T) {
		card := BuildVCard(VCardContact{
			FullName: "Jane Doe",
			Phone:    "+911234567890",
			Email:    "jane@x.com",
		})

		assert.True(t, strings.HasSuffix(card, "\r\n"))
		lines := strings.Split(strings.TrimSuffix(card, "\r\n"), "\r\n")

		for _, l := range lines {
			assert.NotEmpty(t, strings.TrimSpace(l))
		}
		assert.Equal(t, 1, countPrefix(lines, "FN"))
		assert.Equal(t, 1, countPrefix(lines, "TEL"))
		assert.Equal(t, 1, countPrefix(lines, "EMAIL"))
		assert.Contains(t, lines, "FN:Jane Doe")
		assert.Contains(t, lines, "TEL;TYPE=CELL:+911234567890")
		assert.Contains(t, lines, "EMAIL;TYPE=INTERNET:jane@x.com")
		assert.Contains(t, lines, "N:Doe;Jane;;;")
		assert.Equal(t, "BEGIN:VCARD", lines[0])
		assert.Equal(t, "END:VCARD", lines[len(lines)-1])

		for _, skipped := range []string{"ORG", "TITLE", "URL", "ADR", "NOTE"} {
			assert.Equal(t, 0, countPrefix(lines, skipped), skipped)
		}
	})

	t.Run("optional fields are escaped", func(t *testing.T) {
		card := BuildVCard(VCardContact{
			FullName:    "Ravi Kumar",
			Company:     "Kumar, Sons; Co",
			Designation: "Partner",
			Note:        "line one\nline two",
		})
		assert.Contains(t, card, `ORG:Kumar\, Sons\; Co`+"\r\n")
		assert.Contains(t, card, "TITLE:Partner\r\n")
		assert.Contains(t, card, `NOTE:line one\nline two`+"\r\n")
		assert.NotContains(t, card, "TEL")
	})

	t.Run("local numbers are normalised to E.164", func(t *testing.T) {
		card := BuildVCard(VCardContact{FullName: "A B", Phone: "098765 43210"})
		assert.Contains(t, card, "TEL;TYPE=CELL:+919876543210\r\n")
	})
}

func TestContactFromCustomer(t *testing.T) {
	c := &Customer{FullName: "Jane Doe", Phone: "+911234567890", Email: "jane@x.com", Bio: "hello"}
	contact := ContactFromCustomer(c, "https://taponce.in/p/jane-doe")
	assert.Equal(t, "hello", contact.Note)
	assert.Equal(t, "jane-doe.vcf", VCardFileName(c.FullName))
}
