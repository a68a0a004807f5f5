package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// Card dimensions in millimetres (ISO/IEC 7810 ID-1, CR80)
const (
	CardWidthMM  = 85.6
	CardHeightMM = 54.0
)

// ProofData is everything printed on the card
type ProofData struct {
	OrderNumber     string
	DesignName      string
	Material        string
	FullName        string
	Designation     string
	Company         string
	Phone           string
	Email           string
	Website         string
	ProfileURL      string
	QRDataURI       template.URL
	AccentColor     string
	Personalization map[string]string
}

type field struct {
	Key   string
	Value string
}

// Fields returns the personalization entries sorted by key
func (d ProofData) Fields() []field {
	out := make([]field, 0, len(d.Personalization))
	for k, v := range d.Personalization {
		if strings.TrimSpace(v) != "" {
			out = append(out, field{Key: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

var proofTemplate = template.Must(template.New("proof").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>{{.OrderNumber}}</title>
<style>
@page { size: {{printf "%.1f" .Width}}mm {{printf "%.1f" .Height}}mm; margin: 0; }
body { margin: 0; font-family: Helvetica, Arial, sans-serif; }
.side { width: {{printf "%.1f" .Width}}mm; height: {{printf "%.1f" .Height}}mm; box-sizing: border-box; padding: 5mm; page-break-after: always; position: relative; }
.front { border-left: 3mm solid {{.AccentColor}}; }
.name { font-size: 14pt; font-weight: bold; }
.meta { font-size: 8pt; color: #444; }
.contact { position: absolute; bottom: 5mm; font-size: 7pt; }
.back { display: flex; align-items: center; justify-content: center; flex-direction: column; }
.back img { width: 30mm; height: 30mm; }
.tag { font-size: 6pt; color: #888; margin-top: 2mm; }
</style></head>
<body>
<div class="side front">
  <div class="name">{{.FullName}}</div>
  {{if .Designation}}<div class="meta">{{.Designation}}</div>{{end}}
  {{if .Company}}<div class="meta">{{.Company}}</div>{{end}}
  {{range .Fields}}<div class="meta">{{.Value}}</div>{{end}}
  <div class="contact">{{.Phone}}{{if .Email}} &middot; {{.Email}}{{end}}{{if .Website}} &middot; {{.Website}}{{end}}</div>
</div>
<div class="side back">
  {{if .QRDataURI}}<img src="{{.QRDataURI}}" alt="QR">{{end}}
  <div class="tag">Tap or scan &middot; {{.ProfileURL}}</div>
  <div class="tag">{{.OrderNumber}} &middot; {{.DesignName}}{{if .Material}} ({{.Material}}){{end}}</div>
</div>
</body></html>`))

// RenderProofHTML fills the card template. All values are HTML-escaped.
func RenderProofHTML(d ProofData) (string, error) {
	if strings.TrimSpace(d.FullName) == "" {
		return "", fmt.Errorf("proof: full name is required")
	}
	if d.AccentColor == "" {
		d.AccentColor = "#111827"
	}

	var buf bytes.Buffer
	err := proofTemplate.Execute(&buf, struct {
		ProofData
		Width, Height float64
		Fields        []field
	}{d, CardWidthMM, CardHeightMM, d.Fields()})
	if err != nil {
		return "", fmt.Errorf("proof: render template: %w", err)
	}
	return buf.String(), nil
}
