/*
 * Copyright 2024-2025 by the Warden authors
 * https://github.com/kradscan/warden
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package report

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/valyala/bytebufferpool"
)

const reportTemplate = `{{- if .Clean }}
No suspicious handles or overlays detected.
{{- else }}
{{- if .Handles }}
=== Suspicious Handles ({{ len .Handles }}) ===
{{ .HandleTable }}
{{- end }}
{{- if .Windows }}
=== Matched Overlay Windows ({{ len .Windows }}) ===
{{ range .Windows }}{{ . }}
{{ end -}}
{{- end }}
{{- if .YaraMatches }}
=== YARA Matches ({{ len .YaraMatches }}) ===
{{ range .YaraMatches }}  - {{ . }}
{{ end -}}
{{- end }}
{{- end }}

Target: {{ .TargetName }} (pid {{ .TargetPID }})
Scanned in {{ .DurationHuman }}
`

// templateData adapts Report with the helper methods/fields the
// template needs without leaking rendering concerns into Report
// itself.
type templateData struct {
	*Report
}

func (d templateData) DurationHuman() string {
	return humanize.RelTime(d.StartedAt, d.StartedAt.Add(d.Duration), "", "")
}

func (d templateData) HandleTable() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Owner PID", "Access Mask", "Rights", "NT Path", "Win32 Path", "Signed"})
	for _, c := range d.Handles {
		signed := "unknown"
		if c.Image.Signed != nil {
			if *c.Image.Signed {
				signed = "yes"
			} else {
				signed = "no"
			}
		}
		t.AppendRow(table.Row{
			c.Raw.OwnerPID,
			c.Raw.GrantedAccess,
			c.Rights,
			c.Image.NTPath,
			c.Image.Win32Path,
			signed,
		})
	}
	return t.Render()
}

// Render builds the plain-text report body using a text/template
// instance decorated with the sprig FuncMap, writing into a pooled
// buffer rather than a fresh strings.Builder per call.
func Render(r *Report) (string, error) {
	tmpl, err := template.New("report").Funcs(sprig.TxtFuncMap()).Parse(reportTemplate)
	if err != nil {
		return "", err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := tmpl.Execute(buf, templateData{r}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
