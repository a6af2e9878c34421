package agentsmd

const agentsMDTemplate = `<!-- better-agents:generated:start -->
# {{ .ProjectName }}
{{- if .Goal }}

{{ .Goal }}
{{- end }}
{{- range .Sections }}

## {{ .Title }}

{{ .Body }}
{{- end }}
{{- if .Skills }}

## Installed Skills
{{- range .Skills }}

### {{ .Name }}

{{ .Description }}
{{- if .RequiredMCPServer }}

Requires the {{ .RequiredMCPServer }} MCP server configured in .mcp.json.
{{- end }}
{{- if .Authentication }}

Authentication: {{ .Authentication }}
{{- end }}
{{- end }}
{{- end }}
<!-- better-agents:generated:end -->`

const defaultCustomSection = `

## Custom Instructions

Add project-specific guidance for coding agents below. This section
survives regeneration.
`
