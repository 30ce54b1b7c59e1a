package prompts

import (
	"bytes"
	"text/template"

	"lens-agent/internal/application/port/output"
)

type ToolInfo struct {
	Name        string
	Description string
}

type SystemPromptData struct {
	ChainName string
	Tools     []ToolInfo
}

// GenerateSystemPrompt renders baseTemplate with the tools of one turn.
// Tools are listed in registry order.
func GenerateSystemPrompt(baseTemplate, chainName string, tools output.ToolRegistry) (string, error) {
	defs := tools.Definitions()
	infos := make([]ToolInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, ToolInfo{
			Name:        def.Name.String(),
			Description: def.Description,
		})
	}

	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, SystemPromptData{ChainName: chainName, Tools: infos}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
