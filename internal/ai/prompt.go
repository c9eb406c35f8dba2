package ai

import (
	"fmt"
	"strings"
	"text/template"
)

const promptText = `Você é um assistente de um casal de recém-casados{{if .Couple}}, {{.Couple}}{{end}}. Sua tarefa é redigir mensagens personalizadas, carinhosas, elegantes, românticas e delicadas para os convidados do casamento, em português do Brasil.

Evite qualquer tom institucional ou corporativo. A mensagem deve soar íntima e pessoal, como se tivesse sido escrita pelo próprio casal.

Convidado: {{.GuestName}}
Tipo de mensagem: {{.Kind}}
{{if .Attending}}{{if deref .Attending}}
Presença confirmada: Sim{{if gt .Companions 0}}
Número de acompanhantes: {{.Companions}}{{end}}{{else}}
Presença confirmada: Não{{end}}{{end}}
{{if .Gifts}}
Presentes recebidos:
{{range .Gifts}}- {{.Name}}{{if .Description}} ({{.Description}}){{end}}{{if gt .Value 0.0}} (Valor: {{brl .Value}}){{end}}
{{end}}{{end}}{{if .Context}}
Contexto adicional: {{.Context}}
{{end}}
Com base nas informações acima, escreva uma mensagem personalizada para {{.GuestName}} do tipo '{{.Kind}}'. O tom deve ser caloroso e pessoal, fazendo o convidado se sentir valorizado e querido.

Tipos de mensagem:
- 'thank-you': agradeça sinceramente a presença e/ou o presente, citando o presente quando houver.
- 'reminder': lembre com delicadeza de uma data ou ação próxima, como a confirmação de presença.
- 'general-communication': uma mensagem calorosa e geral para o convidado.

Responda apenas com o texto da mensagem.`

var promptTemplate = template.Must(template.New("guest_message").Funcs(template.FuncMap{
	"deref": func(b *bool) bool { return b != nil && *b },
	"brl":   func(v float64) string { return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1) },
}).Parse(promptText))

// RenderPrompt fills the prompt template for req
func RenderPrompt(req MessageRequest) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, req); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
