package ai

import (
	"fmt"
	"strings"

	"github.com/myrjola/roteiros/internal/script"
)

// SystemMessage primes the model as an educational screenwriter.
const SystemMessage = "Você é um roteirista especializado em conteúdo educacional. Crie roteiros detalhados, " +
	"criativos e pedagogicamente eficazes."

const promptTemplate = `
Você é um roteirista especializado em conteúdo educacional. Crie um roteiro completo e detalhado baseado nas informações fornecidas abaixo.

DADOS DO EPISÓDIO:
- Título: %s
- Descrição: %s
- Tema Central: %s
- Objetivos de Aprendizagem: %s
- Personagens: %s
- Conflito: %s
- Resultado de Aprendizagem: %s
- Gancho/Cliffhanger: %s

INSTRUÇÕES:
1. Crie um roteiro estruturado seguindo o formato markdown fornecido
2. Desenvolva diálogos naturais e educativos entre os personagens
3. Descreva cenários apropriados para a narrativa
4. Inclua descrições detalhadas de cenas e animações
5. Mantenha o foco nos objetivos de aprendizagem
6. Duração estimada: até 5 minutos
7. Use os personagens fornecidos de forma coerente com suas características

Retorne o roteiro completo seguindo esta estrutura:

# Roteiro – Episódio [número]

## 1. Dados Gerais
- **Título provisório:** [título]
- **Duração estimada:** até 5 min
- **Objetivos de aprendizagem:**
[lista dos objetivos]

## 2. Personagens em Cena
[lista dos personagens com descrições]

## 3. Cenários
- **Internos:** [cenários internos apropriados]
- **Externos:** [cenários externos apropriados]

## 4. Estrutura Narrativa
1. **Abertura / Gancho:** [como inicia o episódio]
2. **Conflito / Dúvida:** [desenvolvimento do conflito]
3. **Desenvolvimento:** [como o conflito se desenrola]
4. **Síntese & Gancho próximo episódio:** [conclusão e gancho]

## 5. Diálogo
[Desenvolva diálogos completos e naturais entre os personagens, organizados por cenas]

## 6. Descrição da Cena
[Descreva detalhadamente cada cena visual]

## 7. Descrição da Animação
[Especifique enquadramentos e movimentos de câmera para cada cena]

## 8. B-roll (quando houver)
[Imagens de apoio necessárias]

Seja criativo, educativo e mantenha o conteúdo envolvente para o público-alvo.
`

// BuildPrompt embeds the episode data into the screenwriter prompt.
func BuildPrompt(data script.Data) string {
	characters := make([]string, 0, len(data.Characters))
	for _, c := range data.Characters {
		characters = append(characters, fmt.Sprintf("%s (%s): %s", c.Name, c.Role, c.Description))
	}
	return fmt.Sprintf(promptTemplate,
		data.Title,
		data.Description,
		data.Theme,
		strings.Join(data.Objectives, ", "),
		strings.Join(characters, "; "),
		data.Conflict,
		data.LearningOutcome,
		data.Cliffhanger,
	)
}
