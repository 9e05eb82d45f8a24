// Package script renders the Markdown script template of an episode.
package script

import (
	"fmt"
	"strings"

	"github.com/myrjola/roteiros/internal/models"
)

const (
	fallbackDescription     = "A equipe se reúne para discutir os próximos passos da implementação dos Nupdecs."
	fallbackConflict        = "Surgem dúvidas sobre como abordar as comunidades e quais critérios usar para priorização."
	fallbackCliffhanger     = "Uma situação inesperada força a equipe a repensar sua estratégia."
	fallbackLearningOutcome = "Os participantes compreendem a importância da escuta ativa e do trabalho colaborativo na " +
		"implementação dos Nupdecs."
	fallbackObjectives = "Nenhum objetivo definido"
	fallbackCharacters = "Nenhum personagem selecionado"
)

// Generate renders the nine-section script of the episode.
//
// number is the episode number shown in the heading. Only characters referenced by the episode are used, in the
// order of characters. References that match no character are skipped.
func Generate(number int, episode models.Episode, characters []models.Character) string {
	selected := models.FilterReferenced(characters, episode.Characters)
	var b strings.Builder

	fmt.Fprintf(&b, "# Roteiro – Episódio %d\n\n", number)

	b.WriteString("## 1. Dados Gerais\n")
	fmt.Fprintf(&b, "- **Título provisório:** %s\n", episode.DisplayTitle())
	b.WriteString("- **Duração estimada:** até 5 min\n")
	b.WriteString("- **Objetivos de aprendizagem:**\n")
	objectives := nonBlank(episode.Objectives)
	if len(objectives) == 0 {
		fmt.Fprintf(&b, "  - %s\n", fallbackObjectives)
	}
	for _, objective := range objectives {
		fmt.Fprintf(&b, "  - %s\n", objective)
	}

	b.WriteString("\n## 2. Personagens em Cena\n")
	if len(selected) == 0 {
		fmt.Fprintf(&b, "- %s\n", fallbackCharacters)
	}
	for _, c := range selected {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", c.Name, c.Role, c.Description)
	}

	b.WriteString("\n## 3. Cenários\n")
	b.WriteString("- **Internos:** Sala de reuniões da Defesa Civil, Centro comunitário\n")
	b.WriteString("- **Externos:** Ruas da comunidade, Praça central\n")

	b.WriteString("\n## 4. Estrutura Narrativa\n")
	fmt.Fprintf(&b, "1. **Abertura / Gancho:**\n   %s\n", orDefault(episode.Description, fallbackDescription))
	fmt.Fprintf(&b, "2. **Conflito / Dúvida:**\n   %s\n", orDefault(episode.Conflict, fallbackConflict))
	b.WriteString("3. **Desenvolvimento:**\n   Os personagens visitam diferentes comunidades, ouvem os moradores e " +
		"identificam as necessidades específicas de cada local.\n")
	fmt.Fprintf(&b, "4. **Síntese & Gancho próximo episódio:**\n   %s\n",
		orDefault(episode.Cliffhanger, fallbackCliffhanger))

	b.WriteString("\n## 5. Diálogo\n")
	b.WriteString("### Cena 1 - Sala de Reuniões\n")
	if len(selected) >= 2 { //nolint:mnd // the scene is a two-person exchange
		fmt.Fprintf(&b, "- **%s:** \"Precisamos definir os critérios para escolher as primeiras comunidades. "+
			"Não podemos começar sem um plano claro.\"\n", selected[0].Name)
		fmt.Fprintf(&b, "- **%s:** \"Concordo. Mas também precisamos ouvir o que as próprias comunidades têm a "+
			"dizer sobre suas necessidades.\"\n", selected[1].Name)
	}
	b.WriteString("\n### Cena 2 - Visita à Comunidade\n")
	b.WriteString("- **Morador:** \"Vocês já vieram aqui antes prometendo ajuda. Como sabemos que desta vez será " +
		"diferente?\"\n")
	if len(selected) > 0 {
		fmt.Fprintf(&b, "- **%s:** \"Entendo sua desconfiança. Desta vez queremos construir algo junto com vocês, "+
			"não para vocês.\"\n", selected[0].Name)
	}

	b.WriteString("\n## 6. Descrição da Cena\n")
	b.WriteString("- **Cena 1:** Interior da sala de reuniões com mapas da cidade espalhados sobre a mesa. " +
		"Iluminação natural através de janelas grandes.\n")
	b.WriteString("- **Cena 2:** Ambiente externo na comunidade, com casas simples ao fundo e moradores reunidos " +
		"em círculo.\n")
	b.WriteString("- **Cena 3:** Close-up nos rostos dos personagens mostrando determinação e esperança.\n")

	b.WriteString("\n## 7. Descrição da Animação\n")
	b.WriteString("- **Cena 1:** enquadramento: plano geral da sala; movimento de câmera: panorâmica lenta sobre " +
		"os mapas\n")
	b.WriteString("- **Cena 2:** enquadramento: plano médio do grupo; movimento de câmera: aproximação gradual\n")
	b.WriteString("- **Cena 3:** enquadramento: close-up; movimento de câmera: estático com foco suave\n")

	b.WriteString("\n## 8. B-roll\n")
	b.WriteString("- **Cena 1:** Imagens de mapas e documentos sendo analisados\n")
	b.WriteString("- **Cena 2:** Planos de estabelecimento da comunidade\n")
	b.WriteString("- **Cena 3:** Detalhes das expressões dos moradores\n")

	b.WriteString("\n## 9. Resultado de Aprendizagem\n")
	fmt.Fprintf(&b, "%s\n", orDefault(episode.LearningOutcome, fallbackLearningOutcome))

	return b.String()
}

// Data is the episode payload sent to the remote script service.
type Data struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Theme           string             `json:"theme"`
	Objectives      []string           `json:"objectives"`
	Characters      []models.Character `json:"characters"`
	Conflict        string             `json:"conflict"`
	LearningOutcome string             `json:"learningOutcome"`
	Cliffhanger     string             `json:"cliffhanger"`
}

// ScriptData builds the remote service payload: blank objectives are dropped and character IDs are replaced with the
// referenced characters.
func ScriptData(episode models.Episode, characters []models.Character) Data {
	return Data{
		Title:           episode.Title,
		Description:     episode.Description,
		Theme:           episode.Theme,
		Objectives:      nonBlank(episode.Objectives),
		Characters:      models.FilterReferenced(characters, episode.Characters),
		Conflict:        episode.Conflict,
		LearningOutcome: episode.LearningOutcome,
		Cliffhanger:     episode.Cliffhanger,
	}
}

func nonBlank(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
