// Package advice turns readings and free-text questions into canned
// guidance for the chat assistant, and serves the static health tips.
package advice

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"glicosmart/internal/domain"
)

// Rand picks an index in [0, n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Responder selects advisory messages. It holds no state besides its random
// source and is safe for concurrent use when the source is.
type Responder struct {
	rnd Rand
}

// NewResponder returns a Responder drawing variants from r. A nil r uses
// the process-wide math/rand/v2 source.
func NewResponder(r Rand) *Responder {
	if r == nil {
		r = globalRand{}
	}
	return &Responder{rnd: r}
}

const completeProfile = "Olá! Por favor, complete seu perfil para que eu possa te dar conselhos personalizados."

// Greeting is the first assistant message of a session.
func (r *Responder) Greeting(p *domain.Profile) string {
	if p == nil {
		return completeProfile
	}
	return fmt.Sprintf("Olá %s! Sou sua assistente virtual. Estou monitorando sua glicemia e aqui para ajudar.", p.Name)
}

// HydrationTargetML returns the daily water target, 35 ml per kg of body
// weight. ok is false when weight is missing or not a positive number.
func HydrationTargetML(weight string) (ml int, ok bool) {
	w, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(weight, ",", ".")), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, false
	}
	return int(math.Round(w * 35)), true
}

func hydrationGoal(p *domain.Profile) string {
	if ml, ok := HydrationTargetML(p.Weight); ok {
		return fmt.Sprintf("%dml/dia", ml)
	}
	return "pelo menos 2 litros/dia"
}

// ForReading returns the proactive message shown after a new reading. Bands
// follow domain.Classify; Normal and Hiperglicemia are split further.
func (r *Responder) ForReading(p *domain.Profile, reading domain.Reading) string {
	if p == nil {
		return completeProfile
	}
	v, name := reading.Value, p.Name

	switch domain.Classify(float64(v)).Status {
	case domain.StatusHypoglycemia:
		return fmt.Sprintf("🚨 HIPOGLICEMIA DETECTADA!\n\n%s, sua glicemia está em %d mg/dL!\n\n"+
			"AÇÃO IMEDIATA:\n1. Coma 15g de carboidrato rápido AGORA:\n"+
			"   • 1 colher de sopa de mel, OU\n   • Meio copo de suco, OU\n   • 3-4 balas\n"+
			"2. Aguarde 15 minutos\n3. Meça novamente\n4. Se ainda < 70, repita\n\n"+
			"⚠️ Não dirija ou opere máquinas!", name, v)
	case domain.StatusNormal:
		if v < 90 {
			return fmt.Sprintf("⚠️ %s, glicemia baixa: %d mg/dL\n\n"+
				"Não é hipoglicemia ainda, mas está próximo!\n"+
				"• Faça um lanche leve (fruta + castanhas)\n"+
				"• Evite exercícios intensos agora\n"+
				"• Monitore em 1-2 horas", name, v)
		}
		return r.pick([]string{
			fmt.Sprintf("✨ Perfeito, %s! Glicemia ideal: %d mg/dL. Você está fazendo um excelente trabalho! Continue com essa rotina saudável. 💚", name, v),
			fmt.Sprintf("🎉 Ótima notícia! %d mg/dL está na faixa ideal. Mantenha essa alimentação e exercícios. Seu corpo agradece!", v),
			fmt.Sprintf("👏 Excelente controle, %s! %d mg/dL é perfeito. Continue assim e você terá ótimos resultados a longo prazo!", name, v),
		})
	case domain.StatusAlert:
		return fmt.Sprintf("🟡 Atenção, %s. Glicemia em %d mg/dL (alerta).\n\n"+
			"Dicas:\n• Evite doces e carboidratos refinados\n"+
			"• Aumente consumo de fibras e vegetais\n"+
			"• Exercícios regulares ajudam muito\n• Continue monitorando!", name, v)
	default:
		if v > 250 {
			return fmt.Sprintf("🚨 ALERTA CRÍTICO, %s!\n\nGlicemia muito alta: %d mg/dL\n\n"+
				"Ações imediatas:\n• Beba 2-3 copos de água agora\n• Evite qualquer carboidrato\n"+
				"• Faça uma caminhada leve (se possível)\n• Monitore a cada 2 horas\n"+
				"• Se > 300 ou sintomas graves, procure atendimento médico", name, v)
		}
		return fmt.Sprintf("⚠️ %s, glicemia elevada: %d mg/dL\n\n"+
			"Recomendações:\n• Beba água (meta: %s)\n"+
			"• Evite carboidratos nas próximas 3-4 horas\n"+
			"• Faça atividade leve (caminhada de 15 min)\n"+
			"• Próxima refeição: priorize vegetais e proteínas", name, v, hydrationGoal(p))
	}
}

func (r *Responder) pick(variants []string) string {
	i := r.rnd.IntN(len(variants))
	if i < 0 || i >= len(variants) {
		i = 0
	}
	return variants[i]
}
