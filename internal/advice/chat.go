package advice

import (
	"fmt"
	"strings"
	"unicode"

	"glicosmart/internal/domain"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chatContext is what a rule may use to build its reply.
type chatContext struct {
	profile *domain.Profile
	latest  *domain.Reading
	pick    func([]string) string
}

type rule struct {
	topic    string
	keywords []string
	reply    func(c chatContext) string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
// A keyword matches any word of the normalised question that starts with it.
var rules = []rule{
	{
		topic:    "exercise",
		keywords: []string{"exercicio", "treino", "academia", "caminhada", "corrida", "malhar", "sedentari"},
		reply: func(c chatContext) string {
			return c.pick([]string{
				fmt.Sprintf("💪 Excelente, %s! Exercícios são fundamentais para o controle glicêmico. Dicas importantes:\n\n"+
					"• Meça sua glicemia antes e depois do treino\n"+
					"• Se < 100 mg/dL: faça um lanche com carboidrato + proteína (ex: banana + pasta de amendoim)\n"+
					"• Se > 250 mg/dL: evite exercícios intensos até normalizar\n"+
					"• Hidrate-se bem durante toda a atividade", c.profile.Name),
				"🏃 Atividade física regular melhora a sensibilidade à insulina! Recomendo:\n\n" +
					"• Aeróbico: 110-150 min/semana (caminhada, natação, ciclismo)\n" +
					"• Musculação: 2-3x/semana para aumentar massa muscular\n" +
					"• Horário ideal: 30-60 min após refeições (ajuda a reduzir picos)\n" +
					"• Sempre carregue uma fonte de glicose rápida (suco, balas)",
				"⚡ O exercício pode baixar sua glicemia por até 24h! Por isso:\n\n" +
					"• Monitore mais frequentemente nos dias de treino\n" +
					"• Evite treinar em jejum se sua glicemia estiver < 90 mg/dL\n" +
					"• Após treinos intensos, faça um lanche com proteína\n" +
					"• Se sentir tremores, tontura ou suor frio, pare e meça imediatamente",
			})
		},
	},
	{
		topic: "harmful-food",
		keywords: []string{"bolacha", "balacha", "bilacha", "biscoito", "doce", "acucar", "refrigerante",
			"salgadinho", "chocolate", "bolo", "sorvete", "pizza"},
		reply: func(c chatContext) string {
			return fmt.Sprintf("⚠️ Cuidado, %s! Esses alimentos causam picos de glicemia!\n\n"+
				"🚫 Alimentos que você deve EVITAR:\n"+
				"• Bolachas/biscoitos (mesmo os \"sem açúcar\" têm farinha refinada)\n"+
				"• Doces, chocolates, balas\n• Refrigerantes e sucos industrializados\n"+
				"• Pão branco, bolos, massas refinadas\n• Salgadinhos e frituras\n\n"+
				"💡 Alternativas mais saudáveis:\n• Castanhas, nozes, amêndoas\n"+
				"• Frutas com baixo índice glicêmico (morango, maçã com casca)\n"+
				"• Iogurte natural sem açúcar\n• Pipoca caseira (sem açúcar)\n"+
				"• Chocolate 70%% cacau (pequena porção)", c.profile.Name)
		},
	},
	{
		topic: "nutrition",
		keywords: []string{"alimentacao", "dieta", "comer", "comida", "refeicao", "pao", "massa", "arroz",
			"fruta", "carne", "salada", "legume", "verdura"},
		reply: func(c chatContext) string {
			return c.pick([]string{
				"🥗 Alimentação é 70% do controle glicêmico! Regra de ouro:\n\n" +
					"• Evite: açúcar, refrigerantes, pão branco, massas refinadas, doces\n" +
					"• Priorize: vegetais, proteínas magras, gorduras boas (abacate, azeite, castanhas)\n" +
					"• Carboidratos: prefira integrais e sempre combine com proteína/fibra\n" +
					"• Método do prato: 50% vegetais, 25% proteína, 25% carboidrato",
				"🍽️ Dicas práticas para suas refeições:\n\n" +
					"• Coma a cada 3-4 horas (evita hipoglicemia)\n" +
					"• Comece pela salada (fibras reduzem absorção de glicose)\n" +
					"• Mastigue devagar (melhora saciedade e digestão)\n" +
					"• Evite sucos (mesmo naturais, têm muito açúcar sem fibra)\n" +
					"• Leia rótulos: evite produtos com açúcar nos 3 primeiros ingredientes",
				"🥑 Alimentos que ajudam no controle:\n\n" +
					"• Canela (melhora sensibilidade à insulina)\n" +
					"• Aveia (fibra solúvel, libera glicose lentamente)\n" +
					"• Peixes (ômega-3 reduz inflamação)\n" +
					"• Leguminosas (feijão, lentilha - baixo índice glicêmico)\n" +
					"• Vegetais verde-escuros (magnésio auxilia metabolismo da glicose)",
			})
		},
	},
	{
		topic:    "hydration",
		keywords: []string{"agua", "hidratar", "hidratacao", "sede", "beber"},
		reply: func(c chatContext) string {
			goal := "• Meta diária: pelo menos 2 litros (informe seu peso no perfil para uma meta personalizada)"
			if ml, ok := HydrationTargetML(c.profile.Weight); ok {
				goal = fmt.Sprintf("• Meta diária: %dml (baseado no seu peso de %skg)", ml, c.profile.Weight)
			}
			return "💧 Hidratação é ESSENCIAL! A desidratação concentra o açúcar no sangue.\n\n" + goal + "\n" +
				"• Beba água mesmo sem sede\n• Se glicemia > 200: aumente a ingestão de água\n" +
				"• Evite: refrigerantes, sucos industrializados, bebidas açucaradas\n" +
				"• Pode adicionar: limão, hortelã, gengibre (sem açúcar)"
		},
	},
	{
		topic:    "symptoms",
		keywords: []string{"tontura", "tonto", "tremor", "tremendo", "suor", "suando", "fraqueza", "mal"},
		reply: func(chatContext) string {
			return "🚨 ATENÇÃO - Possível Hipoglicemia!\n\nFaça AGORA:\n" +
				"1. Meça sua glicemia imediatamente\n" +
				"2. Se < 70 mg/dL: coma 15g de carboidrato rápido (1 colher de mel, meio copo de suco, 3 balas)\n" +
				"3. Aguarde 15 minutos e meça novamente\n4. Se ainda < 70: repita o passo 2\n" +
				"5. Após normalizar, faça um lanche com proteína\n\n" +
				"⚠️ Se não melhorar ou piorar, procure ajuda médica!"
		},
	},
	{
		topic:    "sleep-stress",
		keywords: []string{"sono", "dormir", "cansaco", "cansado", "cansada", "estresse", "ansiedade"},
		reply: func(chatContext) string {
			return "😴 Sono e estresse afetam MUITO a glicemia!\n\nSono:\n" +
				"• Durma 7-9h por noite (falta de sono aumenta resistência à insulina)\n" +
				"• Evite telas 1h antes de dormir\n• Mantenha horários regulares\n\nEstresse:\n" +
				"• Cortisol (hormônio do estresse) eleva a glicemia\n" +
				"• Pratique: meditação, respiração profunda, yoga\n" +
				"• Exercícios ajudam a reduzir estresse e glicemia"
		},
	},
	{
		topic:    "interpretation",
		keywords: []string{"resultado", "valor", "normal", "alto", "alta", "baixo", "baixa"},
		reply: func(c chatContext) string {
			last := "Faça uma medição para análise personalizada"
			if c.latest != nil {
				last = fmt.Sprintf("Sua última leitura: %d mg/dL", c.latest.Value)
			}
			return "📊 Entendendo seus resultados:\n\n" +
				"🟢 Normal (70-144 mg/dL): Parabéns! Continue assim\n" +
				"🟡 Alerta (145-200 mg/dL): Atenção! Ajuste alimentação e exercícios\n" +
				"🔴 Hiperglicemia (>200 mg/dL): Evite carboidratos, beba água, monitore de perto\n" +
				"⚠️ Hipoglicemia (<70 mg/dL): ação imediata necessária!\n\n" + last
		},
	},
	{
		topic:    "history",
		keywords: []string{"media", "historico", "estatistica", "tendencia", "evolucao", "progresso"},
		reply: func(c chatContext) string {
			var last string
			if c.latest != nil {
				last = fmt.Sprintf("Sua última medição foi %d mg/dL - %s\n\n", c.latest.Value, trendVerdict(c.latest.Value))
			}
			return "📈 Análise do seu histórico:\n\n" + last +
				"💡 Dicas para melhorar sua média:\n" +
				"• Monitore em diferentes horários (jejum, pós-refeições)\n" +
				"• Identifique padrões: quais alimentos elevam mais sua glicemia?\n" +
				"• Mantenha consistência na alimentação e exercícios\n" +
				"• Registre tudo aqui no GlicoSmart para acompanhar sua evolução\n\n" +
				"Continue registrando suas medições! Quanto mais dados, melhor posso te orientar."
		},
	},
	{
		topic:    "a1c",
		keywords: []string{"a1c", "hemoglobina", "glicada"},
		reply: func(chatContext) string {
			return "🔬 Hemoglobina Glicada (A1C) - Média de 3 meses:\n\n" +
				"• < 5.7%: Normal\n• 5.7-6.4%: Pré-diabetes\n• ≥ 6.5%: Diabetes\n• Meta para diabéticos: < 7%\n\n" +
				"A1C mostra seu controle a longo prazo. Suas medições diárias me ajudam a estimar sua tendência!"
		},
	},
	{
		topic:    "medication",
		keywords: []string{"remedio", "medicamento", "insulina", "metformina"},
		reply: func(chatContext) string {
			return "💊 Sobre medicamentos:\n\n⚠️ IMPORTANTE: Nunca altere doses sem orientação médica!\n\n" +
				"• Tome sempre nos horários corretos\n• Não pule doses\n" +
				"• Alguns medicamentos podem causar hipoglicemia - monitore mais\n" +
				"• Anote efeitos colaterais para relatar ao médico\n" +
				"• Combine sempre com alimentação saudável e exercícios"
		},
	},
	{
		topic:    "tips",
		keywords: []string{"dica", "ajuda", "conselho"},
		reply: func(c chatContext) string {
			return c.pick([]string{
				"✨ Dica de Ouro: Monitore sua glicemia em horários variados (jejum, pós-refeições, antes de dormir). Isso ajuda a identificar padrões e ajustar sua rotina!",
				"🎯 Foco no progresso: Pequenas mudanças consistentes são melhores que mudanças drásticas temporárias. Celebre cada vitória!",
				"📱 Continue registrando suas medições aqui no GlicoSmart. Quanto mais dados, melhor posso te orientar e você pode mostrar ao seu médico!",
				"🌟 Você está no controle! Diabetes é gerenciável com disciplina. Cada escolha saudável conta!",
			})
		},
	},
}

func trendVerdict(v int) string {
	switch domain.Classify(float64(v)).Status {
	case domain.StatusNormal:
		return "🟢 Excelente!"
	case domain.StatusHyperglycemia:
		return "🔴 Atenção, está alto!"
	case domain.StatusHypoglycemia:
		return "⚠️ Baixo demais!"
	default:
		return "🟡 Fique atento"
	}
}

func fallback(c chatContext) string {
	name := c.profile.Name
	if c.latest == nil {
		return c.pick([]string{
			fmt.Sprintf("Olá, %s! Estou aqui para te ajudar com dúvidas sobre glicemia, alimentação, exercícios e saúde. O que você gostaria de saber?", name),
			"Posso te ajudar com informações sobre controle glicêmico, dicas de alimentação saudável, exercícios recomendados e muito mais. Qual sua dúvida?",
			"Estou monitorando sua saúde! Faça uma nova medição para análises mais precisas, ou me pergunte sobre qualquer aspecto do controle da glicemia.",
		})
	}
	v := c.latest.Value
	var hint string
	switch {
	case v > domain.NormalMax:
		hint = "recomendo evitar carboidratos e beber bastante água"
	case v < domain.HypoBelow:
		hint = "⚠️ ATENÇÃO! Você precisa comer algo doce AGORA"
	default:
		hint = "você está em ótimo controle! Continue assim"
	}
	return c.pick([]string{
		fmt.Sprintf("Entendi, %s. Com sua glicemia atual em %d mg/dL, %s. Como posso ajudar mais?", name, v, hint),
		"Interessante! Você sabia que manter um diário das suas refeições junto com as medições ajuda a identificar quais alimentos afetam mais sua glicemia?",
		fmt.Sprintf("%s, estou aqui para te ajudar! Pode me perguntar sobre: exercícios, alimentação, interpretação de resultados, sintomas, ou dicas de controle glicêmico.", name),
	})
}

const (
	askProfile = "Por favor, complete seu perfil para que eu possa te ajudar."
	askText    = "Digite sua dúvida! Posso falar sobre exercícios, alimentação, hidratação, sintomas e seus resultados."
)

// Reply answers a free-text question. latest is the most recent reading, if
// any. The answer is never empty.
func (r *Responder) Reply(p *domain.Profile, latest *domain.Reading, text string) string {
	if p == nil {
		return askProfile
	}
	words := tokenize(text)
	if len(words) == 0 {
		return askText
	}
	c := chatContext{profile: p, latest: latest, pick: r.pick}
	if rl, ok := match(words); ok {
		return rl.reply(c)
	}
	return fallback(c)
}

// Topic names the rule a question would be answered by, or "" when the
// generic fallback applies.
func Topic(text string) string {
	if rl, ok := match(tokenize(text)); ok {
		return rl.topic
	}
	return ""
}

func match(words []string) (rule, bool) {
	for _, rl := range rules {
		for _, kw := range rl.keywords {
			for _, w := range words {
				if strings.HasPrefix(w, kw) {
					return rl, true
				}
			}
		}
	}
	return rule{}, false
}

// Normalize lowercases s and strips diacritics.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
