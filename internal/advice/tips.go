package advice

import (
	"slices"
	"strings"
)

// Category groups health tips.
type Category string

const (
	CategoryFood     Category = "Alimentação"
	CategoryExercise Category = "Exercícios"
	CategoryCare     Category = "Cuidados"
	CategoryGeneral  Category = "Geral"
)

// Tip is one entry of the health tips catalog. Icon names a Lucide icon.
type Tip struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Icon        string   `json:"icon"`
}

var catalog = []Tip{
	{"1", "Controle de Carboidratos", "Monitore a quantidade de carboidratos em cada refeição. Prefira carboidratos complexos como grãos integrais, que liberam glicose mais lentamente.", CategoryFood, "Apple"},
	{"2", "Hidratação Adequada", "Beba pelo menos 2 litros de água por dia. A hidratação adequada ajuda os rins a eliminar o excesso de açúcar no sangue.", CategoryCare, "Droplet"},
	{"3", "Atividade Física Regular", "Pratique exercícios por pelo menos 30 minutos na maioria dos dias da semana. Isso melhora a sensibilidade à insulina e ajuda a controlar a glicemia.", CategoryExercise, "Activity"},
	{"4", "Evite Açúcares Refinados", "Doces, refrigerantes e alimentos processados com alto teor de açúcar causam picos rápidos de glicose. Opte por alternativas naturais.", CategoryFood, "Candy"},
	{"5", "Monitore Regularmente", "Verifique sua glicemia nos horários recomendados pelo seu médico. O monitoramento constante é chave para entender e controlar o diabetes.", CategoryCare, "Gauge"},
	{"6", "Gerencie o Estresse", "O estresse pode elevar os níveis de glicose. Pratique técnicas de relaxamento como meditação, yoga ou hobbies que você goste.", CategoryCare, "CloudRain"},
	{"7", "Fibras na Dieta", "Alimentos ricos em fibras (vegetais, frutas, leguminosas) ajudam a retardar a absorção de açúcar, mantendo a glicemia mais estável.", CategoryFood, "Salad"},
	{"8", "Sono de Qualidade", "Durma de 7 a 9 horas por noite. A privação do sono pode afetar a sensibilidade à insulina e o controle da glicemia.", CategoryCare, "Moon"},
	{"9", "Consulte um Nutricionista", "Um profissional pode criar um plano alimentar personalizado para suas necessidades, auxiliando no controle do diabetes.", CategoryGeneral, "UserCog"},
	{"10", "Caminhada Pós-Refeição", "Uma caminhada leve de 15-20 minutos após as refeições pode ajudar a reduzir os picos de glicemia pós-prandiais.", CategoryExercise, "Walk"},
}

// Tips returns the tips in category, or the whole catalog when category is
// empty or "todas". Matching ignores case and accents.
func Tips(category string) []Tip {
	want := strings.TrimSpace(Normalize(category))
	if want == "" || want == "todas" || want == "all" {
		return slices.Clone(catalog)
	}
	out := make([]Tip, 0, len(catalog))
	for _, t := range catalog {
		if Normalize(string(t.Category)) == want {
			out = append(out, t)
		}
	}
	return out
}
