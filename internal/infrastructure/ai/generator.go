package ai

import (
	"encoding/json"
	"fmt"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"github.com/supabase-community/functions-go"
)

// Nomes das funções de borda que geram perguntas
const (
	generateFormFunction      = "generate-form"
	generateScreeningFunction = "generate-screening-questions"
)

// FunctionInvoker isola a chamada à função de borda: status HTTP e corpo
// bruto, para que o parse fique testável sem rede
type FunctionInvoker interface {
	Invoke(name string, body map[string]interface{}) (int, []byte, error)
}

// Generator consome o endpoint generativo externo. A única responsabilidade
// dele é validar a forma da resposta; contagens inválidas são rejeitadas
// pelos casos de uso antes de chegar aqui.
type Generator struct {
	invoker FunctionInvoker
}

// NewGenerator cria um Generator sobre o cliente de funções do Supabase
func NewGenerator(fn *functions.Client) *Generator {
	return &Generator{invoker: functionsInvoker{fn: fn}}
}

// NewGeneratorWithInvoker permite injetar um invocador fake em testes
func NewGeneratorWithInvoker(invoker FunctionInvoker) *Generator {
	return &Generator{invoker: invoker}
}

// envelope é o formato de resposta das duas funções: ou questions, ou error
type envelope struct {
	Error string `json:"error"`
}

// GenerateFormQuestions pede perguntas de formulário prontas para o esquema
// dinâmico
func (g *Generator) GenerateFormQuestions(title, description string, count int) ([]entities.Question, error) {
	body := map[string]interface{}{
		"title":         title,
		"description":   description,
		"questionCount": count,
	}

	var result struct {
		envelope
		Questions []entities.Question `json:"questions"`
	}
	if err := g.invoke(generateFormFunction, body, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("AI generation failed: %s", result.Error)
	}
	return result.Questions, nil
}

// GenerateScreeningQuestions pede perguntas de triagem a partir da descrição
// do estudo
func (g *Generator) GenerateScreeningQuestions(description, category string, requirements []string) ([]entities.ScreeningQuestion, error) {
	body := map[string]interface{}{
		"studyDescription": description,
		"category":         category,
		"requirements":     requirements,
	}

	var result struct {
		envelope
		Questions []entities.ScreeningQuestion `json:"questions"`
	}
	if err := g.invoke(generateScreeningFunction, body, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("AI generation failed: %s", result.Error)
	}
	return result.Questions, nil
}

// invoke chama a função de borda e decodifica a resposta. Tanto status fora
// de 2xx quanto um campo error num 200 são sinais de falha a serem
// apresentados ao usuário, nunca engolidos.
func (g *Generator) invoke(name string, body map[string]interface{}, out interface{}) error {
	status, payload, err := g.invoker.Invoke(name, body)
	if err != nil {
		return fmt.Errorf("erro ao invocar %s: %w", name, err)
	}

	if status < 200 || status > 299 {
		var failure envelope
		if json.Unmarshal(payload, &failure) == nil && failure.Error != "" {
			return fmt.Errorf("AI generation failed: %s", failure.Error)
		}
		return fmt.Errorf("AI generation failed with status %d", status)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid response format from AI service: %w", err)
	}
	return nil
}

// functionsInvoker adapta o cliente functions-go ao contrato local
type functionsInvoker struct {
	fn *functions.Client
}

func (a functionsInvoker) Invoke(name string, body map[string]interface{}) (int, []byte, error) {
	res, err := a.fn.Invoke(name, body)
	if err != nil {
		return 0, nil, err
	}
	return 200, []byte(res), nil
}
