package summary

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTemplate    = "다음 뉴스를 한 문장으로 아주 간단하고 명확하게 요약해줘:\n\n%s"
	DefaultFallback    = "요약을 생성할 수 없습니다."
	DefaultPlaceholder = "요약할 내용이 없습니다."
)

// PromptConfig holds the instruction template and the fixed texts shown
// when no summary can be produced.
type PromptConfig struct {
	Template    string `yaml:"template"`
	MaxTokens   int    `yaml:"max_tokens"`
	Fallback    string `yaml:"fallback"`
	Placeholder string `yaml:"placeholder"`
}

func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		Template:    DefaultTemplate,
		MaxTokens:   80,
		Fallback:    DefaultFallback,
		Placeholder: DefaultPlaceholder,
	}
}

// LoadPromptConfig reads YAML overrides from path on top of base.
// An empty path returns base unchanged.
func LoadPromptConfig(path string, base PromptConfig) (PromptConfig, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PromptConfig{}, fmt.Errorf("failed to read file: %w", err)
	}

	var override PromptConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return PromptConfig{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config := base
	if override.Template != "" {
		config.Template = override.Template
	}
	if override.MaxTokens != 0 {
		config.MaxTokens = override.MaxTokens
	}
	if override.Fallback != "" {
		config.Fallback = override.Fallback
	}
	if override.Placeholder != "" {
		config.Placeholder = override.Placeholder
	}

	if err := config.validate(); err != nil {
		return PromptConfig{}, fmt.Errorf("invalid prompt config %s: %w", path, err)
	}

	return config, nil
}

func (c PromptConfig) validate() error {
	if strings.Count(c.Template, "%s") != 1 {
		return fmt.Errorf("template must contain exactly one %%s placeholder")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	return nil
}

// render substitutes text for the %s placeholder. Any other % in the
// template is kept literally.
func (c PromptConfig) render(text string) string {
	return strings.Replace(c.Template, "%s", text, 1)
}
