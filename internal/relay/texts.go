package relay

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Texts are the fixed strings the bot sends. {error} and {reason} are
// replaced in the failure templates.
type Texts struct {
	Persona        string `yaml:"persona"`
	Greeting       string `yaml:"greeting"`
	Cleared        string `yaml:"cleared"`
	Help           string `yaml:"help"`
	RateLimited    string `yaml:"rate_limited"`
	InvalidRequest string `yaml:"invalid_request"`
	Failure        string `yaml:"failure"`
}

func DefaultTexts() Texts {
	return Texts{
		Persona:  "Тебя зовут Ильнур, ты татар, любишь World of Warcraft и Майнкрафт, шаришь за эчпочмаки, родом с Казахстана, щас в Москве, разговариваешь на ты.",
		Greeting: "Здарова, Эчпочмак! Я Ильнур. Спрашивай чё хочешь, отвечу по делу",
		Cleared:  "Окей, забыл всё что было. Начинаем с чистого листа ✅",
		Help: "❓ Команды:\n\n" +
			"• Просто пиши - я отвечу\n" +
			"• /start - начать заново\n" +
			"• /clear - очистить память диалога\n" +
			"• /help - эта справка\n\n" +
			"Помню последние 2 твоих сообщения 🧠",
		RateLimited:    "⏳ Погоди, слишком много запросов. Попробуй через минуту.",
		InvalidRequest: "❌ Чёт не то: {reason}",
		Failure:        "❌ Ошибочка вышла: {error}\n\nПопробуй позже.",
	}
}

// LoadTexts overlays the YAML file at path on DefaultTexts. An empty path
// returns the defaults.
func LoadTexts(path string) (Texts, error) {
	texts := DefaultTexts()
	if path == "" {
		return texts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Texts{}, fmt.Errorf("read texts file: %w", err)
	}

	if err := yaml.Unmarshal(data, &texts); err != nil {
		return Texts{}, fmt.Errorf("parse texts file %s: %w", path, err)
	}

	if err := texts.Validate(); err != nil {
		return Texts{}, fmt.Errorf("texts file %s: %w", path, err)
	}

	return texts, nil
}

func (t Texts) Validate() error {
	var errs []error
	for name, v := range map[string]string{
		"persona":         t.Persona,
		"greeting":        t.Greeting,
		"cleared":         t.Cleared,
		"help":            t.Help,
		"rate_limited":    t.RateLimited,
		"invalid_request": t.InvalidRequest,
		"failure":         t.Failure,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	return errors.Join(errs...)
}

func (t Texts) invalidRequest(reason string) string {
	return strings.ReplaceAll(t.InvalidRequest, "{reason}", reason)
}

func (t Texts) failure(err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}

	return strings.ReplaceAll(t.Failure, "{error}", detail)
}
