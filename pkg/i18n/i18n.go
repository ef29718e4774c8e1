package i18n

import (
	"embed"
	"log/slog"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.toml
var localeFiles embed.FS

// Localizer resolves message ids to translated text. An unknown language
// or id falls back to the id itself so a missing translation never breaks
// a response.
type Localizer struct {
	registry map[string]*goi18n.Localizer
}

func NewLocalizer(languages ...string) Localizer {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	l := Localizer{registry: make(map[string]*goi18n.Localizer, len(languages))}
	for _, lang := range languages {
		if _, err := bundle.LoadMessageFileFS(localeFiles, lang+".toml"); err != nil {
			slog.Error("failed to load locale file",
				slog.String("lang", lang),
				slog.String("error", err.Error()))
			continue
		}
		l.registry[lang] = goi18n.NewLocalizer(bundle, lang)
	}
	return l
}

func (l Localizer) Get(lang, id string) string {
	localizer := l.registry[lang]
	if localizer == nil {
		return id
	}

	str, err := localizer.Localize(&goi18n.LocalizeConfig{
		DefaultMessage: &goi18n.Message{ID: id, Other: id},
	})
	if err != nil {
		return id
	}
	return str
}
