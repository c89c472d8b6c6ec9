// Package i18n хранит локализованные тексты сообщений ботов и оповещений.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage язык, на который откатываются отсутствующие переводы
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

// Catalog набор переводов по языкам
type Catalog struct {
	messages map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

// Load читает встроенные файлы переводов
func Load() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}

	messages := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		raw, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		m := make(map[string]string)
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
		messages[lang] = m
	}
	if _, ok := messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("i18n: default locale %q is missing", DefaultLanguage)
	}

	return newCatalog(messages), nil
}

// MustLoad как Load, но паникует при ошибке
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func newCatalog(messages map[string]map[string]string) *Catalog {
	langs := make([]string, 0, len(messages))
	for l := range messages {
		if l != DefaultLanguage {
			langs = append(langs, l)
		}
	}
	sort.Strings(langs)

	// язык по умолчанию должен быть первым для matcher
	tags := []language.Tag{language.Make(DefaultLanguage)}
	for _, l := range langs {
		tags = append(tags, language.Make(l))
	}

	return &Catalog{
		messages: messages,
		tags:     tags,
		matcher:  language.NewMatcher(tags),
	}
}

// Languages коды поддерживаемых языков
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

// Match приводит произвольный код языка (например, sw-KE) к поддерживаемому
func (c *Catalog) Match(lang string) string {
	if lang == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return c.tags[idx].String()
}

// Has сообщает, есть ли перевод ключа именно на этот язык
func (c *Catalog) Has(lang, key string) bool {
	_, ok := c.messages[c.Match(lang)][key]
	return ok
}

// T возвращает перевод ключа с подстановкой {name} из пар ключ-значение.
// Если перевода нет, используется английский текст, затем сам ключ.
func (c *Catalog) T(lang, key string, kv ...any) string {
	msg, ok := c.messages[c.Match(lang)][key]
	if !ok {
		msg, ok = c.messages[DefaultLanguage][key]
		if !ok {
			msg = key
		}
	}
	if len(kv) == 0 {
		return msg
	}

	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+fmt.Sprint(kv[i])+"}", fmt.Sprint(kv[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
