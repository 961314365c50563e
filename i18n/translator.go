package i18n

import "strings"

// Translator retrieves localized messages for issue kinds.
// data provides optional metadata to embed in the message (for example,
// "type" or "key").
type Translator interface {
	Message(kind string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"type mismatch":              "expected {type}",
		"unregistered type":          "type {type} is not registered",
		"key mismatch":               "key does not match {type}",
		"invalid key type":           "key type {type} has no validator",
		"hidden property assignment": "hidden property {type} cannot be assigned",
		"conflicting key":            "key conflicts with a reserved name",
		"duplicate_key":              "duplicate key",
		"max_depth":                  "nesting too deep",
		"syntax":                     "parse error",
	},
	"ja": {
		"type mismatch":              "{type} が必要です",
		"unregistered type":          "型 {type} は登録されていません",
		"key mismatch":               "キーが {type} に一致しません",
		"invalid key type":           "キー型 {type} に検証関数がありません",
		"hidden property assignment": "隠しプロパティ {type} には代入できません",
		"conflicting key":            "予約済みの名前と衝突するキーです",
		"duplicate_key":              "キーが重複しています",
		"max_depth":                  "ネストが深すぎます",
		"syntax":                     "解析エラー",
	},
}

func (t dictTranslator) Message(kind string, data map[string]string) string {
	msg, ok := dict[t.lang][kind]
	if !ok {
		return kind
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given kind using the current Translator.
func T(kind string, data map[string]string) string { return currentTranslator.Message(kind, data) }
