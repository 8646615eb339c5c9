package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "member" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"duplicate_member":   "member {member} is already defined",
		"unknown_member":     "no member named {member}",
		"index_out_of_range": "member index {index} is out of range",
		"invalid_option":     "invalid option for member {member}",
		"invalid_argument":   "invalid argument",
		"invalid_on_write":   "value is deficient for {member} in {type}",
		"invalid_on_read":    "stored value is deficient for {member} in {type}",
		"unmanageable_value": "value for {member} could not be adjusted",
		"frozen":             "can't modify frozen {type}",
		"locked_member":      "can't modify locked member {member}",
		"closed_type":        "can't declare members on closed {type}",
	},
	"ja": {
		"duplicate_member":   "メンバー {member} は既に定義されています",
		"unknown_member":     "メンバー {member} は存在しません",
		"index_out_of_range": "メンバー番号 {index} は範囲外です",
		"invalid_option":     "メンバー {member} のオプションが不正です",
		"invalid_argument":   "引数が不正です",
		"invalid_on_write":   "{type} の {member} に設定できない値です",
		"invalid_on_read":    "{type} の {member} に保持された値が条件を満たしません",
		"unmanageable_value": "{member} の値を変換できません",
		"frozen":             "凍結された {type} は変更できません",
		"locked_member":      "ロックされたメンバー {member} は変更できません",
		"closed_type":        "閉じられた {type} にメンバーを追加できません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
