package i18n

import "testing"

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
	}{
		{"zh", LangChinese},
		{" ZH-CN ", LangChinese},
		{"chinese", LangChinese},
		{"en", LangEnglish},
		{"fr", LangEnglish},
		{"", LangEnglish},
	}

	for _, tt := range tests {
		if got := ParseLanguage(tt.input); got != tt.expected {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTranslate(t *testing.T) {
	defer SetLanguage(GetLanguage())

	SetLanguage(LangEnglish)
	if got := T(ErrUnknownMacro, "foo"); got != "unknown macro 'foo!'" {
		t.Errorf("en: got %q", got)
	}

	SetLanguage(LangChinese)
	if got := T(ErrUnknownMacro, "foo"); got != "未知的宏 'foo!'" {
		t.Errorf("zh: got %q", got)
	}
	if got := T(ErrTypeMismatch, "String", "x", "Number"); got != "不能将 String 赋值给类型为 Number 的 'x'" {
		t.Errorf("zh reordered args: got %q", got)
	}

	if got := T("no.such.message"); got != "no.such.message" {
		t.Errorf("missing id: got %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for id := range messagesEN {
		if _, ok := messagesZH[id]; !ok {
			t.Errorf("zh catalog missing %s", id)
		}
	}
	for id := range messagesZH {
		if _, ok := messagesEN[id]; !ok {
			t.Errorf("en catalog missing %s", id)
		}
	}
}
