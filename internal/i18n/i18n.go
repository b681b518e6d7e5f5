package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language 诊断信息使用的语言
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

var (
	currentLang = LangEnglish
	mu          sync.RWMutex
)

// ParseLanguage 把配置或环境变量中的语言名称映射为 Language，
// 无法识别的名称一律回退到英文。
func ParseLanguage(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zh", "zh-cn", "zh_cn", "zh-tw", "zh-hk", "chinese":
		return LangChinese
	default:
		return LangEnglish
	}
}

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

func catalog(lang Language) map[string]string {
	if lang == LangChinese {
		return messagesZH
	}
	return messagesEN
}

// T 按当前语言翻译消息
//
// 当前语言缺少该消息时回退到英文，英文也缺失时原样返回 msgID。
func T(msgID string, args ...interface{}) string {
	msg, ok := catalog(GetLanguage())[msgID]
	if !ok {
		if msg, ok = messagesEN[msgID]; !ok {
			return msgID
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
