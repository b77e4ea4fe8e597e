package answer

import "testing"

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Сбросьте пароль в настройках.", "Сбросьте пароль в настройках."},
		{"think tag", "<think>user wants reset</think>\nСбросьте пароль.", "Сбросьте пароль."},
		{"think tag multiline upper", "<THINK>\nline1\nline2\n</THINK>Готово", "Готово"},
		{"thinking tag", "<thinking>hmm</thinking>Done.", "Done."},
		{"bracket thinking", "[thinking]a\nb[/thinking] Yes.", "Yes."},
		{"fenced thinking", "```thinking\nsteps\n```\nParolu yeniləyin.", "Parolu yeniləyin."},
		{"thinking preamble to marker", "Thinking: the user asks X.\nAnswer: Reset it.", "Reset it."},
		{"thinking preamble russian marker", "Thinking: вопрос о пароле. Ответ: Сбросьте.", "Сбросьте."},
		{"thinking preamble to end", "Thinking: nothing useful", ""},
		{"let me preamble", "Let me check the context. Based on it, reset.", "Based on it, reset."},
		{"answer prefix", "Answer: Reset it.", "Reset it."},
		{"final answer prefix", "Final answer - Reset it.", "Reset it."},
		{"russian prefix", "Ответ: Сбросьте пароль.", "Сбросьте пароль."},
		{"itak prefix", "Итак, сбросьте пароль.", "сбросьте пароль."},
		{"so needs separator", "Some text stays.", "Some text stays."},
		{"davayte answer kept", "Давайте сбросим пароль: откройте настройки.", "Давайте сбросим пароль: откройте настройки."},
		{"rassmotrim answer kept", "Рассмотрим два способа оплаты: карта и перевод.", "Рассмотрим два способа оплаты: карта и перевод."},
		{"analyzing answer kept", "Analyzing logs is done in the admin panel.", "Analyzing logs is done in the admin panel."},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAnswer(tt.raw); got != tt.want {
				t.Errorf("extractAnswer(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestHasMarker(t *testing.T) {
	markers := []string{"нет ответа", "no answer", "cavab yoxdur"}
	tests := []struct {
		text string
		want bool
	}{
		{"В контексте НЕТ ОТВЕТА на вопрос", true},
		{"There is No Answer here", true},
		{"Bu sualın cavab yoxdur", true},
		{"Сбросьте пароль", false},
	}
	for _, tt := range tests {
		if got := hasMarker(tt.text, markers); got != tt.want {
			t.Errorf("hasMarker(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
