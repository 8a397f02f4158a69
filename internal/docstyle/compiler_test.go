package docstyle

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/airenas/lecture-summarizer/internal/domain"
)

func TestCompile_Lecture(t *testing.T) {
	got := Compile("1. ЗАГОЛОВОК: Физика\n2. ЛЕКТОР: Иванов\n")
	want := []domain.StyleInstruction{
		{Kind: domain.StyleHeading, Start: 1, End: 21},
		{Kind: domain.StyleBoldLabel, Start: 22, End: 32},
	}
	if !reflect.DeepEqual(got.Styles, want) {
		t.Errorf("Compile() = %+v, want %+v", got.Styles, want)
	}
	if got.Body != "1. ЗАГОЛОВОК: Физика\n2. ЛЕКТОР: Иванов\n" {
		t.Errorf("Body = %q", got.Body)
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantBody string
		want     []domain.StyleInstruction
	}{
		{name: "empty", text: "", wantBody: "", want: nil},
		{name: "no sections", text: "просто текст\nещё текст", wantBody: "просто текст\nещё текст", want: nil},
		{name: "markup stripped", text: "**1. ЗАГОЛОВОК:** Тема\n__3. ЦЕЛЬ:__ понять",
			wantBody: "1. ЗАГОЛОВОК: Тема\n3. ЦЕЛЬ: понять",
			want: []domain.StyleInstruction{
				{Kind: domain.StyleHeading, Start: 1, End: 19},
				{Kind: domain.StyleBoldLabel, Start: 20, End: 28},
			}},
		{name: "empty body", text: "1. ЗАГОЛОВОК:\n2. ЛЕКТОР:",
			wantBody: "1. ЗАГОЛОВОК:\n2. ЛЕКТОР:",
			want: []domain.StyleInstruction{
				{Kind: domain.StyleHeading, Start: 1, End: 14},
				{Kind: domain.StyleBoldLabel, Start: 15, End: 25},
			}},
		{name: "multiline section", text: "8. ТЕЗИСЫ: список\n- первый\n- второй\n9. ПОДТЕМА: нет",
			wantBody: "8. ТЕЗИСЫ: список\n- первый\n- второй\n9. ПОДТЕМА: нет",
			want: []domain.StyleInstruction{
				{Kind: domain.StyleBoldLabel, Start: 1, End: 11},
				{Kind: domain.StyleBoldLabel, Start: 37, End: 48},
			}},
		{name: "no space after dot", text: "12.ПРИМЕРЫ: x", wantBody: "12.ПРИМЕРЫ: x",
			want: []domain.StyleInstruction{{Kind: domain.StyleBoldLabel, Start: 1, End: 12}}},
		{name: "indented not matched", text: " 2. ЛЕКТОР: x", wantBody: " 2. ЛЕКТОР: x", want: nil},
		{name: "no colon", text: "2. ЛЕКТОР Иванов", wantBody: "2. ЛЕКТОР Иванов", want: nil},
		{name: "emoji counts two units", text: "🎓 лекция\n2. ЛЕКТОР: x",
			wantBody: "🎓 лекция\n2. ЛЕКТОР: x",
			want: []domain.StyleInstruction{{Kind: domain.StyleBoldLabel, Start: 11, End: 21}}},
		{name: "trailing blank lines", text: "2. ЛЕКТОР: x\n\n\n", wantBody: "2. ЛЕКТОР: x\n\n\n",
			want: []domain.StyleInstruction{{Kind: domain.StyleBoldLabel, Start: 1, End: 11}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile(tt.text)
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if !reflect.DeepEqual(got.Styles, tt.want) {
				t.Errorf("Styles = %+v, want %+v", got.Styles, tt.want)
			}
		})
	}
}

func fullSummary() string {
	var sb strings.Builder
	sb.WriteString("**1. ЗАГОЛОВОК:** Квантовая механика 🎓\n\n")
	labels := []string{"ЛЕКТОР", "ЦЕЛЬ ЛЕКЦИИ", "ГЛАВНАЯ МЫСЛЬ", "ВВЕДЕНИЕ", "ОСНОВНЫЕ ЧАСТИ ЛЕКЦИИ",
		"КЛЮЧЕВЫЕ ТЕЗИСЫ", "ПОДРОБНЫЕ КЛЮЧЕВЫЕ ТЕЗИСЫ", "ПОДТЕМА", "КЛЮЧЕВЫЕ ОТКРЫТИЯ",
		"ПОНЯТИЯ И ОПРЕДЕЛЕНИЯ", "ПРИМЕРЫ И СЛУЧАИ", "ПРИМЕРЫ И ЦИТАТЫ", "ЦИТАТЫ ЛЕКТОРА",
		"ВАЖНЫЕ ЦИТАТЫ", "ПРАКТИЧЕСКОЕ ПРИМЕНЕНИЕ", "ПРАКТИЧЕСКИЕ ПРИЕМЫ", "ВОПРОСЫ И ОТВЕТЫ",
		"ОТКРЫТЫЕ ВОПРОСЫ", "ЗАКЛЮЧЕНИЕ", "ИТОГ ЛЕКЦИИ", "РЕЗЮМЕ"}
	for i, l := range labels {
		sb.WriteString(strings.Join([]string{strconv.Itoa(i + 2), ". **", l, ":** Не упоминалось 📌\n- пункт: «цитата»\n"}, ""))
	}
	sb.WriteString("\n\n")
	return sb.String()
}

func TestCompile_Invariants(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"1. ЗАГОЛОВОК: Физика\n2. ЛЕКТОР: Иванов\n",
		fullSummary(),
		"1.\n2.:\n3. :\n4.a:b:c\n**\n__",
		"текст без разметки 😀😀😀\n1. ЗАГОЛОВОК: 😀",
	}
	for i, in := range inputs {
		first := Compile(in)
		second := Compile(in)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("input %d: Compile() is not deterministic", i)
		}
		bodyEnd := Anchor + TextLen(first.Body)
		var prevEnd int64 = Anchor
		for j, s := range first.Styles {
			if s.Start < prevEnd {
				t.Errorf("input %d: style %d overlaps previous: %+v", i, j, s)
			}
			if s.End <= s.Start {
				t.Errorf("input %d: style %d is empty: %+v", i, j, s)
			}
			if s.End > bodyEnd {
				t.Errorf("input %d: style %d exceeds body %d: %+v", i, j, bodyEnd, s)
			}
			prevEnd = s.End
		}
		if strings.Contains(first.Body, "**") || strings.Contains(first.Body, "__") {
			t.Errorf("input %d: markup left in body", i)
		}
	}
}

func TestCompile_FullSummary(t *testing.T) {
	got := Compile(fullSummary())
	if len(got.Styles) != 22 {
		t.Fatalf("Styles = %d, want 22", len(got.Styles))
	}
	if got.Styles[0].Kind != domain.StyleHeading || got.Styles[0].Start != Anchor {
		t.Errorf("first style = %+v", got.Styles[0])
	}
	units := utf16Units(got.Body)
	for _, s := range got.Styles[1:] {
		if s.Kind != domain.StyleBoldLabel {
			t.Errorf("style = %+v, want bold", s)
		}
		label := string(utf16Decode(units[s.Start-Anchor : s.End-Anchor]))
		if !strings.HasSuffix(label, ":") || strings.Contains(label, "Не упоминалось") {
			t.Errorf("bold range covers %q", label)
		}
	}
	heading := string(utf16Decode(units[got.Styles[0].Start-Anchor : got.Styles[0].End-Anchor]))
	if heading != "1. ЗАГОЛОВОК: Квантовая механика 🎓" {
		t.Errorf("heading range covers %q", heading)
	}
}
