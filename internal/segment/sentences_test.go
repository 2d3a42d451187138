package segment

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"decimal", "Price is 3.14 dollars.", []string{"Price is 3.14 dollars."}},
		{"ellipsis and run", "Wait... really?!", []string{"Wait... really?!"}},
		{"cjk with closer", "他说：“你好。”然后走了。", []string{"他说：“你好。”", "然后走了。"}},
		{"two sentences", "Hello world. Nice day!", []string{"Hello world.", "Nice day!"}},
		{"newline boundary", "no stop\nnext line", []string{"no stop", "next line"}},
		{"trailing remainder", "Done. and then", []string{"Done.", "and then"}},
		{"quote absorbed", `He said "go." She left.`, []string{`He said "go."`, "She left."}},
		{"paren absorbed", "(It works.) Fine?", []string{"(It works.)", "Fine?"}},
		{"question run", "What?? Yes!!! Ok", []string{"What??", "Yes!!!", "Ok"}},
		{"cjk bang no exception", "好！1。2", []string{"好！", "1。", "2"}},
		{"dot before digit only", "Version 2. 5 items.", []string{"Version 2.", "5 items."}},
		{"blank lines", "\n\n  \n", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q): expected %q, got %q", tt.input, tt.want, got)
			}
		})
	}
}

func TestSplitSentences_Restartable(t *testing.T) {
	first := SplitSentences("One. Two.")
	second := SplitSentences("One. Two.")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output across calls, got %q and %q", first, second)
	}
}
