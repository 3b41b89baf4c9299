package lessunit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/sfcshift/pkg/lessunit"
)

func TestRewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single value", ".a { .px2rem6(height, 40); }", ".a { height: 40px; }"},
		{"many values", "  .px2rem6(padding, 10, 0, 5.5, 20);", "  padding: 10px 0px 5.5px 20px;"},
		{"unit wrapper", ".px2rem6(width, unit(30));", "width: 30px;"},
		{"keyword kept", ".px2rem6(margin, auto, 12);", "margin: auto 12px;"},
		{"important", ".px2rem6(top, 1) !important;", "top: 1px !important;"},
		{"no semicolon", ".px2rem6(left, 2)\n", "left: 2px;\n"},
		{"variable kept", ".px2rem6(font-size, @base);", "font-size: @base;"},
		{"missing values", ".px2rem6(height);", ".px2rem6(height);"},
		{"unclosed", ".px2rem6(height, 4\n}", ".px2rem6(height, 4\n}"},
		{"untouched", ".b { color: red; }", ".b { color: red; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, lessunit.Rewrite(tt.in))
		})
	}
}

func TestRewrite_KeepsIndentationAcrossLines(t *testing.T) {
	t.Parallel()

	in := ".card {\n  .px2rem6(height, 40);\n  .inner {\n    .px2rem6(width, 10, 20);\n  }\n}\n"
	want := ".card {\n  height: 40px;\n  .inner {\n    width: 10px 20px;\n  }\n}\n"

	assert.Equal(t, want, lessunit.Rewrite(in))
}
