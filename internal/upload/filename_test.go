package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{`..\..\windows\system32\cmd.exe`, "windows_system32_cmd.exe"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"report (final).pdf", "report_final.pdf"},
		{".hidden", "hidden"},
		{"__init__.py", "init__.py"},
		{`dir\evil.txt`, "dir_evil.txt"},
		{"con.txt", "_con.txt"},
		{"COM9.log", "_COM9.log"},
		{"lpt4.txt", "lpt4.txt"},
		{"日本語", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SecureFilename(c.in), "input %q", c.in)
	}
}
