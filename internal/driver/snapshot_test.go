package driver

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestCompileSnapshots pins the emitted IR shape for a handful of small,
// representative programs, the same way the teacher's fixture suite
// pins interpreter output: a regression in the emitter's instruction
// selection or block layout shows up as a snapshot diff instead of a
// silent behavior change.
func TestCompileSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{
			name: "arithmetic",
			src:  "def main() -> Int:\n    return (2 + 3) * 4\n",
		},
		{
			name: "branch_and_call",
			src: "def classify(n: Int) -> String:\n" +
				"    if n < 0:\n" +
				"        return \"negative\"\n" +
				"    else:\n" +
				"        return \"non-negative\"\n\n" +
				"def main() -> String:\n" +
				"    return classify(-3)\n",
		},
		{
			name: "loop",
			src: "def main() -> Int:\n" +
				"    let total = 0\n" +
				"    let i = 0\n" +
				"    while i < 5:\n" +
				"        total = total + i\n" +
				"        i = i + 1\n" +
				"    return total\n",
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			entry := writeFile(t, dir, "main.ot", c.src)

			ir, diags := Compile(entry, "", 0)
			if diags != nil {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}

			snaps.MatchSnapshot(t, c.name, ir)
		})
	}
}
