package cmd

import (
	"testing"

	"github.com/cl-kim/gluesql/testutil"
)

func TestDecodeConfig(t *testing.T) {
	cases := []struct {
		filename string
		config   string
		want     map[string]interface{}
		fail     bool
	}{
		{
			filename: "gluesql.hcl",
			config: `
store = "bbolt"
data = "db"
`,
			want: map[string]interface{}{"store": "bbolt", "data": "db"},
		},
		{
			filename: "gluesql.yaml",
			config: `
store: pebble
log-level: debug
`,
			want: map[string]interface{}{"store": "pebble", "log-level": "debug"},
		},
		{filename: "gluesql.yml", config: "store: [", fail: true},
		{filename: "gluesql.hcl", config: "store = ", fail: true},
	}

	for _, c := range cases {
		got := map[string]interface{}{}
		err := decodeConfig(c.filename, []byte(c.config), got)
		if c.fail {
			if err == nil {
				t.Errorf("decodeConfig(%s) did not fail", c.filename)
			}
		} else if err != nil {
			t.Errorf("decodeConfig(%s) failed with %s", c.filename, err)
		} else if !testutil.DeepEqual(got, c.want) {
			t.Errorf("decodeConfig(%s) got %v want %v", c.filename, got, c.want)
		}
	}
}
