package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/noe/internal/cli"
)

func Test_New_Prints_Number_When_Created(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("new", "first"), "Added note #1"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("new", "second"), "Added note #2"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	_, err := os.Stat(c.NotesFile())
	if err != nil {
		t.Fatalf("notes file missing: %v", err)
	}
}

func Test_New_Uses_Requested_Number_When_Free(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("new", "-n", "42", "answer"), "Added note #42"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("new", "next"), "Added note #43"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func Test_New_Falls_Back_When_Requested_Number_Taken(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "one")
	c.MustRun("new", "two")

	if got, want := c.MustRun("new", "--number", "1", "dup"), "Added note #3"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func Test_New_Rejects_Bad_Input_When_Invoked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no text", args: []string{"new"}, want: "note text is required"},
		{name: "empty text", args: []string{"new", ""}, want: "note text is required"},
		{name: "unquoted words", args: []string{"new", "buy", "milk"}, want: "too many arguments"},
		{name: "zero number", args: []string{"new", "-n", "0", "x"}, want: "--number must be at least 1"},
		{name: "number too high", args: []string{"new", "-n", "65536", "x"}, want: "invalid note number"},
		{name: "non numeric", args: []string{"new", "-n", "abc", "x"}, want: "invalid argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(tt.args...)
			cli.AssertContains(t, stderr, tt.want)
		})
	}
}

func Test_List_Shows_Only_Incomplete_By_Default(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "open task")
	c.MustRun("new", "finished task")
	c.MustRun("done", "2")

	stdout := c.MustRun("list")
	cli.AssertContains(t, stdout, "#1:")
	cli.AssertContains(t, stdout, "open task")
	cli.AssertNotContains(t, stdout, "finished task")
}

func Test_List_Filters_When_Flags_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "open task")
	c.MustRun("new", "finished task")
	c.MustRun("done", "2")

	done := c.MustRun("list", "--done")
	cli.AssertContains(t, done, "#2: done!")
	cli.AssertNotContains(t, done, "open task")

	all := c.MustRun("list", "-a")
	cli.AssertContains(t, all, "open task")
	cli.AssertContains(t, all, "finished task")

	allWins := c.MustRun("list", "-a", "-d")
	cli.AssertContains(t, allWins, "open task")
	cli.AssertContains(t, allWins, "finished task")
}

func Test_List_Expands_Line_Breaks_When_Printing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", `line one\nline two`)

	stdout, _, code := c.Run("list")
	if got, want := code, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, "  #1:\nline one\nline two\n"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func Test_List_Empty_When_No_Notes(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("list"), ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func Test_Done_And_Undone_Toggle_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "toggle me")

	if got, want := c.MustRun("done", "1"), "Marked note #1 done"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("list"), ""; got != want {
		t.Errorf("list after done=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("undone", "1"), "Marked note #1 undone"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, c.MustRun("list"), "toggle me")
}

func Test_Done_Is_Silent_No_Op_When_Number_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "only")

	c.MustRun("done", "7")

	cli.AssertContains(t, c.MustRun("list"), "only")
}

func Test_Number_Argument_Errors_When_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "done missing", args: []string{"done"}, want: "note number is required"},
		{name: "done word", args: []string{"done", "one"}, want: "invalid note number"},
		{name: "undone zero", args: []string{"undone", "0"}, want: "invalid note number"},
		{name: "remove too high", args: []string{"remove", "70000"}, want: "must be 1-65535"},
		{name: "remove extra", args: []string{"remove", "1", "2"}, want: "unexpected argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(tt.args...)
			cli.AssertContains(t, stderr, tt.want)
		})
	}
}

func Test_Remove_Deletes_Note_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "keep")
	c.MustRun("new", "drop")

	if got, want := c.MustRun("remove", "2"), "Removed note #2"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	stdout := c.MustRun("list", "--all")
	cli.AssertContains(t, stdout, "keep")
	cli.AssertNotContains(t, stdout, "drop")

	c.MustRun("remove", "2")
}

func Test_Explode_Deletes_Notes_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "doomed")

	if got, want := c.MustRun("explode"), "Notes exploded"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	_, err := os.Stat(c.NotesFile())
	if !os.IsNotExist(err) {
		t.Fatalf("notes file still present: %v", err)
	}

	if got, want := c.MustRun("list", "--all"), ""; got != want {
		t.Errorf("list after explode=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("new", "fresh"), "Added note #1"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func Test_Explode_Succeeds_When_Notes_File_Never_Created(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got, want := c.MustRun("explode"), "Notes exploded"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	_, err := os.Stat(c.NotesFile())
	if !os.IsNotExist(err) {
		t.Fatalf("notes file should not exist after explode: %v", err)
	}
}

func Test_Commands_Report_Storage_Unavailable_When_Directory_Missing(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"new", "x"}, {"done", "1"}, {"undone", "1"}, {"remove", "1"}, {"explode"}, {"list"}} {
		t.Run(args[0], func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(append([]string{"--file", filepath.Join(c.Dir, "missing", "notes.db")}, args...)...)

			cli.AssertContains(t, stderr, "storage unavailable")
		})
	}
}

type exported struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
	Done   bool   `json:"done" yaml:"done"`
}

func Test_Export_Writes_Sorted_JSON_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "-n", "5", "five")
	c.MustRun("new", "-n", "2", `two\nlines`)
	c.MustRun("done", "5")

	var got []exported

	err := json.Unmarshal([]byte(c.MustRun("export")), &got)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []exported{
		{Number: 2, Text: `two\nlines`},
		{Number: 5, Text: "five", Done: true},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
}

func Test_Export_Writes_YAML_File_When_Output_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("new", "hello")

	stdout := c.MustRun("export", "--format", "yaml", "-o", "notes.yaml")
	cli.AssertContains(t, stdout, "Exported 1 notes to "+filepath.Join(c.Dir, "notes.yaml"))

	data, err := os.ReadFile(filepath.Join(c.Dir, "notes.yaml"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var got []exported

	err = yaml.Unmarshal(data, &got)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff([]exported{{Number: 1, Text: "hello"}}, got); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
}

func Test_Export_Rejects_Unknown_Format_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("export", "--format", "xml")

	cli.AssertContains(t, stderr, "unknown export format")
}

func Test_Driver_Flag_Selects_Engine_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"sqlite3", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.MustRun("--driver", driver, "new", "via "+driver)

			cli.AssertContains(t, c.MustRun("--driver", driver, "list"), "via "+driver)
		})
	}
}

func Test_Unknown_Driver_Fails_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--driver", "postgres", "list")

	cli.AssertContains(t, stderr, "unknown driver")
}

// Walks the numbering scenario end to end: 1, 2, 3, a requested 10, a
// fallback to 11, removal of 2 and reuse of 2 on request.
func Test_Numbering_Scenario_When_Run_End_To_End(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"new", "a"}, "Added note #1"},
		{[]string{"new", "b"}, "Added note #2"},
		{[]string{"new", "c"}, "Added note #3"},
		{[]string{"new", "-n", "10", "d"}, "Added note #10"},
		{[]string{"new", "-n", "3", "e"}, "Added note #11"},
		{[]string{"remove", "2"}, "Removed note #2"},
		{[]string{"new", "-n", "2", "f"}, "Added note #2"},
		{[]string{"new", "g"}, "Added note #12"},
	}

	for _, step := range steps {
		if got := c.MustRun(step.args...); got != step.want {
			t.Fatalf("%s: stdout=%q, want=%q", strings.Join(step.args, " "), got, step.want)
		}
	}

	stdout := c.MustRun("list")
	for _, n := range []string{"#1:", "#2:", "#3:", "#10:", "#11:", "#12:"} {
		cli.AssertContains(t, stdout, n)
	}
}
