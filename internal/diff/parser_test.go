package diff

import (
	"reflect"
	"strings"
	"testing"

	"intentcheck/internal/types"
)

func pyFilter(path string) bool {
	return strings.HasSuffix(path, ".py")
}

func TestParseChangedLines(t *testing.T) {
	diff := `diff --git a/app/service.py b/app/service.py
index 83db48f..f735c20 100644
--- a/app/service.py
+++ b/app/service.py
@@ -1,3 +1,4 @@
 import os
+import json
 def run():
     pass
@@ -10,3 +11,4 @@
 class Worker:
-    retries = 2
+    retries = 3
+    timeout = 30
`

	expect := types.ChangeSet{
		"app/service.py": {2: true, 12: true, 13: true},
	}

	got := ParseChangedLines(diff, pyFilter)
	if !reflect.DeepEqual(got, expect) {
		t.Errorf("ParseChangedLines() = %v; want %v", got, expect)
	}
}

func TestParseChangedLinesHunkStart(t *testing.T) {
	// First added line of a hunk must land exactly on the hunk's new-start.
	diff := `+++ b/x.py
@@ -4,2 +7,3 @@
+first
 ctx
+third
`
	got := ParseChangedLines(diff, pyFilter)
	expect := types.ChangeSet{"x.py": {7: true, 9: true}}
	if !reflect.DeepEqual(got, expect) {
		t.Errorf("ParseChangedLines() = %v; want %v", got, expect)
	}
}

func TestParseChangedLinesRemovedLinesDoNotAdvance(t *testing.T) {
	diff := `+++ b/x.py
@@ -1,4 +1,3 @@
 keep
-gone
-also gone
+replacement
 tail
`
	got := ParseChangedLines(diff, pyFilter)
	expect := types.ChangeSet{"x.py": {2: true}}
	if !reflect.DeepEqual(got, expect) {
		t.Errorf("ParseChangedLines() = %v; want %v", got, expect)
	}
}

func TestParseChangedLinesDeletionOnlyFileDropped(t *testing.T) {
	diff := `+++ b/gone.py
@@ -1,3 +1,0 @@
-a
-b
-c
+++ b/kept.py
@@ -1 +1,2 @@
 a
+b
`
	got := ParseChangedLines(diff, pyFilter)
	if _, ok := got["gone.py"]; ok {
		t.Errorf("deletion-only file should be dropped, got %v", got)
	}
	if !reflect.DeepEqual(got["kept.py"], types.LineSet{2: true}) {
		t.Errorf("kept.py lines = %v; want {2}", got["kept.py"])
	}
}

func TestParseChangedLinesUnsupportedExtensionExcluded(t *testing.T) {
	diff := `+++ b/README.md
@@ -1 +1,2 @@
 a
+b
+++ b/ok.py
@@ -1 +1,2 @@
 a
+b
`
	got := ParseChangedLines(diff, pyFilter)
	expect := types.ChangeSet{"ok.py": {2: true}}
	if !reflect.DeepEqual(got, expect) {
		t.Errorf("ParseChangedLines() = %v; want %v", got, expect)
	}
}

func TestParseChangedLinesMalformedHunkDropsFile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.ChangeSet
	}{
		{
			name:  "empty input",
			input: "",
			want:  types.ChangeSet{},
		},
		{
			name: "malformed hunk header",
			input: `+++ b/file.py
@@ -1,3 +a,b @@
+line
`,
			want: types.ChangeSet{},
		},
		{
			name: "lines before any header ignored",
			input: `+random noise
@@ -1 +1 @@
+++ b/file.py
@@ -1 +1,2 @@
 a
+b
`,
			want: types.ChangeSet{"file.py": {2: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseChangedLines(tt.input, pyFilter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseChangedLines() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestParseChangedLinesNoNewlineMarker(t *testing.T) {
	diff := `+++ b/x.py
@@ -1,2 +1,2 @@
 a
+b
\ No newline at end of file
`
	got := ParseChangedLines(diff, pyFilter)
	expect := types.ChangeSet{"x.py": {2: true}}
	if !reflect.DeepEqual(got, expect) {
		t.Errorf("ParseChangedLines() = %v; want %v", got, expect)
	}
}
