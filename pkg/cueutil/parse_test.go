// SPDX-License-Identifier: MPL-2.0

package cueutil_test

import (
	"strings"
	"testing"

	"github.com/addonpaths/addonpaths/pkg/cueutil"
)

const testSchema = `
#Settings: {
	name:     string & !=""
	sources?: [...string]
}
`

type testSettings struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	got, err := cueutil.ParseAndDecode[testSettings](
		[]byte(testSchema),
		[]byte(`name: "my-app"
sources: ["engines"]`),
		"#Settings",
		cueutil.WithFilename("settings.cue"),
	)
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if got.Name != "my-app" || len(got.Sources) != 1 || got.Sources[0] != "engines" {
		t.Errorf("ParseAndDecode() = %+v", got)
	}
}

func TestParseAndDecode_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := cueutil.ParseAndDecode[testSettings](
		[]byte(testSchema),
		[]byte(`name: 42`),
		"#Settings",
		cueutil.WithFilename("settings.cue"),
	)
	if err == nil {
		t.Fatal("ParseAndDecode() expected error for wrong type")
	}
	if !strings.Contains(err.Error(), "settings.cue") || !strings.Contains(err.Error(), "name") {
		t.Errorf("error should name the file and field, got: %v", err)
	}
}

func TestParseAndDecode_DecodesIntoMap(t *testing.T) {
	t.Parallel()

	got, err := cueutil.ParseAndDecode[map[string]any](
		[]byte(testSchema),
		[]byte(`name: "my-app"`),
		"#Settings",
		cueutil.WithConcrete(false),
	)
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if (*got)["name"] != "my-app" {
		t.Errorf("decoded map = %v", *got)
	}
}

func TestParseAndDecode_FileSizeLimit(t *testing.T) {
	t.Parallel()

	_, err := cueutil.ParseAndDecode[testSettings](
		[]byte(testSchema),
		[]byte(`name: "`+strings.Repeat("x", 200)+`"`),
		"#Settings",
		cueutil.WithMaxFileSize(100),
	)
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size limit error, got: %v", err)
	}
}
