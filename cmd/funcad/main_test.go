package main

import "testing"

func TestHandlerEntryAndFunctionArg(t *testing.T) {
	status := Handler([]string{"testdata/basic/main.fc", "main"}, map[string]string{})
	if status != 0 {
		t.Fatalf("Handler status = %d, want 0", status)
	}
}

func TestHandlerUsesManifestEntry(t *testing.T) {
	// No function name on the command line: falls back to funcad.yaml's
	// "entry: render".
	status := Handler([]string{"testdata/withmanifest/main.fc"}, map[string]string{})
	if status != 0 {
		t.Fatalf("Handler status = %d, want 0", status)
	}
}

func TestHandlerToleranceOptionOverridesManifest(t *testing.T) {
	status := Handler([]string{"testdata/withmanifest/main.fc", "render"}, map[string]string{"tolerance": "0.5"})
	if status != 0 {
		t.Fatalf("Handler status = %d, want 0", status)
	}
}

func TestHandlerMissingEntryFile(t *testing.T) {
	status := Handler([]string{}, map[string]string{})
	if status == 0 {
		t.Fatal("Handler should fail when no entry file is given")
	}
}

func TestHandlerInvalidToleranceOption(t *testing.T) {
	status := Handler([]string{"testdata/basic/main.fc", "main"}, map[string]string{"tolerance": "not-a-number"})
	if status == 0 {
		t.Fatal("Handler should fail for a non-numeric --tolerance value")
	}
}

func TestHandlerUnknownFunction(t *testing.T) {
	status := Handler([]string{"testdata/basic/main.fc", "missing"}, map[string]string{})
	if status == 0 {
		t.Fatal("Handler should fail evaluating an undefined function")
	}
}
