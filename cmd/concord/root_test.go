package main

import "testing"

func TestRootHelpGroupsCommands(t *testing.T) {
	out, _, err := runCLI(t, []string{"--help"}, "")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, want := range []string{"Annotation:", "Agreement:", "Setup:", "corpus", "serve"} {
		requireContains(t, out, want)
	}
}
