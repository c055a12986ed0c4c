package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_EnvMap_When_Converting_Environ(t *testing.T) {
	t.Parallel()

	got := envMap([]string{
		"HOME=/home/me",
		"NOE_DEBUG=1",
		"EQUALS=a=b",
		"EMPTY=",
		"NOVALUE",
		"=hidden",
		"HOME=/override",
	})

	want := map[string]string{
		"HOME":      "/override",
		"NOE_DEBUG": "1",
		"EQUALS":    "a=b",
		"EMPTY":     "",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("envMap mismatch (-want +got):\n%s", diff)
	}
}
