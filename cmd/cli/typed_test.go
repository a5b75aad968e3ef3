package main

import (
	"strings"
	"testing"
)

func Test_parseWorkCenter(t *testing.T) {
	t.Parallel()

	wc, err := parseWorkCenter(" Plant | Street 1 | 600 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if wc.Name != "Plant" || wc.Address == nil || *wc.Address != "Street 1" || wc.Phone == nil || *wc.Phone != "600" {
		t.Fatalf("unexpected: %+v", wc)
	}

	wc, err = parseWorkCenter("Depot||")
	if err != nil || wc.Address != nil || wc.Phone != nil {
		t.Fatalf("blank parts must be nil: %+v %v", wc, err)
	}

	for _, bad := range []string{"", "|addr", "a|b|c|d"} {
		if _, err := parseWorkCenter(bad); err == nil {
			t.Fatalf("want error for %q", bad)
		}
	}
}

func Test_parseWorkCenters_Empty(t *testing.T) {
	t.Parallel()

	got, err := parseWorkCenters(nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v %v", got, err)
	}
}

func Test_required_And_changed(t *testing.T) {
	t.Parallel()

	fs := newFlags("x")
	fs.String("name", "", "")
	fs.String("note", "", "")
	fs.StringSlice("ids", nil, "")
	if err := fs.Parse([]string{"--note", ""}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	err := required(fs, "name", "ids")
	if err == nil || !strings.Contains(err.Error(), "--name --ids") {
		t.Fatalf("required: %v", err)
	}
	if changed(fs, "name") != nil {
		t.Fatalf("unset flag must be nil")
	}
	if v := changed(fs, "note"); v == nil || *v != "" {
		t.Fatalf("explicitly empty flag must be kept: %v", v)
	}
}

func Test_commands_HaveUsage(t *testing.T) {
	t.Parallel()

	for name, c := range commands {
		if c.usage == "" || c.run == nil {
			t.Fatalf("command %s incomplete", name)
		}
	}
	if !commands["login"].public || commands["wipe"].public {
		t.Fatalf("only login is public")
	}
}

func Test_choose(t *testing.T) {
	t.Parallel()

	if choose("a", "b") != "a" || choose("", "b") != "b" {
		t.Fatalf("choose mismatch")
	}
}
