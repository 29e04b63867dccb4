package pipeline

import (
	"errors"
	"testing"
)

func TestChainStopsAtFirstError(t *testing.T) {
	var ran []string
	boom := errors.New("boom")

	c := New().
		Then("a", func() error { ran = append(ran, "a"); return nil }).
		Then("b", func() error { ran = append(ran, "b"); return boom }).
		Then("c", func() error { ran = append(ran, "c"); return nil })

	if !errors.Is(c.Err(), boom) {
		t.Fatalf("Err() = %v, want wrapping %v", c.Err(), boom)
	}
	if c.FailedStep() != "b" {
		t.Fatalf("FailedStep() = %q, want %q", c.FailedStep(), "b")
	}
	if len(ran) != 2 || ran[0] != "a" || ran[1] != "b" {
		t.Fatalf("unexpected steps ran: %v", ran)
	}
}

func TestChainAllSucceed(t *testing.T) {
	c := New().
		Then("a", func() error { return nil }).
		Then("b", func() error { return nil })
	if c.Err() != nil {
		t.Fatalf("Err() = %v, want nil", c.Err())
	}
}
