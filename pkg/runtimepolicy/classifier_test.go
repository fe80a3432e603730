package runtimepolicy

import "testing"

func TestClassifyCondition(t *testing.T) {
	cond, verbose := Classify(`[host/webserver-1] [condition]: {"cpu":0.92}`)

	if cond == nil {
		t.Fatal("expected a condition record")
	}
	if cond.Asset != "host/webserver-1" {
		t.Errorf("asset = %q, want %q", cond.Asset, "host/webserver-1")
	}
	if cond.Payload != ` {"cpu":0.92}` {
		t.Errorf("payload = %q", cond.Payload)
	}

	if verbose == nil {
		t.Fatal("expected condition lines to also classify as verbose")
	}
	if verbose.Asset != "host/webserver-1" {
		t.Errorf("verbose asset = %q", verbose.Asset)
	}
	if verbose.Raw != `[host/webserver-1] [condition]: {"cpu":0.92}` {
		t.Errorf("verbose raw = %q", verbose.Raw)
	}
}

func TestClassifyConditionEmptyPayload(t *testing.T) {
	cond, _ := Classify(`[host/webserver-1] [condition]:`)
	if cond == nil {
		t.Fatal("expected a condition record for an empty payload")
	}
	if cond.Payload != "" {
		t.Errorf("payload = %q, want empty", cond.Payload)
	}
}

func TestClassifyVerboseOnly(t *testing.T) {
	cond, verbose := Classify(`[host/webserver-1] evaluating rule high-cpu`)
	if cond != nil {
		t.Fatalf("did not expect a condition record, got %+v", cond)
	}
	if verbose == nil {
		t.Fatal("expected a verbose record")
	}
	if verbose.Asset != "host/webserver-1" {
		t.Errorf("asset = %q", verbose.Asset)
	}
	if verbose.Raw != `[host/webserver-1] evaluating rule high-cpu` {
		t.Errorf("raw = %q", verbose.Raw)
	}
}

func TestClassifyMalformed(t *testing.T) {
	cond, verbose := Classify("no leading asset tag here")
	if cond != nil || verbose != nil {
		t.Errorf("expected nil, nil for a malformed line, got %+v, %+v", cond, verbose)
	}
}

func TestClassifyMultilinePayload(t *testing.T) {
	line := "[host/webserver-1] [condition]: line one\nline two"
	cond, verbose := Classify(line)
	if cond == nil {
		t.Fatal("expected a condition record across embedded newlines")
	}
	if cond.Payload != " line one\nline two" {
		t.Errorf("payload = %q", cond.Payload)
	}
	if verbose.Raw != line {
		t.Errorf("raw = %q", verbose.Raw)
	}
}
